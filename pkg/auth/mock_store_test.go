package auth

import (
	"sort"
	"sync"
)

// mockStore is an in-memory CredentialStore
type mockStore struct {
	mu       sync.Mutex
	accounts map[string]*Account
	failAll  error
}

func newMockStore() *mockStore {
	return &mockStore{accounts: make(map[string]*Account)}
}

func (m *mockStore) Store(account *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	copied := *account
	m.accounts[account.Name] = &copied
	return nil
}

func (m *mockStore) Retrieve(name string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[name]
	if !ok {
		return nil, ErrCredentialsNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *mockStore) List() ([]*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		copied := *account
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[name]; !ok {
		return ErrCredentialsNotFound
	}
	delete(m.accounts, name)
	return nil
}

func (m *mockStore) Exists(name string) bool {
	_, err := m.Retrieve(name)
	return err == nil
}

func (m *mockStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts)
}
