package auth

import (
	"os"
	"time"
)

// Environment variables holding Tumblr credentials
const (
	EnvConsumerKey    = "TUMBLR_CONSUMER_KEY"
	EnvConsumerSecret = "TUMBLR_CONSUMER_SECRET"
	EnvOAuthToken     = "TUMBLR_OAUTH_TOKEN"
	EnvOAuthSecret    = "TUMBLR_OAUTH_SECRET"
)

// EnvironmentStore reads credentials from TUMBLR_* variables. It is
// read-only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment credentials under name, or "env" when
// name is empty. All four variables must be set.
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	account := &Account{
		Name:           name,
		ConsumerKey:    os.Getenv(EnvConsumerKey),
		ConsumerSecret: os.Getenv(EnvConsumerSecret),
		OAuthToken:     os.Getenv(EnvOAuthToken),
		OAuthSecret:    os.Getenv(EnvOAuthSecret),
		LastModified:   time.Now(),
	}
	if account.Validate() != nil {
		return nil, ErrCredentialsNotFound
	}
	if account.Name == "" {
		account.Name = "env"
	}
	return account, nil
}

// List returns the environment account when one is set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists reports whether complete environment credentials are set
func (e *EnvironmentStore) Exists(name string) bool {
	_, err := e.Retrieve(name)
	return err == nil
}
