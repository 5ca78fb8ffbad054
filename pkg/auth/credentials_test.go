package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccount(name string) *Account {
	return &Account{
		Name:           name,
		ConsumerKey:    "consumer_key_12345",
		ConsumerSecret: "consumer_secret_67890",
		OAuthToken:     "oauth_token_abcdef",
		OAuthSecret:    "oauth_secret_ghijkl",
	}
}

func clearTumblrEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvConsumerKey, EnvConsumerSecret, EnvOAuthToken, EnvOAuthSecret} {
		t.Setenv(name, "")
	}
}

func TestAccountValidate(t *testing.T) {
	assert.NoError(t, testAccount("a").Validate())

	err := (&Account{Name: "a", ConsumerKey: "k"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consumer secret is required")
	assert.Contains(t, err.Error(), "OAuth token is required")
	assert.Contains(t, err.Error(), "OAuth token secret is required")
	assert.NotContains(t, err.Error(), "consumer key is required")
}

func TestAccountCredentials(t *testing.T) {
	creds := testAccount("a").Credentials()
	assert.Equal(t, "consumer_key_12345", creds.ConsumerKey)
	assert.Equal(t, "oauth_secret_ghijkl", creds.TokenSecret)
	assert.True(t, creds.Complete())
}

func TestManagerLifecycle(t *testing.T) {
	store := newMockStore()
	manager := NewManagerWithStores(store)

	require.NoError(t, manager.Store(testAccount("work")))

	got, err := manager.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "oauth_token_abcdef", got.OAuthToken)
	assert.False(t, got.LastModified.IsZero())

	accounts, err := manager.List()
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	require.NoError(t, manager.Delete("work"))
	_, err = manager.Retrieve("work")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.Equal(t, 0, store.count())

	assert.ErrorIs(t, manager.Delete("work"), ErrCredentialsNotFound)
}

func TestManagerStoreDefaultsName(t *testing.T) {
	manager := NewManagerWithStores(newMockStore())
	account := testAccount("")
	require.NoError(t, manager.Store(account))
	assert.Equal(t, DefaultAccount, account.Name)

	_, err := manager.Retrieve(DefaultAccount)
	assert.NoError(t, err)
}

func TestManagerStoreRejectsIncomplete(t *testing.T) {
	manager := NewManagerWithStores(newMockStore())
	err := manager.Store(&Account{Name: "x", ConsumerKey: "k"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestManagerStoreFallsThrough(t *testing.T) {
	broken := newMockStore()
	broken.failAll = errors.New("keychain locked")
	working := newMockStore()
	manager := NewManagerWithStores(broken, working)

	require.NoError(t, manager.Store(testAccount("a")))
	assert.Equal(t, 0, broken.count())
	assert.Equal(t, 1, working.count())

	only := NewManagerWithStores(broken)
	err := only.Store(testAccount("a"))
	assert.ErrorContains(t, err, "keychain locked")

	assert.ErrorIs(t, NewManagerWithStores().Store(testAccount("a")), ErrStoreUnavailable)
}

func TestManagerListPrefersNewest(t *testing.T) {
	older, newer := newMockStore(), newMockStore()
	stale := testAccount("a")
	stale.OAuthToken = "stale"
	stale.LastModified = time.Now().Add(-time.Hour)
	fresh := testAccount("a")
	fresh.OAuthToken = "fresh"
	fresh.LastModified = time.Now()
	require.NoError(t, older.Store(stale))
	require.NoError(t, newer.Store(fresh))
	require.NoError(t, newer.Store(testAccount("b")))

	accounts, err := NewManagerWithStores(older, newer).List()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "a", accounts[0].Name)
	assert.Equal(t, "fresh", accounts[0].OAuthToken)
	assert.Equal(t, "b", accounts[1].Name)
}

func TestRetrieveDefault(t *testing.T) {
	clearTumblrEnv(t)
	store := newMockStore()
	manager := NewManagerWithStores(store, NewEnvironmentStore())

	_, err := manager.RetrieveDefault()
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	require.NoError(t, store.Store(testAccount("zeta")))
	require.NoError(t, store.Store(testAccount("alpha")))
	got, err := manager.RetrieveDefault()
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)

	require.NoError(t, store.Store(testAccount(DefaultAccount)))
	got, err = manager.RetrieveDefault()
	require.NoError(t, err)
	assert.Equal(t, DefaultAccount, got.Name)

	t.Setenv(EnvConsumerKey, "ek")
	t.Setenv(EnvConsumerSecret, "es")
	t.Setenv(EnvOAuthToken, "et")
	t.Setenv(EnvOAuthSecret, "ets")
	got, err = manager.RetrieveDefault()
	require.NoError(t, err)
	assert.Equal(t, "env", got.Name)
	assert.Equal(t, "ek", got.ConsumerKey)
}

func TestEnvironmentStore(t *testing.T) {
	clearTumblrEnv(t)
	store := NewEnvironmentStore()

	assert.False(t, store.Exists(""))
	accounts, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, accounts)

	t.Setenv(EnvConsumerKey, "k")
	t.Setenv(EnvConsumerSecret, "s")
	t.Setenv(EnvOAuthToken, "t")
	assert.False(t, store.Exists(""), "three of four variables is not enough")

	t.Setenv(EnvOAuthSecret, "ts")
	account, err := store.Retrieve("ci")
	require.NoError(t, err)
	assert.Equal(t, "ci", account.Name)

	assert.ErrorIs(t, store.Store(account), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("ci"), ErrStoreUnavailable)
}

func TestEncryptedFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")
	store := NewEncryptedFileStoreWithPassphrase(path, "correct horse")

	_, err := store.Retrieve("a")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	require.NoError(t, store.Store(testAccount("b")))
	require.NoError(t, store.Store(testAccount("a")))
	assert.True(t, store.Exists("a"))

	accounts, err := store.List()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "a", accounts[0].Name)

	reopened := NewEncryptedFileStoreWithPassphrase(path, "correct horse")
	got, err := reopened.Retrieve("b")
	require.NoError(t, err)
	assert.Equal(t, "consumer_secret_67890", got.ConsumerSecret)

	wrong := NewEncryptedFileStoreWithPassphrase(path, "battery staple")
	_, err = wrong.Retrieve("b")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialsNotFound)

	require.NoError(t, store.Delete("a"))
	require.NoError(t, store.Delete("b"))
	assert.NoFileExists(t, path)
	assert.ErrorIs(t, store.Delete("b"), ErrCredentialsNotFound)
}

func TestEncryptedFileStoreGeneratesPassphrase(t *testing.T) {
	t.Setenv(PassphraseEnv, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(testAccount("a")))
	assert.FileExists(t, filepath.Join(dir, "nested", ".passphrase"))

	again, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	assert.True(t, again.Exists("a"))
}

func TestSanitizeAccount(t *testing.T) {
	account := testAccount("a")
	sanitized := SanitizeAccount(account)

	assert.Equal(t, "a", sanitized.Name)
	assert.Equal(t, "cons...2345", sanitized.ConsumerKey)
	assert.NotEqual(t, account.OAuthSecret, sanitized.OAuthSecret)
	assert.Equal(t, "********", maskString("short"))
	assert.Nil(t, SanitizeAccount(nil))
}
