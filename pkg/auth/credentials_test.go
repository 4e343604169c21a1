package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestManagerStoreRetrieveDelete(t *testing.T) {
	manager, store := NewMockManager()

	require.NoError(t, manager.Store(&Token{Value: "tok_1234567890"}))
	assert.Equal(t, 1, store.Count())

	token, err := manager.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile, token.Profile)
	assert.Equal(t, "tok_1234567890", token.Value)
	assert.False(t, token.LastModified.IsZero())

	tokens, err := manager.List()
	require.NoError(t, err)
	assert.Len(t, tokens, 1)

	require.NoError(t, manager.Delete(""))
	_, err = manager.Retrieve(DefaultProfile)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	err = manager.Delete(DefaultProfile)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestManagerRejectsEmptyToken(t *testing.T) {
	manager, _ := NewMockManager()
	assert.Error(t, manager.Store(&Token{}))
	assert.Error(t, manager.Store(nil))
}

func TestManagerFallsBackToNextStore(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = errors.New("keychain locked")
	backup := NewMockStore()
	manager := NewManagerWithStores(broken, backup)

	require.NoError(t, manager.Store(&Token{Profile: "work", Value: "abc"}))
	assert.Equal(t, 0, broken.Count())
	assert.True(t, backup.Exists("work"))

	token, err := manager.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "abc", token.Value)
}

func TestManagerStoreFailsWhenAllStoresFail(t *testing.T) {
	manager := NewManagerWithStores(NewEnvironmentStore())
	err := manager.Store(&Token{Value: "abc"})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	store, err := NewKeyringStore()
	require.NoError(t, err)

	require.NoError(t, store.Store(&Token{Profile: DefaultProfile, Value: "kr_token"}))
	assert.True(t, store.Exists(DefaultProfile))

	token, err := store.Retrieve(DefaultProfile)
	require.NoError(t, err)
	assert.Equal(t, "kr_token", token.Value)

	tokens, err := store.List()
	require.NoError(t, err)
	assert.Len(t, tokens, 1)

	require.NoError(t, store.Delete(DefaultProfile))
	assert.ErrorIs(t, store.Delete(DefaultProfile), ErrTokenNotFound)
	_, err = store.Retrieve(DefaultProfile)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestEncryptedFileStore(t *testing.T) {
	t.Setenv(passphraseEnvVar, "test_passphrase_123")
	path := filepath.Join(t.TempDir(), "tokens.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Store(&Token{Profile: "default", Value: "very_secret_value"}))
	require.NoError(t, store.Store(&Token{Profile: "work", Value: "other_secret_value"}))

	token, err := store.Retrieve("work")
	require.NoError(t, err)
	assert.Equal(t, "other_secret_value", token.Value)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "very_secret_value")
	assert.NotContains(t, string(content), "other_secret_value")

	tokens, err := store.List()
	require.NoError(t, err)
	assert.Len(t, tokens, 2)

	require.NoError(t, store.Delete("work"))
	require.NoError(t, store.Delete("default"))
	assert.NoFileExists(t, path)
	assert.False(t, store.Exists("default"))
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.enc")

	t.Setenv(passphraseEnvVar, "first")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(&Token{Profile: "default", Value: "abc"}))

	t.Setenv(passphraseEnvVar, "second")
	other, err := NewEncryptedFileStore(path)
	require.NoError(t, err)

	_, err = other.Retrieve("default")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenNotFound)
}

func TestEncryptedFileStoreGeneratesPassphrase(t *testing.T) {
	t.Setenv(passphraseEnvVar, "")
	dir := t.TempDir()

	store, err := NewEncryptedFileStore(filepath.Join(dir, "tokens.enc"))
	require.NoError(t, err)
	require.NoError(t, store.Store(&Token{Profile: "default", Value: "abc"}))
	assert.FileExists(t, filepath.Join(dir, ".passphrase"))

	reopened, err := NewEncryptedFileStore(filepath.Join(dir, "tokens.enc"))
	require.NoError(t, err)
	token, err := reopened.Retrieve("default")
	require.NoError(t, err)
	assert.Equal(t, "abc", token.Value)
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv(tokenEnvVar, "env_token")
	store := NewEnvironmentStore()

	token, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "env_token", token.Value)
	assert.Equal(t, DefaultProfile, token.Profile)
	assert.True(t, store.Exists("anything"))

	assert.ErrorIs(t, store.Store(&Token{}), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("default"), ErrStoreUnavailable)

	t.Setenv(tokenEnvVar, "")
	_, err = store.Retrieve("")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestMockStoreErrorInjection(t *testing.T) {
	store := NewMockStore()
	store.ListError = errors.New("injected")

	_, err := store.List()
	assert.EqualError(t, err, "injected")

	manager := NewManagerWithStores(store)
	tokens, err := manager.List()
	require.NoError(t, err, "failing stores are skipped")
	assert.Empty(t, tokens)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "********", Mask("short"))
	assert.Equal(t, "abcd...wxyz", Mask("abcdefghijklmnopqrstuvwxyz"))
}
