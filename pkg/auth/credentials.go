package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// DefaultProfile names the token used when no profile is given
const DefaultProfile = "default"

// Token is an API token for a self hosted extraction service
type Token struct {
	Profile      string    `json:"profile"`
	Value        string    `json:"value"`
	Endpoint     string    `json:"endpoint,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// TokenStore is the interface for storing and retrieving tokens
type TokenStore interface {
	// Store saves the token under its profile
	Store(token *Token) error

	// Retrieve gets the token of a profile
	Retrieve(profile string) (*Token, error)

	// List returns all tokens the store can enumerate
	List() ([]*Token, error)

	// Delete removes the token of a profile
	Delete(profile string) error

	// Exists checks if a token exists for a profile
	Exists(profile string) bool
}

// Manager handles token storage with fallback stores
type Manager struct {
	stores []TokenStore
}

// NewManager creates a manager backed by the system keychain when
// available, an encrypted file, and finally the environment.
func NewManager() (*Manager, error) {
	var stores []TokenStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "tokens.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager over the given stores, in order
func NewManagerWithStores(stores ...TokenStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves the token in the first store that accepts it
func (m *Manager) Store(token *Token) error {
	if token == nil || token.Value == "" {
		return errors.New("token value is required")
	}
	if token.Profile == "" {
		token.Profile = DefaultProfile
	}
	token.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		err := store.Store(token)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store token: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve gets the token of a profile from the first store that has it
func (m *Manager) Retrieve(profile string) (*Token, error) {
	if profile == "" {
		profile = DefaultProfile
	}
	for _, store := range m.stores {
		if token, err := store.Retrieve(profile); err == nil && token != nil {
			return token, nil
		}
	}
	return nil, fmt.Errorf("%w: profile %s", ErrTokenNotFound, profile)
}

// List returns the newest version of every token across stores
func (m *Manager) List() ([]*Token, error) {
	byProfile := make(map[string]*Token)

	for _, store := range m.stores {
		tokens, err := store.List()
		if err != nil {
			continue
		}
		for _, token := range tokens {
			if existing, ok := byProfile[token.Profile]; !ok || token.LastModified.After(existing.LastModified) {
				byProfile[token.Profile] = token
			}
		}
	}

	result := make([]*Token, 0, len(byProfile))
	for _, token := range byProfile {
		result = append(result, token)
	}
	return result, nil
}

// Delete removes the token of a profile from every store
func (m *Manager) Delete(profile string) error {
	if profile == "" {
		profile = DefaultProfile
	}

	var deleted bool
	var lastErr error
	for _, store := range m.stores {
		if err := store.Delete(profile); err == nil {
			deleted = true
		} else if !errors.Is(err, ErrTokenNotFound) && !errors.Is(err, ErrStoreUnavailable) {
			lastErr = err
		}
	}

	if deleted {
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("failed to delete token: %w", lastErr)
	}
	return fmt.Errorf("%w: profile %s", ErrTokenNotFound, profile)
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "reelgrab")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "reelgrab")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "reelgrab")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "reelgrab")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// Mask hides all but the first and last 4 characters of a secret
func Mask(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrInvalidToken     = errors.New("invalid token")
	ErrStoreUnavailable = errors.New("token store unavailable")
)
