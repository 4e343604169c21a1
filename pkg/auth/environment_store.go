package auth

import (
	"os"
	"time"
)

const tokenEnvVar = "REELGRAB_API_TOKEN"

// EnvironmentStore reads the token from REELGRAB_API_TOKEN. It is read only.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based token store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(token *Token) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment token for any profile
func (e *EnvironmentStore) Retrieve(profile string) (*Token, error) {
	value := os.Getenv(tokenEnvVar)
	if value == "" {
		return nil, ErrTokenNotFound
	}
	if profile == "" {
		profile = DefaultProfile
	}

	return &Token{
		Profile:      profile,
		Value:        value,
		Endpoint:     os.Getenv("REELGRAB_ENDPOINT"),
		LastModified: time.Now(),
	}, nil
}

// List returns the environment token if one is set
func (e *EnvironmentStore) List() ([]*Token, error) {
	token, err := e.Retrieve("")
	if err != nil {
		return []*Token{}, nil
	}
	return []*Token{token}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(profile string) error {
	return ErrStoreUnavailable
}

// Exists checks if the environment token is set
func (e *EnvironmentStore) Exists(profile string) bool {
	return os.Getenv(tokenEnvVar) != ""
}
