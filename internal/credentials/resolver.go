// Package credentials resolves a model's credential reference into an API
// key. References name a process environment variable; the OS keyring is
// consulted as a fallback so desktop installs can avoid exporting keys.
// Secrets are resolved per call and never cached, logged or persisted.
package credentials

import (
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"chatlist/internal/apperr"
)

const serviceName = "chatlist"

type Resolver interface {
	Resolve(credentialRef string) (string, error)
}

// Manager implements Resolver and additionally manages keyring entries.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Resolve looks the reference up in the environment first, then in the OS
// keyring. Returns ErrMissingCredential when neither source has it.
func (m *Manager) Resolve(credentialRef string) (string, error) {
	if credentialRef == "" {
		return "", fmt.Errorf("%w: credential reference is required", apperr.ErrValidation)
	}
	if value := os.Getenv(credentialRef); value != "" {
		return value, nil
	}
	value, err := keyring.Get(serviceName, credentialRef)
	if err != nil || value == "" {
		return "", fmt.Errorf("%q: %w", credentialRef, apperr.ErrMissingCredential)
	}
	return value, nil
}

// StoreKey saves an API key in the OS keyring under the given reference.
func (m *Manager) StoreKey(credentialRef, apiKey string) error {
	if credentialRef == "" {
		return fmt.Errorf("%w: credential reference is required", apperr.ErrValidation)
	}
	if apiKey == "" {
		return fmt.Errorf("%w: API key is empty", apperr.ErrValidation)
	}
	return keyring.Set(serviceName, credentialRef, apiKey)
}

// DeleteKey removes an API key from the OS keyring.
func (m *Manager) DeleteKey(credentialRef string) error {
	if credentialRef == "" {
		return fmt.Errorf("%w: credential reference is required", apperr.ErrValidation)
	}
	return keyring.Delete(serviceName, credentialRef)
}
