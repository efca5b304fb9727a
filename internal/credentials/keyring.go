package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/shiftdesk/internal/constants"
)

// ErrKeyringUnavailable is returned when the OS keyring is not available
var ErrKeyringUnavailable = errors.New("OS keyring is not available")

// KeyringBackend stores each key as a secret under the application's service name.
type KeyringBackend struct {
	service string
}

// NewKeyringBackend returns a backend for the OS keyring.
func NewKeyringBackend() *KeyringBackend {
	return &KeyringBackend{service: constants.AppName}
}

func (k *KeyringBackend) user(key string) string {
	return constants.DefaultKeyringUser + "." + key
}

func (k *KeyringBackend) Get(key string) (string, bool, error) {
	v, err := keyring.Get(k.service, k.user(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, true, nil
}

func (k *KeyringBackend) Set(key, value string) error {
	if err := keyring.Set(k.service, k.user(key), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", key, err)
	}
	return nil
}

func (k *KeyringBackend) Delete(key string) error {
	err := keyring.Delete(k.service, k.user(key))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}

// KeyringAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check.
func KeyringAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
