package credentials

import (
	"fmt"
	"io"

	"github.com/julianstephens/shiftdesk/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the credential store selected by cfg. The returned closer
// releases the backend and is always non-nil on success.
func Open(cfg config.Config) (*Store, io.Closer, error) {
	switch cfg.Credentials {
	case config.CredentialsKeyring:
		if !KeyringAvailable() {
			return nil, nil, ErrKeyringUnavailable
		}
		return New(NewKeyringBackend()), nopCloser{}, nil
	case config.CredentialsMemory:
		return New(NewMemoryBackend()), nopCloser{}, nil
	case config.CredentialsSQLite, "":
		backend, err := OpenSQLiteBackend(cfg.CredentialsPath)
		if err != nil {
			return nil, nil, err
		}
		return New(backend), backend, nil
	default:
		return nil, nil, fmt.Errorf("unknown credentials backend %q", cfg.Credentials)
	}
}
