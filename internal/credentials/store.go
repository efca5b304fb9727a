// Package credentials holds the session token and role between runs.
package credentials

import (
	"fmt"
	"strings"

	"github.com/julianstephens/shiftdesk/internal/constants"
)

// Backend is a persistent string key-value store.
type Backend interface {
	// Get returns the stored value and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// Store is the credential holder shared by the API client and the view
// model. It is an opaque string holder: tokens are not validated.
type Store struct {
	backend Backend
}

// New wraps backend.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Token returns the stored token with whitespace trimmed and one pair of
// surrounding double quotes removed. Missing or unreadable values yield "".
func (s *Store) Token() string {
	raw, ok, err := s.backend.Get(constants.KeyAuthToken)
	if err != nil || !ok {
		return ""
	}
	return StripQuotes(strings.TrimSpace(raw))
}

// Role returns the stored role with whitespace trimmed.
func (s *Store) Role() string {
	raw, ok, err := s.backend.Get(constants.KeyAuthRole)
	if err != nil || !ok {
		return ""
	}
	return strings.TrimSpace(raw)
}

// HasToken reports whether an authenticated call can be attempted.
func (s *Store) HasToken() bool {
	return s.Token() != ""
}

// SetCredential persists token unconditionally and role only when non-empty.
func (s *Store) SetCredential(token, role string) error {
	if err := s.backend.Set(constants.KeyAuthToken, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if role == "" {
		return nil
	}
	if err := s.backend.Set(constants.KeyAuthRole, role); err != nil {
		return fmt.Errorf("failed to store role: %w", err)
	}
	return nil
}

// Clear removes both the token and the role.
func (s *Store) Clear() error {
	if err := s.backend.Delete(constants.KeyAuthToken); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	if err := s.backend.Delete(constants.KeyAuthRole); err != nil {
		return fmt.Errorf("failed to clear role: %w", err)
	}
	return nil
}

// StripQuotes removes one leading and one trailing '"' when both are present.
func StripQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
