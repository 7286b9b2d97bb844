// Package credentials persists the access token between invocations and
// answers token questions without a network round trip.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eslsoft/fluentcli/internal/entity"
)

// Store keeps the bearer token in a mode-0600 file.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the token, creating parent directories as needed.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Clear removes the stored token. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Token returns the stored token for use as a bearer credential. It fails
// with ErrNotAuthenticated when no token is stored and with ErrTokenExpired
// when the token's exp claim has passed, so callers can prompt for a fresh
// login instead of sending a request doomed to a 401.
func (s *Store) Token() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", entity.ErrNotAuthenticated
		}
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", entity.ErrNotAuthenticated
	}

	if exp, ok := tokenExpiry(token); ok && time.Now().After(exp) {
		return "", entity.ErrTokenExpired
	}
	return token, nil
}

// Claims returns the unverified claims of the stored token. Verification is
// the server's job; the client only inspects the payload for display.
func (s *Store) Claims() (jwt.MapClaims, error) {
	token, err := s.Token()
	if err != nil {
		return nil, err
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", parsed.Claims)
	}
	return claims, nil
}

// tokenExpiry extracts the exp claim. Opaque (non-JWT) tokens report no
// expiry and are passed through as-is.
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
