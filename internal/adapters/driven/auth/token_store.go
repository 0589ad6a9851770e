// Package auth provides bearer token storage adapters.
package auth

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/descheck/internal/core/ports/driven"
)

// Ensure ConfigTokenStore implements the TokenStore interface.
var _ driven.TokenStore = (*ConfigTokenStore)(nil)

// TokenKey is the configuration key holding the bearer token.
//
//nolint:gosec // G101: This is a config key name, not a credential.
const TokenKey = "auth.token"

// ConfigTokenStore keeps the bearer token in the application config.
// Every read reloads the backing store so a logout in another process
// is seen by the next privileged call.
type ConfigTokenStore struct {
	config driven.ConfigStore
}

// NewConfigTokenStore creates a token store backed by config.
func NewConfigTokenStore(config driven.ConfigStore) *ConfigTokenStore {
	return &ConfigTokenStore{config: config}
}

// Token returns the stored token, or "" when absent.
func (s *ConfigTokenStore) Token() (string, error) {
	if err := s.config.Load(); err != nil {
		return "", fmt.Errorf("reload config: %w", err)
	}
	return strings.TrimSpace(s.config.GetString(TokenKey)), nil
}

// SetToken stores the token.
func (s *ConfigTokenStore) SetToken(token string) error {
	if err := s.config.Set(TokenKey, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Clear removes the stored token.
func (s *ConfigTokenStore) Clear() error {
	if err := s.config.Delete(TokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
