package auth

import (
	"sync"

	"github.com/custodia-labs/descheck/internal/core/ports/driven"
)

// Ensure StaticTokenStore implements the TokenStore interface.
var _ driven.TokenStore = (*StaticTokenStore)(nil)

// StaticTokenStore holds a token in memory only.
// Used when the token is supplied through the environment.
type StaticTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewStaticTokenStore creates a token store holding token.
func NewStaticTokenStore(token string) *StaticTokenStore {
	return &StaticTokenStore{token: token}
}

// Token returns the held token.
func (s *StaticTokenStore) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// SetToken replaces the held token.
func (s *StaticTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear forgets the held token.
func (s *StaticTokenStore) Clear() error {
	return s.SetToken("")
}
