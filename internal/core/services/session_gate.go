package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
)

// SessionGate resolves the bearer token for a privileged call.
// It reads storage every time and never caches the session.
type SessionGate struct {
	tokens driven.TokenStore
	parser *jwt.Parser
	now    func() time.Time
}

// NewSessionGate creates a session gate over tokens.
func NewSessionGate(tokens driven.TokenStore) *SessionGate {
	return &SessionGate{
		tokens: tokens,
		parser: jwt.NewParser(),
		now:    time.Now,
	}
}

// Resolve returns the current session or an error wrapping
// domain.ErrAuthRequired. No network call is made.
func (g *SessionGate) Resolve() (domain.Session, error) {
	if g.tokens == nil {
		return domain.Session{}, domain.ErrAuthRequired
	}
	token, err := g.tokens.Token()
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %w", domain.ErrAuthRequired, err)
	}
	if token == "" {
		return domain.Session{}, domain.ErrAuthRequired
	}
	if exp, ok := g.Expiry(token); ok && !exp.After(g.now()) {
		return domain.Session{}, fmt.Errorf("%w: %w", domain.ErrAuthRequired, domain.ErrAuthExpired)
	}
	return domain.Session{Token: token}, nil
}

// Expiry reads the exp claim of a JWT without verifying its signature.
// Opaque tokens report false and are left for the server to judge.
func (g *SessionGate) Expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := g.parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
