package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
	"github.com/custodia-labs/descheck/internal/core/ports/driving"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService manages login state.
type AuthService struct {
	tokens   driven.TokenStore
	identity driven.IdentityService
	gate     *SessionGate
}

// NewAuthService creates a new auth service.
func NewAuthService(tokens driven.TokenStore, identity driven.IdentityService) *AuthService {
	return &AuthService{
		tokens:   tokens,
		identity: identity,
		gate:     NewSessionGate(tokens),
	}
}

// Login authenticates, stores the token and returns the identity behind it.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*domain.Identity, error) {
	if s.tokens == nil || s.identity == nil {
		return nil, domain.ErrNotImplemented
	}
	creds, err := normaliseCredentials(creds)
	if err != nil {
		return nil, err
	}

	access, err := s.identity.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if access == nil || access.Token == "" {
		return nil, fmt.Errorf("login: %w", domain.ErrAuthInvalid)
	}
	if err := s.tokens.SetToken(access.Token); err != nil {
		return nil, err
	}

	identity, err := s.identity.Me(ctx, domain.Session{Token: access.Token})
	if err != nil {
		return nil, fmt.Errorf("fetch user details: %w", err)
	}
	return identity, nil
}

// Register creates an account without logging in.
func (s *AuthService) Register(ctx context.Context, creds domain.Credentials) (*domain.Identity, error) {
	if s.identity == nil {
		return nil, domain.ErrNotImplemented
	}
	creds, err := normaliseCredentials(creds)
	if err != nil {
		return nil, err
	}
	identity, err := s.identity.Register(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return identity, nil
}

// Logout clears the stored token.
func (s *AuthService) Logout() error {
	if s.tokens == nil {
		return domain.ErrNotImplemented
	}
	return s.tokens.Clear()
}

// WhoAmI returns the identity behind the stored token.
func (s *AuthService) WhoAmI(ctx context.Context) (*domain.Identity, error) {
	if s.identity == nil {
		return nil, domain.ErrNotImplemented
	}
	session, err := s.gate.Resolve()
	if err != nil {
		return nil, err
	}
	identity, err := s.identity.Me(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthRequired, err)
	}
	return identity, nil
}

// LoggedIn reports whether a usable token is stored. No network call is made.
func (s *AuthService) LoggedIn() bool {
	_, err := s.gate.Resolve()
	return err == nil
}

func normaliseCredentials(creds domain.Credentials) (domain.Credentials, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return creds, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(creds.Email); err != nil {
		return creds, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	return creds, nil
}
