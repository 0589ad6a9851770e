package driving

import (
	"context"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// AuthService manages the local session.
type AuthService interface {
	// Login authenticates and stores the issued token.
	Login(ctx context.Context, creds domain.Credentials) (*domain.Identity, error)

	// Register creates an account. It does not log in.
	Register(ctx context.Context, creds domain.Credentials) (*domain.Identity, error)

	// Logout clears the stored token.
	Logout() error

	// WhoAmI returns the identity behind the stored token.
	WhoAmI(ctx context.Context) (*domain.Identity, error)

	// LoggedIn reports whether a token is stored and not expired.
	LoggedIn() bool
}
