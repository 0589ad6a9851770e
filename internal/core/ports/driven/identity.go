package driven

import (
	"context"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// IdentityService is the remote user and session service.
type IdentityService interface {
	// Me returns the identity behind the session.
	// Any non-success response yields an error.
	Me(ctx context.Context, session domain.Session) (*domain.Identity, error)

	// Login exchanges credentials for an access token.
	Login(ctx context.Context, creds domain.Credentials) (*domain.AccessToken, error)

	// Register creates a new account.
	Register(ctx context.Context, creds domain.Credentials) (*domain.Identity, error)
}
