package remote

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// userResponse is the /users/me and /register response format.
type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// credentialsRequest is the /login and /register request format.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request field, not a secret literal
}

// tokenResponse is the /login response format.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// timestampLayouts covers zoned and naive ISO-8601 timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (u userResponse) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: parseTimestamp(u.CreatedAt),
	}
}

// Me resolves the session to the account it belongs to.
func (c *Client) Me(ctx context.Context, session domain.Session) (*domain.Identity, error) {
	var out userResponse
	err := c.do(ctx, call{
		op:      "fetch user details",
		method:  http.MethodGet,
		url:     c.baseURL + "/users/me",
		session: &session,
		out:     &out,
	})
	if err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AccessToken, error) {
	var out tokenResponse
	err := c.do(ctx, call{
		op:     "login",
		method: http.MethodPost,
		url:    c.baseURL + "/login",
		in:     credentialsRequest{Email: creds.Email, Password: creds.Password},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &domain.AccessToken{Token: out.AccessToken, TokenType: out.TokenType}, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, creds domain.Credentials) (*domain.Identity, error) {
	var out userResponse
	err := c.do(ctx, call{
		op:     "register",
		method: http.MethodPost,
		url:    c.baseURL + "/register",
		in:     credentialsRequest{Email: creds.Email, Password: creds.Password},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}
