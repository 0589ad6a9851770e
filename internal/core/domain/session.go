package domain

import "time"

// Session carries the bearer token for one privileged call.
// It is resolved from storage each time and never cached.
type Session struct {
	Token string
}

// IsZero reports whether the session has no token.
func (s Session) IsZero() bool {
	return s.Token == ""
}

// Identity is the signed-in user as reported by the identity service.
type Identity struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}

// Credentials are the login or registration inputs.
type Credentials struct {
	Email    string
	Password string
}

// AccessToken is returned by a successful login.
type AccessToken struct {
	Token     string
	TokenType string
}
