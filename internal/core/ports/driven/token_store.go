package driven

// TokenStore holds the bearer token issued at login.
// An absent token is a normal state, not an error.
type TokenStore interface {
	// Token returns the stored token, or "" if none is stored.
	// Implementations re-read persistent storage on every call.
	Token() (string, error)

	// SetToken stores the token.
	SetToken(token string) error

	// Clear removes any stored token.
	Clear() error
}
