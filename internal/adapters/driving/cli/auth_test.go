package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

func TestLogin_PasswordStdin(t *testing.T) {
	auth := &mockAuth{}
	setupTestServices(t, Services{Auth: auth})

	out, err := executeCommand(t, "s3cret\n", "login", "--email", "ann@example.com", "--password-stdin")

	require.NoError(t, err)
	assert.Equal(t, domain.Credentials{Email: "ann@example.com", Password: "s3cret"}, auth.gotCreds)
	assert.Contains(t, out, "Logged in as ann@example.com")
}

func TestLogin_PromptsForEmail(t *testing.T) {
	auth := &mockAuth{}
	setupTestServices(t, Services{Auth: auth})

	out, err := executeCommand(t, "ann@example.com\ns3cret", "login")

	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", auth.gotCreds.Email)
	assert.Equal(t, "s3cret", auth.gotCreds.Password)
	assert.Contains(t, out, "Email: ")
	assert.Contains(t, out, "Password: ")
}

func TestLogin_Failure(t *testing.T) {
	auth := &mockAuth{err: errors.New("Incorrect email or password")}
	setupTestServices(t, Services{Auth: auth})

	_, err := executeCommand(t, "bad\n", "login", "-e", "ann@example.com", "--password-stdin")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect email or password")
}

func TestRegister(t *testing.T) {
	auth := &mockAuth{}
	setupTestServices(t, Services{Auth: auth})

	out, err := executeCommand(t, "s3cret\n", "register", "--email", "bob@example.com", "--password-stdin")

	require.NoError(t, err)
	assert.Contains(t, out, "Registered bob@example.com")
	assert.Contains(t, out, "descheck login")
}

func TestLogout(t *testing.T) {
	auth := &mockAuth{}
	setupTestServices(t, Services{Auth: auth})

	out, err := executeCommand(t, "", "logout")

	require.NoError(t, err)
	assert.True(t, auth.loggedOut)
	assert.Contains(t, out, "Logged out.")
}

func TestWhoAmI(t *testing.T) {
	tests := []struct {
		name string
		auth *mockAuth
		want string
	}{
		{
			name: "logged in",
			auth: &mockAuth{identity: &domain.Identity{ID: 9, Email: "ann@example.com", CreatedAt: time.Now()}},
			want: "Logged in as ann@example.com (user 9)",
		},
		{
			name: "logged out",
			auth: &mockAuth{err: domain.ErrAuthRequired},
			want: "Not logged in.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t, Services{Auth: tt.auth})

			out, err := executeCommand(t, "", "whoami")

			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestAuth_NotConfigured(t *testing.T) {
	setupTestServices(t, Services{})

	_, err := executeCommand(t, "", "logout")

	assert.ErrorIs(t, err, ErrNotConfigured)
}
