package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/descheck/internal/adapters/driven/auth"
	"github.com/custodia-labs/descheck/internal/core/domain"
)

func TestSessionGate_Resolve(t *testing.T) {
	valid := signedToken(time.Now().Add(time.Hour))
	expired := signedToken(time.Now().Add(-time.Hour))

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"absent", "", domain.ErrAuthRequired},
		{"opaque", "not-a-jwt", nil},
		{"valid jwt", valid, nil},
		{"expired jwt", expired, domain.ErrAuthExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewSessionGate(auth.NewStaticTokenStore(tt.token))

			session, err := gate.Resolve()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrAuthRequired)
				assert.True(t, session.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, session.Token)
		})
	}
}

func TestSessionGate_RereadsStorage(t *testing.T) {
	tokens := auth.NewStaticTokenStore("first")
	gate := NewSessionGate(tokens)

	s1, err := gate.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "first", s1.Token)

	require.NoError(t, tokens.Clear())
	_, err = gate.Resolve()
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestSessionGate_StorageError(t *testing.T) {
	_, err := NewSessionGate(failingTokenStore{}).Resolve()

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestSessionGate_NilStore(t *testing.T) {
	_, err := NewSessionGate(nil).Resolve()

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestSessionGate_Expiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	gate := NewSessionGate(nil)

	got, ok := gate.Expiry(signedToken(exp))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = gate.Expiry("opaque")
	assert.False(t, ok)
}

func TestSessionGate_UsesClock(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	gate := NewSessionGate(auth.NewStaticTokenStore(signedToken(exp)))

	gate.now = func() time.Time { return exp.Add(-time.Second) }
	_, err := gate.Resolve()
	assert.NoError(t, err)

	gate.now = func() time.Time { return exp }
	_, err = gate.Resolve()
	assert.ErrorIs(t, err, domain.ErrAuthExpired)
}
