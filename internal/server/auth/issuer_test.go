package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeys() Keys {
	return Keys{
		AccessSecret:  []byte("access-secret"),
		SessionSecret: []byte("session-secret"),
		AccessTTL:     15 * time.Minute,
		SessionTTL:    7 * 24 * time.Hour,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewTokenIssuer_RejectsBadSecrets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		keys Keys
	}{
		{"no access secret", Keys{SessionSecret: []byte("s")}},
		{"no session secret", Keys{AccessSecret: []byte("a")}},
		{"same secrets", Keys{AccessSecret: []byte("x"), SessionSecret: []byte("x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenIssuer(tt.keys)
			assert.ErrorIs(t, err, ErrMissingSecret)

			_, err = NewVerifier(tt.keys)
			assert.ErrorIs(t, err, ErrMissingSecret)
		})
	}
}

func TestIssueAccess_Claims(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	iss, err := NewTokenIssuerWithClock(testKeys(), fixedClock(now))
	require.NoError(t, err)

	tok, err := iss.IssueAccess("acc-1")
	require.NoError(t, err)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) {
		return []byte("access-secret"), nil
	}, jwt.WithoutClaimsValidation())
	require.NoError(t, err)

	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.Equal(t, now.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestIssueSessionWithExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	iss, err := NewTokenIssuerWithClock(testKeys(), fixedClock(now))
	require.NoError(t, err)

	tok, exp, err := iss.IssueSessionWithExpiry("acc-1")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.True(t, exp.Equal(now.Add(7*24*time.Hour)))
}

func TestIssue_SameSecondDiffers(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	iss, err := NewTokenIssuerWithClock(testKeys(), fixedClock(now))
	require.NoError(t, err)

	a, err := iss.IssueAccess("acc-1")
	require.NoError(t, err)
	b, err := iss.IssueAccess("acc-1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	s1, err := iss.IssueSession("acc-1")
	require.NoError(t, err)
	s2, err := iss.IssueSession("acc-1")
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)
}
