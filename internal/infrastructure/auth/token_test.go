package auth

import (
	"testing"
	"time"

	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *TokenService {
	return NewTokenService(config.AuthConfig{
		Enabled:  true,
		Secret:   "test-secret-key-that-is-long-enough",
		Issuer:   "erp-test",
		TokenTTL: time.Hour,
	})
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	s := newTestService()

	token, expires, err := s.Issue("till-1", "asha", "North")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := s.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "till-1", claims.Terminal)
	assert.Equal(t, "till-1", claims.Subject)
	assert.Equal(t, "asha", claims.UserName)
	assert.Equal(t, "North", claims.BranchName)
}

func TestTokenService_Rejections(t *testing.T) {
	s := newTestService()

	t.Run("missing terminal", func(t *testing.T) {
		_, _, err := s.Issue("  ", "", "")
		assert.ErrorIs(t, err, ErrMissingTerminal)
	})

	t.Run("expired", func(t *testing.T) {
		past := newTestService()
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := past.Issue("till-1", "", "")
		require.NoError(t, err)

		_, err = s.Validate(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewTokenService(config.AuthConfig{Secret: "another-secret", Issuer: "erp-test"})
		token, _, err := other.Issue("till-1", "", "")
		require.NoError(t, err)

		_, err = s.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		other := NewTokenService(config.AuthConfig{Secret: "test-secret-key-that-is-long-enough", Issuer: "someone-else"})
		token, _, err := other.Issue("till-1", "", "")
		require.NoError(t, err)

		_, err = s.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer   abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := ExtractBearer(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}
