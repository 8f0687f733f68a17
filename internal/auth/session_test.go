package auth

import (
	"testing"
	"time"

	"github.com/islmaice/connect/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, time.May, 5, 8, 0, 0, 0, time.UTC)

func TestSignVerify(t *testing.T) {
	s := NewSessions("secret", time.Hour, clock.NewManual(start))

	token, err := s.Sign(42)
	require.NoError(t, err)

	id, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestVerifyRejects(t *testing.T) {
	c := clock.NewManual(start)
	s := NewSessions("secret", time.Hour, c)
	token, err := s.Sign(42)
	require.NoError(t, err)

	other := NewSessions("other-secret", time.Hour, c)
	forged, err := other.Sign(42)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"Garbage", "not-a-token"},
		{"Wrong Secret", forged},
		{"Tampered", token + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}

	t.Run("Expired", func(t *testing.T) {
		c.Advance(2 * time.Hour)
		_, err := s.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestCookie(t *testing.T) {
	s := NewSessions("secret", time.Hour, clock.NewManual(start))
	cookie, err := s.Cookie(7)
	require.NoError(t, err)
	assert.Equal(t, CookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Expires.Equal(start.Add(time.Hour)))

	id, err := s.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	assert.Equal(t, -1, ClearCookie().MaxAge)
}
