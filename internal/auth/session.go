package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/islmaice/connect/internal/clock"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "session"

const issuer = "connect"

var ErrInvalidSession = errors.New("invalid session")

// Sessions issues and verifies HMAC-signed session tokens that identify a
// user by id.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewSessions(secret string, ttl time.Duration, c clock.Clock) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, clock: c}
}

// Sign returns a token for userID valid for the configured TTL.
func (s *Sessions) Sign(userID int64) (string, error) {
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Verify checks the token's signature and expiry and returns the user id.
func (s *Sessions) Verify(token string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidSession, claims.Subject)
	}
	return userID, nil
}

// Cookie wraps a signed token for userID in the session cookie.
func (s *Sessions) Cookie(userID int64) (*http.Cookie, error) {
	token, err := s.Sign(userID)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.clock.Now().Add(s.ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ClearCookie expires the session cookie.
func ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
