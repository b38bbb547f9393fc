// Package auth implements session tokens and the registration/login flows.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie carrying the session token for page
// navigation. API clients may send the same token as a Bearer header.
const SessionCookie = "dagaz_session"

// Claims is the JWT payload of a session token.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Sessions signs and verifies session tokens (HS256, JWT strategy).
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

// NewSessions creates a session signer/verifier.
func NewSessions(secret []byte, ttl time.Duration) *Sessions {
	return &Sessions{secret: secret, ttl: ttl}
}

// TTL returns the session lifetime.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Sign issues a session token for the given user id.
func (s *Sessions) Sign(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse verifies a session token and returns its claims.
func (s *Sessions) Parse(token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.UserID == "" {
		return nil, errors.New("invalid session token")
	}
	return c, nil
}

// Resolve extracts and verifies the session token from a request,
// returning the authenticated user id. The token is read from the
// Authorization header first, then from the session cookie. A missing,
// invalid, or expired token resolves to ok=false. No side effects.
func (s *Sessions) Resolve(r *http.Request) (userID string, ok bool) {
	tok := tokenFromRequest(r)
	if tok == "" {
		return "", false
	}
	c, err := s.Parse(tok)
	if err != nil {
		return "", false
	}
	return c.UserID, true
}

// SetCookie attaches the session token to the response.
func (s *Sessions) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
