package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
)

// UserStore is the persistence surface the auth service depends on.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EnsureGoogleUser(ctx context.Context, email, googleSub string) (*models.User, error)
}

// GoogleVerifier validates a Google ID token and returns the verified
// account. Injectable so tests can avoid the network.
type GoogleVerifier func(ctx context.Context, idToken string) (email, sub string, err error)

// Result is returned by every successful login/registration.
type Result struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Service implements registration and the credential/Google login flows.
type Service struct {
	store        UserStore
	sessions     *Sessions
	verifyGoogle GoogleVerifier
}

// NewService creates an auth service. If verifier is nil the Google
// tokeninfo endpoint is used.
func NewService(store UserStore, sessions *Sessions, verifier GoogleVerifier) *Service {
	if verifier == nil {
		verifier = verifyGoogleToken
	}
	return &Service{store: store, sessions: sessions, verifyGoogle: verifier}
}

// Register creates a credential user and signs them in.
func (s *Service) Register(ctx context.Context, email, password string) (*Result, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	u, err := s.store.CreateUser(ctx, email, string(hash))
	if err != nil {
		return nil, err
	}
	return s.signIn(u)
}

// Login verifies credentials and signs the user in. Unknown email and
// wrong password are reported identically.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	return s.signIn(u)
}

// LoginWithGoogle verifies a Google ID token and signs the linked user
// in, creating the account on first sign-in.
func (s *Service) LoginWithGoogle(ctx context.Context, idToken string) (*Result, error) {
	email, sub, err := s.verifyGoogle(ctx, idToken)
	if err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	u, err := s.store.EnsureGoogleUser(ctx, strings.ToLower(email), sub)
	if err != nil {
		return nil, err
	}
	return s.signIn(u)
}

func (s *Service) signIn(u *models.User) (*Result, error) {
	token, err := s.sessions.Sign(u.ID)
	if err != nil {
		return nil, fmt.Errorf("auth: sign token: %w", err)
	}
	return &Result{Token: token, UserID: u.ID, Email: u.Email}, nil
}

// verifyGoogleToken checks an ID token against Google's tokeninfo
// endpoint and returns the verified email and subject.
func verifyGoogleToken(ctx context.Context, idToken string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://oauth2.googleapis.com/tokeninfo?id_token="+idToken, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("auth: google token verification failed: status %d", resp.StatusCode)
	}

	var info struct {
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Sub           string `json:"sub"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", err
	}
	if info.Email == "" || info.EmailVerified != "true" || info.Sub == "" {
		return "", "", fmt.Errorf("auth: google account not verified")
	}
	return info.Email, info.Sub, nil
}
