package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the registration payload.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
	)
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the login payload.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// GoogleLoginRequest is the request body for POST /auth/google.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token"`
}

// Validate validates the Google login payload.
func (r GoogleLoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDToken, validation.Required),
	)
}

// NoteRequest is the request body for creating and updating notes.
// Title and content may both be empty; only their sizes are bounded.
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate validates the note payload.
func (r NoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, 500)),
		validation.Field(&r.Content, validation.Length(0, 100_000)),
	)
}

// SessionResponse describes the authenticated identity.
type SessionResponse struct {
	UserID string `json:"user_id"`
}
