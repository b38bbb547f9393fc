package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/auth"
)

// AuthHandler holds the registration/login/logout route handlers.
type AuthHandler struct {
	svc      *auth.Service
	sessions *auth.Sessions
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *auth.Service, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sessions}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	res, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrEmailTaken) {
			writeJSON(w, http.StatusConflict, errorBody("email already registered"))
			return
		}
		slog.Error("register failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	h.sessions.SetCookie(w, res.Token)
	writeJSON(w, http.StatusCreated, res)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeLoginError(w, err)
		return
	}
	h.sessions.SetCookie(w, res.Token)
	writeJSON(w, http.StatusOK, res)
}

// GoogleLogin handles POST /api/auth/google.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	res, err := h.svc.LoginWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		h.writeLoginError(w, err)
		return
	}
	h.sessions.SetCookie(w, res.Token)
	writeJSON(w, http.StatusOK, res)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.sessions.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/auth/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	userID, ok := IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{UserID: userID})
}

func (h *AuthHandler) writeLoginError(w http.ResponseWriter, err error) {
	if errors.Is(err, apperr.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, errorBody("invalid credentials"))
		return
	}
	slog.Error("login failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}
