// Package api implements the Dagaz HTTP surface using chi.
package api

import (
	"context"
	"net/http"

	"github.com/starford/dagaz/internal/auth"
)

type ctxKey int

const identityKey ctxKey = 1

// SessionMiddleware resolves the session token (Bearer header or
// cookie) and, when valid, attaches the user id to the request context.
// Requests without a valid session pass through unauthenticated.
func SessionMiddleware(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := sessions.Resolve(r); ok {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests with no resolved identity.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext returns the authenticated user id, if any.
func IdentityFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityKey).(string)
	return id, ok
}
