package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/auth"
	"github.com/starford/dagaz/internal/journal"
	"github.com/starford/dagaz/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted. broker
// may be nil; the /events endpoint is only mounted when it is present.
func NewRouter(svc *journal.Service, authSvc *auth.Service, sessions *auth.Sessions, broker *sse.Broker) chi.Router {
	h := NewHandler(svc, broker)
	ah := NewAuthHandler(authSvc, sessions)

	r := chi.NewRouter()
	r.Use(SessionMiddleware(sessions))

	// Auth endpoints (unauthenticated).
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)
	r.Post("/auth/google", ah.GoogleLogin)
	r.Post("/auth/logout", ah.Logout)

	// Everything below requires a resolved identity.
	r.Group(func(r chi.Router) {
		r.Use(RequireSession)

		r.Get("/auth/session", ah.Session)

		// Notes CRUD.
		r.Get("/notes", h.ListNotes)
		r.Post("/notes", h.CreateNote)
		r.Get("/notes/{id}", h.GetNote)
		r.Put("/notes/{id}", h.UpdateNote)
		r.Delete("/notes/{id}", h.DeleteNote)

		// Analysis.
		r.Post("/notes/{id}/analysis", h.AnalyzeNote)

		// SSE view-invalidation stream.
		if broker != nil {
			r.Get("/events", h.Events)
		}
	})

	return r
}
