package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/journal"
	"github.com/starford/dagaz/internal/sse"
)

// Handler holds the note and analysis route handlers.
type Handler struct {
	svc    *journal.Service
	broker *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil when SSE is not
// mounted (tests).
func NewHandler(svc *journal.Service, broker *sse.Broker) *Handler {
	return &Handler{svc: svc, broker: broker}
}

// identity returns the resolved user id. Handlers run behind
// RequireSession, so a missing identity is a programming error and is
// surfaced as a 500 by the caller checking ok.
func identity(r *http.Request) (string, bool) {
	return IdentityFromContext(r.Context())
}

// ListNotes handles GET /api/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}
	notes, err := h.svc.ListNotes(r.Context(), owner)
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notes": notes,
		"total": len(notes),
	})
}

// CreateNote handles POST /api/notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	note, err := h.svc.CreateNote(r.Context(), owner, req.Title, req.Content)
	if err != nil {
		slog.Error("create note failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// GetNote handles GET /api/notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}
	note, err := h.svc.GetNote(r.Context(), chi.URLParam(r, "id"), owner)
	if err != nil {
		h.writeNoteError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateNote handles PUT /api/notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.svc.UpdateNote(r.Context(), id, owner, req.Title, req.Content); err != nil {
		h.writeNoteError(w, "update note", err)
		return
	}
	note, err := h.svc.GetNote(r.Context(), id, owner)
	if err != nil {
		h.writeNoteError(w, "update note readback", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}
	if err := h.svc.DeleteNote(r.Context(), chi.URLParam(r, "id"), owner); err != nil {
		h.writeNoteError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AnalyzeNote handles POST /api/notes/{id}/analysis.
func (h *Handler) AnalyzeNote(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}
	a, err := h.svc.AnalyzeNote(r.Context(), chi.URLParam(r, "id"), owner)
	if err != nil {
		h.writeNoteError(w, "analyze note", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// Events handles GET /api/events (SSE stream scoped to the caller).
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}
	h.broker.Serve(w, r, owner)
}

// writeNoteError maps service errors to HTTP responses. Missing and
// foreign notes share one body so nothing leaks about other users.
func (h *Handler) writeNoteError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	slog.Error(op+" failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}
