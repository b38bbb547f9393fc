// Package journal implements the core note operations: owner-scoped
// CRUD and analysis recording.
package journal

import (
	"context"

	"github.com/starford/dagaz/internal/analyzer"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/sse"
)

// NoteStore is the persistence surface the journal service depends on.
type NoteStore interface {
	InsertNote(ctx context.Context, ownerID, title, content string) (*models.Note, error)
	ListNotesByOwner(ctx context.Context, ownerID string) ([]models.Note, error)
	GetNote(ctx context.Context, noteID, ownerID string) (*models.Note, error)
	UpdateNote(ctx context.Context, noteID, ownerID, title, content string) error
	DeleteNote(ctx context.Context, noteID, ownerID string) error
	UpsertAnalysis(ctx context.Context, noteID string, points, topics []string, emotions map[string]float64) (*models.Analysis, error)
}

// EventPublisher receives view-invalidation events after writes.
type EventPublisher interface {
	PublishNoteEvent(owner, kind, noteID string)
}

// Service coordinates the store, the analyzer, and view invalidation.
// Every operation takes the resolved owner id; ownership failures are
// indistinguishable from missing entities (apperr.ErrNotFound).
type Service struct {
	store    NoteStore
	analyzer analyzer.Analyzer
	events   EventPublisher
}

// NewService creates a journal service. events may be nil (the MCP
// entrypoint runs without a broker).
func NewService(store NoteStore, an analyzer.Analyzer, events EventPublisher) *Service {
	return &Service{store: store, analyzer: an, events: events}
}

// CreateNote stores a new note for the owner. Empty title and content
// are valid.
func (s *Service) CreateNote(ctx context.Context, ownerID, title, content string) (*models.Note, error) {
	n, err := s.store.InsertNote(ctx, ownerID, title, content)
	if err != nil {
		return nil, err
	}
	s.publish(ownerID, sse.NoteCreated, n.ID)
	return n, nil
}

// ListNotes returns the owner's notes newest-first, with analyses
// attached where present.
func (s *Service) ListNotes(ctx context.Context, ownerID string) ([]models.Note, error) {
	return s.store.ListNotesByOwner(ctx, ownerID)
}

// GetNote returns one of the owner's notes.
func (s *Service) GetNote(ctx context.Context, noteID, ownerID string) (*models.Note, error) {
	return s.store.GetNote(ctx, noteID, ownerID)
}

// UpdateNote overwrites title and content of one of the owner's notes.
func (s *Service) UpdateNote(ctx context.Context, noteID, ownerID, title, content string) error {
	if err := s.store.UpdateNote(ctx, noteID, ownerID, title, content); err != nil {
		return err
	}
	s.publish(ownerID, sse.NoteUpdated, noteID)
	return nil
}

// DeleteNote permanently removes one of the owner's notes and its
// analysis.
func (s *Service) DeleteNote(ctx context.Context, noteID, ownerID string) error {
	if err := s.store.DeleteNote(ctx, noteID, ownerID); err != nil {
		return err
	}
	s.publish(ownerID, sse.NoteDeleted, noteID)
	return nil
}

// AnalyzeNote runs the analyzer over one of the owner's notes and
// records the result, replacing any previous analysis. The note is
// fetched with the owner-conjoined predicate first, so analyzing a
// foreign note fails exactly like analyzing a missing one.
func (s *Service) AnalyzeNote(ctx context.Context, noteID, ownerID string) (*models.Analysis, error) {
	n, err := s.store.GetNote(ctx, noteID, ownerID)
	if err != nil {
		return nil, err
	}
	res, err := s.analyzer.Analyze(ctx, n.Content)
	if err != nil {
		return nil, err
	}
	a, err := s.store.UpsertAnalysis(ctx, n.ID, res.AwarenessPoints, res.CounselorTopics, res.EmotionDistribution)
	if err != nil {
		return nil, err
	}
	s.publish(ownerID, sse.AnalysisUpdated, n.ID)
	return a, nil
}

func (s *Service) publish(owner, kind, noteID string) {
	if s.events != nil {
		s.events.PublishNoteEvent(owner, kind, noteID)
	}
}
