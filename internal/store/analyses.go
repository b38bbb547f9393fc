package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/dagaz/internal/models"
)

// UpsertAnalysis records the analysis for a note, replacing any previous
// record. The UNIQUE(note_id) constraint keeps the note↔analysis
// relationship at most one-to-one.
func (db *DB) UpsertAnalysis(ctx context.Context, noteID string, points, topics []string, emotions map[string]float64) (*models.Analysis, error) {
	a := &models.Analysis{
		ID:                  uuid.NewString(),
		NoteID:              noteID,
		AwarenessPoints:     nonNilSlice(points),
		CounselorTopics:     nonNilSlice(topics),
		EmotionDistribution: emotions,
		CreatedAt:           time.Now().UTC(),
	}
	if a.EmotionDistribution == nil {
		a.EmotionDistribution = map[string]float64{}
	}

	pointsJSON, err := json.Marshal(a.AwarenessPoints)
	if err != nil {
		return nil, fmt.Errorf("store: encode awareness points: %w", err)
	}
	topicsJSON, err := json.Marshal(a.CounselorTopics)
	if err != nil {
		return nil, fmt.Errorf("store: encode counselor topics: %w", err)
	}
	emotionsJSON, err := json.Marshal(a.EmotionDistribution)
	if err != nil {
		return nil, fmt.Errorf("store: encode emotions: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO analyses (id, note_id, awareness_points, counselor_topics, emotions, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(note_id) DO UPDATE SET
			id               = excluded.id,
			awareness_points = excluded.awareness_points,
			counselor_topics = excluded.counselor_topics,
			emotions         = excluded.emotions,
			created_at       = excluded.created_at
	`, a.ID, a.NoteID, string(pointsJSON), string(topicsJSON), string(emotionsJSON), a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: upsert analysis: %w", err)
	}
	return a, nil
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
