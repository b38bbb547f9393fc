package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
)

// Every note query below conjoins id AND user_id in a single predicate.
// A note owned by someone else is reported as apperr.ErrNotFound so that
// nothing about another user's notes is disclosed, not even existence.

// InsertNote creates a new note for the given owner. Title and content
// may be empty strings.
func (db *DB) InsertNote(ctx context.Context, ownerID, title, content string) (*models.Note, error) {
	now := time.Now().UTC()
	n := &models.Note{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO notes (id, user_id, title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, n.ID, n.UserID, n.Title, n.Content, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: insert note: %w", err)
	}
	return n, nil
}

// ListNotesByOwner returns the owner's notes newest-first, each with its
// analysis attached when one exists.
func (db *DB) ListNotesByOwner(ctx context.Context, ownerID string) ([]models.Note, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT n.id, n.user_id, n.title, n.content, n.created_at, n.updated_at,
		       a.id, a.awareness_points, a.counselor_topics, a.emotions, a.created_at
		FROM notes n
		LEFT JOIN analyses a ON a.note_id = n.id
		WHERE n.user_id = ?
		ORDER BY n.created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("store: list notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		n, err := scanNoteWithAnalysis(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

// GetNote returns a single note owned by ownerID, with its analysis
// attached when one exists.
func (db *DB) GetNote(ctx context.Context, noteID, ownerID string) (*models.Note, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT n.id, n.user_id, n.title, n.content, n.created_at, n.updated_at,
		       a.id, a.awareness_points, a.counselor_topics, a.emotions, a.created_at
		FROM notes n
		LEFT JOIN analyses a ON a.note_id = n.id
		WHERE n.id = ? AND n.user_id = ?
	`, noteID, ownerID)

	n, err := scanNoteWithAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// UpdateNote overwrites title and content of a note owned by ownerID.
// The note's id and owner never change.
func (db *DB) UpdateNote(ctx context.Context, noteID, ownerID, title, content string) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE notes SET title = ?, content = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, title, content, time.Now().UTC(), noteID, ownerID)
	if err != nil {
		return fmt.Errorf("store: update note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update note: rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteNote permanently removes a note owned by ownerID. The associated
// analysis is removed by the ON DELETE CASCADE constraint.
func (db *DB) DeleteNote(ctx context.Context, noteID, ownerID string) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`, noteID, ownerID)
	if err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete note: rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanNoteWithAnalysis(s scanner) (*models.Note, error) {
	var (
		n         models.Note
		aID       sql.NullString
		aPoints   sql.NullString
		aTopics   sql.NullString
		aEmotions sql.NullString
		aCreated  sql.NullTime
	)
	err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt,
		&aID, &aPoints, &aTopics, &aEmotions, &aCreated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("store: scan note: %w", err)
	}
	if aID.Valid {
		a := &models.Analysis{
			ID:        aID.String,
			NoteID:    n.ID,
			CreatedAt: aCreated.Time,
		}
		if err := json.Unmarshal([]byte(aPoints.String), &a.AwarenessPoints); err != nil {
			return nil, fmt.Errorf("store: decode awareness points: %w", err)
		}
		if err := json.Unmarshal([]byte(aTopics.String), &a.CounselorTopics); err != nil {
			return nil, fmt.Errorf("store: decode counselor topics: %w", err)
		}
		if err := json.Unmarshal([]byte(aEmotions.String), &a.EmotionDistribution); err != nil {
			return nil, fmt.Errorf("store: decode emotions: %w", err)
		}
		n.Analysis = a
	}
	return &n, nil
}
