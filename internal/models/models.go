// Package models defines the domain types for Dagaz.
package models

import "time"

// User is an identity record. A user either registered with credentials
// (PasswordHash set) or arrived through Google sign-in (GoogleSub set).
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GoogleSub    string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Note is a journal entry. Title and Content may both be empty strings.
// Every note has exactly one owner and is visible only to that owner.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Analysis is attached by list/get reads when one exists.
	Analysis *Analysis `json:"analysis,omitempty"`
}

// Analysis is the recorded outcome of analyzing a note's content.
// At most one analysis exists per note; re-analysis overwrites it.
type Analysis struct {
	ID                  string             `json:"id"`
	NoteID              string             `json:"note_id"`
	AwarenessPoints     []string           `json:"awareness_points"`
	CounselorTopics     []string           `json:"counselor_topics"`
	EmotionDistribution map[string]float64 `json:"emotion_distribution"`
	CreatedAt           time.Time          `json:"created_at"`
}
