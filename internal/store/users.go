package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
)

// CreateUser inserts a credential-based user. Email must be unique.
func (db *DB) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.ErrEmailTaken
		}
		return nil, fmt.Errorf("store: insert user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns the user with the given email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, email, password_hash, google_sub, created_at
		FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.GoogleSub, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get user by email: %w", err)
	}
	return &u, nil
}

// EnsureGoogleUser returns the user linked to the given Google account,
// creating one on first sign-in. An existing credential user with the
// same email gets the Google account linked.
func (db *DB) EnsureGoogleUser(ctx context.Context, email, googleSub string) (*models.User, error) {
	u, err := db.GetUserByEmail(ctx, email)
	if err == nil {
		if u.GoogleSub != googleSub {
			if _, err := db.conn.ExecContext(ctx,
				`UPDATE users SET google_sub = ? WHERE id = ?`, googleSub, u.ID); err != nil {
				return nil, fmt.Errorf("store: link google account: %w", err)
			}
			u.GoogleSub = googleSub
		}
		return u, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	u = &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		GoogleSub: googleSub,
		CreatedAt: time.Now().UTC(),
	}
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO users (id, email, google_sub, created_at)
		VALUES (?, ?, ?, ?)
	`, u.ID, u.Email, u.GoogleSub, u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: insert google user: %w", err)
	}
	return u, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
