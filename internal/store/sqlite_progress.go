package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hyperengineering/dinacharya/internal/types"
)

// FindProgress loads the progress document for email.
func (s *SQLiteStore) FindProgress(ctx context.Context, email string) (*types.ProgressRecord, error) {
	var revision int64
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT revision, document FROM progress WHERE user_email = ?`, email,
	).Scan(&revision, &document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("query progress", err)
	}

	var rec types.ProgressRecord
	if err := json.Unmarshal([]byte(document), &rec); err != nil {
		return nil, fmt.Errorf("decode progress document: %w", err)
	}
	rec.UserEmail = email
	rec.Revision = revision
	return &rec, nil
}

// CreateProgress inserts a new progress document at revision 1.
func (s *SQLiteStore) CreateProgress(ctx context.Context, rec *types.ProgressRecord) error {
	document, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode progress document: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (user_email, revision, document, updated_at)
		VALUES (?, 1, ?, ?)
		ON CONFLICT(user_email) DO NOTHING
	`, rec.UserEmail, string(document), formatTime(time.Now()))
	if err != nil {
		return unavailable("insert progress", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("insert progress", err)
	}
	if n == 0 {
		return ErrAlreadyExists
	}
	rec.Revision = 1
	return nil
}

// SaveProgress replaces the document if rec.Revision matches the stored one.
func (s *SQLiteStore) SaveProgress(ctx context.Context, rec *types.ProgressRecord) error {
	document, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode progress document: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE progress
		SET document = ?, revision = revision + 1, updated_at = ?
		WHERE user_email = ? AND revision = ?
	`, string(document), formatTime(time.Now()), rec.UserEmail, rec.Revision)
	if err != nil {
		return unavailable("update progress", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("update progress", err)
	}
	if n == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM progress WHERE user_email = ?`, rec.UserEmail,
		).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return unavailable("check progress", err)
		}
		return ErrConflict
	}
	rec.Revision++
	return nil
}
