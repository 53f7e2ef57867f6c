package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hyperengineering/dinacharya/internal/types"
)

const userColumns = `email, name, password_hash, avatar, phone, location, bio, birth_date, occupation, created_at, updated_at`

// CreateUser inserts u. Returns ErrAlreadyExists when the email is taken.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *types.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO NOTHING
	`, u.Email, u.Name, u.PasswordHash, u.Avatar, u.Phone, u.Location, u.Bio, u.BirthDate, u.Occupation,
		formatTime(u.CreatedAt), formatTime(u.UpdatedAt))
	if err != nil {
		return unavailable("insert user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("insert user", err)
	}
	if n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// GetUser returns the user with email or ErrNotFound.
func (s *SQLiteStore) GetUser(ctx context.Context, email string) (*types.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("query user", err)
	}
	return u, nil
}

// UpdateProfile overwrites the editable profile fields and returns the user.
func (s *SQLiteStore) UpdateProfile(ctx context.Context, update types.ProfileUpdate) (*types.User, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET name = ?, phone = ?, location = ?, bio = ?, birth_date = ?, occupation = ?, updated_at = ?
		WHERE email = ?
	`, update.Name, update.Phone, update.Location, update.Bio, update.BirthDate, update.Occupation,
		formatTime(time.Now()), update.Email)
	if err != nil {
		return nil, unavailable("update user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, unavailable("update user", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, update.Email)
}

func scanUser(scanner interface{ Scan(...any) error }) (*types.User, error) {
	var u types.User
	var createdAt, updatedAt string
	err := scanner.Scan(
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Avatar,
		&u.Phone,
		&u.Location,
		&u.Bio,
		&u.BirthDate,
		&u.Occupation,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return &u, nil
}
