package store

import (
	"context"

	"github.com/hyperengineering/dinacharya/internal/types"
)

// ProgressStore persists one progress document per user.
type ProgressStore interface {
	// FindProgress returns ErrNotFound when the user has no record.
	FindProgress(ctx context.Context, email string) (*types.ProgressRecord, error)
	// CreateProgress inserts rec and returns ErrAlreadyExists if one is present.
	CreateProgress(ctx context.Context, rec *types.ProgressRecord) error
	// SaveProgress replaces rec if its Revision is current and returns
	// ErrConflict otherwise. On success rec.Revision is advanced.
	SaveProgress(ctx context.Context, rec *types.ProgressRecord) error
}

// UserStore persists accounts keyed by email.
type UserStore interface {
	CreateUser(ctx context.Context, u *types.User) error
	GetUser(ctx context.Context, email string) (*types.User, error)
	UpdateProfile(ctx context.Context, update types.ProfileUpdate) (*types.User, error)
}

// QuizStore persists dosha quiz results.
type QuizStore interface {
	CreateQuizResult(ctx context.Context, r *types.QuizResult) error
	ListQuizResults(ctx context.Context, email string) ([]types.QuizResult, error)
}

// Store is the full storage contract used by the service.
type Store interface {
	ProgressStore
	UserStore
	QuizStore
	GetStats(ctx context.Context) (*types.StoreStats, error)
	Backup(ctx context.Context, destPath string) error
	Close() error
}
