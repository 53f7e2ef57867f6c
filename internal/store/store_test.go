package store

import (
	"context"

	"github.com/hyperengineering/dinacharya/internal/types"
)

// mockStore is a compile-time check that the Store interface can be implemented.
type mockStore struct{}

var _ Store = (*mockStore)(nil)

func (m *mockStore) FindProgress(ctx context.Context, email string) (*types.ProgressRecord, error) {
	return nil, nil
}
func (m *mockStore) CreateProgress(ctx context.Context, rec *types.ProgressRecord) error {
	return nil
}
func (m *mockStore) SaveProgress(ctx context.Context, rec *types.ProgressRecord) error {
	return nil
}
func (m *mockStore) CreateUser(ctx context.Context, u *types.User) error {
	return nil
}
func (m *mockStore) GetUser(ctx context.Context, email string) (*types.User, error) {
	return nil, nil
}
func (m *mockStore) UpdateProfile(ctx context.Context, update types.ProfileUpdate) (*types.User, error) {
	return nil, nil
}
func (m *mockStore) CreateQuizResult(ctx context.Context, r *types.QuizResult) error {
	return nil
}
func (m *mockStore) ListQuizResults(ctx context.Context, email string) ([]types.QuizResult, error) {
	return nil, nil
}
func (m *mockStore) GetStats(ctx context.Context) (*types.StoreStats, error) {
	return nil, nil
}
func (m *mockStore) Backup(ctx context.Context, destPath string) error {
	return nil
}
func (m *mockStore) Close() error {
	return nil
}
