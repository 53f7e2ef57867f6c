// Package account registers users, checks credentials and edits profiles.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hyperengineering/dinacharya/internal/store"
	"github.com/hyperengineering/dinacharya/internal/types"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service manages accounts on top of a UserStore.
type Service struct {
	users store.UserStore
	cost  int
}

// NewService creates an account service. cost is the bcrypt work factor;
// values outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewService(users store.UserStore, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{users: users, cost: cost}
}

// SignUp creates an account. A taken email returns store.ErrAlreadyExists.
func (s *Service) SignUp(ctx context.Context, req types.SignUpRequest) (*types.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &types.User{
		Email:        normalizeEmail(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.Info("account created", "component", "account", "user", u.Email)
	return u, nil
}

// SignIn checks a password. Unknown users return store.ErrNotFound.
func (s *Service) SignIn(ctx context.Context, req types.SignInRequest) (*types.User, error) {
	u, err := s.users.GetUser(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return u, nil
}

// Profile returns the stored user.
func (s *Service) Profile(ctx context.Context, email string) (*types.User, error) {
	u, err := s.users.GetUser(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateProfile replaces the editable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, update types.ProfileUpdate) (*types.User, error) {
	update.Email = normalizeEmail(update.Email)
	update.Name = strings.TrimSpace(update.Name)
	u, err := s.users.UpdateProfile(ctx, update)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
