package planner

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured is returned by generators with no backing model.
	ErrNotConfigured = errors.New("text generator not configured")
	// ErrUnavailable wraps any failure to obtain a usable answer from the model.
	ErrUnavailable = errors.New("text generator unavailable")
	// ErrDoshaRequired is returned when plan generation has no dominant dosha.
	ErrDoshaRequired = errors.New("dosha results required")
)

// Generator defines the interface contract for text generation backends.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// Noop is the Generator used when no provider is configured.
type Noop struct{}

var _ Generator = Noop{}

func (Noop) Generate(ctx context.Context, prompt string) (string, error) {
	return "", ErrNotConfigured
}

func (Noop) ModelName() string {
	return "none"
}
