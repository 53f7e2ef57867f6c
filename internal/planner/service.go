// Package planner produces daily wellness plans and advisor answers from a
// text generation model, substituting a fixed plan when the model fails.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hyperengineering/dinacharya/internal/types"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 15 * time.Second

// Service wraps a Generator with prompts, parsing and the fallback plan.
type Service struct {
	gen     Generator
	timeout time.Duration
}

// NewService creates a planner service. A non-positive timeout uses DefaultTimeout.
func NewService(gen Generator, timeout time.Duration) *Service {
	if gen == nil {
		gen = Noop{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{gen: gen, timeout: timeout}
}

// ModelName reports the backing model.
func (s *Service) ModelName() string {
	return s.gen.ModelName()
}

// GeneratePlan asks the model for a plan tailored to profile. Any model
// failure, including the timeout, yields FallbackPlan with Fallback set;
// the only error is ErrDoshaRequired.
func (s *Service) GeneratePlan(ctx context.Context, userEmail string, profile *types.DoshaProfile) (*types.PlanResponse, error) {
	if profile == nil || strings.TrimSpace(profile.DominantDosha) == "" {
		return nil, ErrDoshaRequired
	}

	plan, err := s.generatePlan(ctx, *profile)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, ErrNotConfigured) {
			level = slog.LevelDebug
		}
		slog.Log(ctx, level, "plan generation failed, using fallback",
			"component", "planner",
			"model", s.gen.ModelName(),
			"timeout", errors.Is(err, context.DeadlineExceeded),
			"error", err,
		)
		return &types.PlanResponse{
			Success:   true,
			Plan:      FallbackPlan(),
			UserEmail: userEmail,
			Fallback:  true,
			Message:   FallbackMessage,
		}, nil
	}

	return &types.PlanResponse{
		Success:   true,
		Plan:      plan,
		UserEmail: userEmail,
	}, nil
}

func (s *Service) generatePlan(ctx context.Context, profile types.DoshaProfile) (types.Plan, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generate(ctx, planPrompt(profile))
	if err != nil {
		return types.Plan{}, err
	}
	return parsePlan(text)
}

// Advise returns the advisor's answer to input. Model failures are returned
// wrapped with ErrUnavailable.
func (s *Service) Advise(ctx context.Context, input string) (*types.AdviceResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generate(ctx, advicePrompt(input))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	recs, followUps := parseAdvice(text)
	return &types.AdviceResponse{
		Success:         true,
		Advice:          text,
		Recommendations: recs,
		FollowUps:       followUps,
		Model:           s.gen.ModelName(),
	}, nil
}

// generate runs the model call so that a generator ignoring ctx still returns
// once the deadline passes.
func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := s.gen.Generate(ctx, prompt)
		done <- result{text, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		return r.text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
