// Package progress tracks daily task completion, streaks, weekly goals and
// achievements for a user's progress record.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hyperengineering/dinacharya/internal/store"
	"github.com/hyperengineering/dinacharya/internal/types"
)

// Store defines the storage operations the progress service needs.
type Store interface {
	FindProgress(ctx context.Context, email string) (*types.ProgressRecord, error)
	CreateProgress(ctx context.Context, rec *types.ProgressRecord) error
	SaveProgress(ctx context.Context, rec *types.ProgressRecord) error
}

// Service reads and writes progress records.
type Service struct {
	store    Store
	defaults Defaults
	now      func() time.Time
	loc      *time.Location
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the location whose midnight bounds a day.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithDefaults overrides the seed values for new records.
func WithDefaults(d Defaults) Option {
	return func(s *Service) {
		if d.WeeklyGoal > 0 {
			s.defaults.WeeklyGoal = d.WeeklyGoal
		}
		if d.TotalTasks > 0 {
			s.defaults.TotalTasks = d.TotalTasks
		}
	}
}

// NewService creates a progress service backed by st.
func NewService(st Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		defaults: DefaultSeed,
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WriteResult is the outcome of a successful Write.
type WriteResult struct {
	Record          *types.ProgressRecord
	NewAchievements []types.Achievement
}

func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}

// Read returns the user's record, creating it on first access. The record is
// upgraded to the current schema and its streak recomputed from the daily
// log; either change is persisted before returning unless a concurrent write
// lands first, in which case that writer's record is returned.
func (s *Service) Read(ctx context.Context, email string) (*types.ProgressRecord, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrUserKeyRequired
	}

	rec, err := s.findOrCreate(ctx, email)
	if err != nil {
		return nil, err
	}

	if !s.refresh(rec) {
		return rec, nil
	}

	err = s.store.SaveProgress(ctx, rec)
	if errors.Is(err, store.ErrConflict) {
		// A writer got there first. Serve its record, refreshed in memory;
		// the next save persists the refresh.
		rec, err = s.store.FindProgress(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("find progress: %w", err)
		}
		s.refresh(rec)
		return rec, nil
	}
	if err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	slog.Debug("progress refreshed",
		"component", "progress",
		"user", email,
		"streak", rec.WeeklyStats.Streak,
	)
	return rec, nil
}

// refresh upgrades rec and recomputes its streak from the daily log. It
// reports whether anything changed.
func (s *Service) refresh(rec *types.ProgressRecord) bool {
	changed := Upgrade(rec, s.defaults)

	streak := ComputeStreak(rec.DailyActivity, s.clock())
	if rec.WeeklyStats.Streak != streak {
		rec.WeeklyStats.Streak = streak
		if streak > rec.WeeklyStats.BestStreak {
			rec.WeeklyStats.BestStreak = streak
		}
		changed = true
	}
	return changed
}

// Write applies update to the user's record, logs today's activity, unlocks
// achievements and persists the result in one save.
func (s *Service) Write(ctx context.Context, email string, update types.ProgressUpdate) (*WriteResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrUserKeyRequired
	}

	now := s.clock()
	isNew := false
	rec, err := s.store.FindProgress(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		rec = NewRecord(email, s.defaults, now)
		isNew = true
	case err != nil:
		return nil, fmt.Errorf("find progress: %w", err)
	}
	Upgrade(rec, s.defaults)

	prevCompleted := rec.CompletedTasks
	prevBest := rec.WeeklyStats.BestStreak

	rec.WeeklyStats = MergeStats(rec.WeeklyStats, update.WeeklyStats)
	if update.CompletedTasks != nil {
		rec.CompletedTasks = append([]int{}, (*update.CompletedTasks)...)
		if update.Plan != nil {
			rec.WeeklyStats = AggregateTasks(rec.WeeklyStats, prevCompleted, rec.CompletedTasks, update.Plan.Catalog())
		}
	}
	if update.ProgressData != nil {
		rec.ProgressData = append([]types.Metric{}, (*update.ProgressData)...)
	}

	today := StartOfDay(now)
	rec.DailyActivity = UpsertDay(rec.DailyActivity, types.DailyActivity{
		Date:           today,
		CompletedTasks: append([]int{}, rec.CompletedTasks...),
		Points:         todayPoints(rec, update, today),
	})

	// The stored streak is a cache of the daily log, never the client's value.
	streak := ComputeStreak(rec.DailyActivity, now)
	rec.WeeklyStats.Streak = streak
	rec.WeeklyStats.BestStreak = max(prevBest, rec.WeeklyStats.BestStreak, streak)
	rec.DailyActivity[len(rec.DailyActivity)-1].Streak = streak

	earned := EvaluateAchievements(rec.WeeklyStats, UnlockedIDs(rec.Achievements), now)
	rec.Achievements = MergeAchievements(rec.Achievements, earned)

	rec.WeeklyStats = ApplyWeeklyProgress(rec.WeeklyStats)
	rec.LastUpdated = now
	rec.LastActivityDate = now

	if isNew {
		err = s.store.CreateProgress(ctx, rec)
		if errors.Is(err, store.ErrAlreadyExists) {
			// Another request created the record after our lookup.
			err = store.ErrConflict
		}
	} else {
		err = s.store.SaveProgress(ctx, rec)
	}
	if err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	if len(earned) > 0 {
		ids := make([]string, len(earned))
		for i, a := range earned {
			ids[i] = a.ID
		}
		slog.Info("achievements unlocked",
			"component", "progress",
			"user", email,
			"achievements", ids,
		)
	}

	return &WriteResult{Record: rec, NewAchievements: earned}, nil
}

// todayPoints is the point total logged for today. Updates that carry no
// point information keep whatever today's entry already recorded.
func todayPoints(rec *types.ProgressRecord, update types.ProgressUpdate, today time.Time) int {
	if update.Plan != nil && update.CompletedTasks != nil {
		return rec.WeeklyStats.TotalPoints
	}
	if update.WeeklyStats != nil && update.WeeklyStats.TotalPoints != nil {
		return *update.WeeklyStats.TotalPoints
	}
	for _, a := range rec.DailyActivity {
		if SameDay(today, a.Date) {
			return a.Points
		}
	}
	return 0
}

// findOrCreate loads the record or creates the default one. A concurrent
// creator wins the insert; the loser reads the winner's record.
func (s *Service) findOrCreate(ctx context.Context, email string) (*types.ProgressRecord, error) {
	rec, err := s.store.FindProgress(ctx, email)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("find progress: %w", err)
	}

	rec = NewRecord(email, s.defaults, s.clock())
	err = s.store.CreateProgress(ctx, rec)
	if errors.Is(err, store.ErrAlreadyExists) {
		rec, err = s.store.FindProgress(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("find progress: %w", err)
		}
		return rec, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create progress: %w", err)
	}
	slog.Info("progress record created",
		"component", "progress",
		"user", email,
	)
	return rec, nil
}
