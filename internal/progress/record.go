package progress

import (
	"time"

	"github.com/hyperengineering/dinacharya/internal/types"
)

// Defaults seeds new progress records.
type Defaults struct {
	WeeklyGoal int
	TotalTasks int
}

// DefaultSeed is used when no configuration overrides the seed values.
var DefaultSeed = Defaults{WeeklyGoal: 300, TotalTasks: 35}

// DefaultMetrics returns the four metrics every new record starts with.
func DefaultMetrics() []types.Metric {
	return []types.Metric{
		{Metric: "Sleep Quality", Current: 75, Target: 90, Change: 5, Trend: types.TrendUp},
		{Metric: "Energy Level", Current: 60, Target: 85, Change: 12, Trend: types.TrendUp},
		{Metric: "Stress Management", Current: 70, Target: 80, Change: -3, Trend: types.TrendDown},
		{Metric: "Digestion", Current: 80, Target: 90, Change: 8, Trend: types.TrendUp},
	}
}

// NewRecord returns the zero-state record for email.
func NewRecord(email string, d Defaults, now time.Time) *types.ProgressRecord {
	return &types.ProgressRecord{
		UserEmail:      email,
		SchemaVersion:  types.CurrentSchemaVersion,
		CompletedTasks: []int{},
		WeeklyStats: types.WeeklyStats{
			TotalTasks: d.TotalTasks,
			WeeklyGoal: d.WeeklyGoal,
		},
		ProgressData:     DefaultMetrics(),
		Achievements:     []types.Achievement{},
		DailyActivity:    []types.DailyActivity{},
		WeeklyGoals:      &types.WeeklyGoals{CurrentWeek: 1, Goals: []types.WeeklyGoal{}},
		LastUpdated:      now,
		LastActivityDate: now,
	}
}

// Upgrade brings a stored record to CurrentSchemaVersion in place and reports
// whether anything changed. It is idempotent.
func Upgrade(rec *types.ProgressRecord, d Defaults) bool {
	changed := false

	if rec.SchemaVersion < 2 {
		if rec.Achievements == nil {
			rec.Achievements = []types.Achievement{}
		}
		if rec.DailyActivity == nil {
			rec.DailyActivity = []types.DailyActivity{}
		}
		if rec.WeeklyGoals == nil {
			rec.WeeklyGoals = &types.WeeklyGoals{CurrentWeek: 1, Goals: []types.WeeklyGoal{}}
		}
		if rec.WeeklyStats.WeeklyProgress < 0 {
			rec.WeeklyStats.WeeklyProgress = 0
		}
		if rec.WeeklyStats.TotalCompleted < 0 {
			rec.WeeklyStats.TotalCompleted = 0
		}
		rec.SchemaVersion = 2
		changed = true
	}

	// Structural gaps that can appear in any version.
	if rec.CompletedTasks == nil {
		rec.CompletedTasks = []int{}
		changed = true
	}
	if rec.ProgressData == nil {
		rec.ProgressData = DefaultMetrics()
		changed = true
	}
	if rec.WeeklyStats.WeeklyGoal <= 0 {
		rec.WeeklyStats.WeeklyGoal = d.WeeklyGoal
		changed = true
	}
	if rec.WeeklyStats.BestStreak < rec.WeeklyStats.Streak {
		rec.WeeklyStats.BestStreak = rec.WeeklyStats.Streak
		changed = true
	}
	return changed
}

// UpsertDay replaces any entry on the same calendar day as entry.Date and
// appends entry, so the log holds at most one entry per day.
func UpsertDay(log []types.DailyActivity, entry types.DailyActivity) []types.DailyActivity {
	out := make([]types.DailyActivity, 0, len(log)+1)
	for _, a := range log {
		if SameDay(entry.Date, a.Date) {
			continue
		}
		out = append(out, a)
	}
	return append(out, entry)
}
