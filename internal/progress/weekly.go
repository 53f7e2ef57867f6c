package progress

import (
	"github.com/hyperengineering/dinacharya/internal/types"
)

// MaxWeeklyProgress is the cap on the weekly goal percentage.
const MaxWeeklyProgress = 100.0

// AggregateTasks derives the task counters after the completed set changes
// from prevCompleted to nextCompleted. Points come from catalog; ids missing
// from the catalog score nothing.
//
// TotalCompleted counts toggles, not unique completions: it moves by one in
// the direction the set changed size and never drops below zero.
func AggregateTasks(prev types.WeeklyStats, prevCompleted, nextCompleted []int, catalog map[int]int) types.WeeklyStats {
	next := prev
	ids := uniqueIDs(nextCompleted)

	points := 0
	for _, id := range ids {
		points += catalog[id]
	}
	next.TotalPoints = points
	next.CompletedTasks = len(ids)

	before := len(uniqueIDs(prevCompleted))
	switch {
	case len(ids) > before:
		next.TotalCompleted++
	case len(ids) < before && next.TotalCompleted > 0:
		next.TotalCompleted--
	}
	return next
}

// ApplyWeeklyProgress recomputes WeeklyProgress from points and goal.
// It is only recomputed while TotalPoints is positive, so dropping back to
// zero points keeps the last percentage.
func ApplyWeeklyProgress(stats types.WeeklyStats) types.WeeklyStats {
	if stats.TotalPoints <= 0 || stats.WeeklyGoal <= 0 {
		return stats
	}
	pct := float64(stats.TotalPoints) / float64(stats.WeeklyGoal) * 100
	if pct > MaxWeeklyProgress {
		pct = MaxWeeklyProgress
	}
	stats.WeeklyProgress = pct
	return stats
}

// MergeStats applies the non-nil fields of patch onto stats.
func MergeStats(stats types.WeeklyStats, patch *types.WeeklyStatsPatch) types.WeeklyStats {
	if patch == nil {
		return stats
	}
	setInt(&stats.TotalPoints, patch.TotalPoints)
	setInt(&stats.Streak, patch.Streak)
	setInt(&stats.CompletedTasks, patch.CompletedTasks)
	setInt(&stats.TotalTasks, patch.TotalTasks)
	setInt(&stats.WeeklyGoal, patch.WeeklyGoal)
	setInt(&stats.BestStreak, patch.BestStreak)
	setInt(&stats.TotalCompleted, patch.TotalCompleted)
	if patch.WeeklyProgress != nil {
		stats.WeeklyProgress = *patch.WeeklyProgress
	}
	return stats
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func uniqueIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
