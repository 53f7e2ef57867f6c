package progress

import (
	"time"

	"github.com/hyperengineering/dinacharya/internal/types"
)

// Achievement categories.
const (
	CategoryMilestone = "milestone"
	CategoryStreak    = "streak"
	CategoryPoints    = "points"
)

// rule is one entry of the achievement table.
type rule struct {
	id          string
	name        string
	description string
	icon        string
	category    string
	unlocked    func(s types.WeeklyStats) bool
}

func (r rule) achievement(at time.Time) types.Achievement {
	return types.Achievement{
		ID:          r.id,
		Name:        r.name,
		Description: r.description,
		Icon:        r.icon,
		Category:    r.category,
		UnlockedAt:  at,
	}
}

var rules = []rule{
	{"first_task", "First Steps", "Completed your first wellness task", "🎯", CategoryMilestone,
		func(s types.WeeklyStats) bool { return s.TotalCompleted >= 1 }},
	{"streak_3", "Consistent", "Maintained a 3-day streak", "🔥", CategoryStreak,
		func(s types.WeeklyStats) bool { return s.Streak >= 3 }},
	{"streak_7", "Week Warrior", "Maintained a 7-day streak", "🏆", CategoryStreak,
		func(s types.WeeklyStats) bool { return s.Streak >= 7 }},
	{"points_100", "Century Club", "Earned 100 points", "💯", CategoryPoints,
		func(s types.WeeklyStats) bool { return s.TotalPoints >= 100 }},
	{"points_500", "Wellness Master", "Earned 500 points", "👑", CategoryPoints,
		func(s types.WeeklyStats) bool { return s.TotalPoints >= 500 }},
}

// Catalog returns every achievement that can be unlocked, without timestamps.
func Catalog() []types.Achievement {
	out := make([]types.Achievement, len(rules))
	for i, r := range rules {
		out[i] = r.achievement(time.Time{})
	}
	return out
}

// UnlockedIDs returns the set of achievement ids already held.
func UnlockedIDs(achievements []types.Achievement) map[string]bool {
	ids := make(map[string]bool, len(achievements))
	for _, a := range achievements {
		ids[a.ID] = true
	}
	return ids
}

// EvaluateAchievements returns the achievements whose condition holds for
// stats and whose id is not in unlocked, in table order. Calling it again with
// the result merged into unlocked yields nothing.
func EvaluateAchievements(stats types.WeeklyStats, unlocked map[string]bool, now time.Time) []types.Achievement {
	var earned []types.Achievement
	for _, r := range rules {
		if unlocked[r.id] || !r.unlocked(stats) {
			continue
		}
		earned = append(earned, r.achievement(now))
	}
	return earned
}

// MergeAchievements appends earned to held, skipping ids already present.
func MergeAchievements(held, earned []types.Achievement) []types.Achievement {
	ids := UnlockedIDs(held)
	for _, a := range earned {
		if ids[a.ID] {
			continue
		}
		ids[a.ID] = true
		held = append(held, a)
	}
	return held
}
