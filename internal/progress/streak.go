package progress

import (
	"sort"
	"time"

	"github.com/hyperengineering/dinacharya/internal/types"
)

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b, using a's
// location for both. Calendar arithmetic keeps DST days at a distance of one.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	return DaysBetween(a, b) == 0
}

// ComputeStreak counts consecutive days of positive-point activity ending at
// or one day before today. The input is not modified.
//
// Entries are walked newest first against a cursor that starts at today and
// steps back one day per qualifying entry. An entry qualifies while it lies
// at most one day behind the cursor and carries points.
func ComputeStreak(activity []types.DailyActivity, today time.Time) int {
	if len(activity) == 0 {
		return 0
	}

	sorted := make([]types.DailyActivity, len(activity))
	copy(sorted, activity)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	cursor := StartOfDay(today)
	streak := 0
	for _, a := range sorted {
		if DaysBetween(a.Date.In(cursor.Location()), cursor) > 1 || a.Points <= 0 {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}
