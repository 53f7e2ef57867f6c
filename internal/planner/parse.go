package planner

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/hyperengineering/dinacharya/internal/types"
)

var (
	jsonObject     = regexp.MustCompile(`(?s)\{.*\}`)
	numberedLine   = regexp.MustCompile(`^\s*\d+\.`)
	recommendation = regexp.MustCompile(`^\s*\d+\.\s*\[(.*?)\]\s*(.*?):\s*(.*)$`)
)

// maxPeriodTasks keeps normalised ids inside their period's range.
const maxPeriodTasks = 10

// parsePlan extracts the outermost JSON object from model output and decodes it
// as a plan. Every period must be non-empty.
func parsePlan(text string) (types.Plan, error) {
	raw := jsonObject.FindString(text)
	if raw == "" {
		return types.Plan{}, fmt.Errorf("no JSON object in response")
	}

	var plan types.Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return types.Plan{}, fmt.Errorf("decode plan: %w", err)
	}

	periods := map[string][]types.Task{
		"morning":   plan.Morning,
		"afternoon": plan.Afternoon,
		"evening":   plan.Evening,
	}
	for name, tasks := range periods {
		if len(tasks) == 0 {
			return types.Plan{}, fmt.Errorf("plan has no %s tasks", name)
		}
		if len(tasks) > maxPeriodTasks {
			return types.Plan{}, fmt.Errorf("plan has %d %s tasks, max %d", len(tasks), name, maxPeriodTasks)
		}
		for _, t := range tasks {
			if strings.TrimSpace(t.Activity) == "" {
				return types.Plan{}, fmt.Errorf("plan has a %s task without an activity", name)
			}
			if t.Points < 0 {
				return types.Plan{}, fmt.Errorf("plan has a %s task with negative points", name)
			}
		}
	}
	return NormalizeIDs(plan), nil
}

// parseAdvice splits advisor output into recommendations and follow-up
// questions. Lines outside the two sections are ignored.
func parseAdvice(text string) ([]types.Recommendation, []string) {
	recs := []types.Recommendation{}
	followUps := []string{}

	inRecs, inFollowUps := false, false
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "recommendations"):
			inRecs, inFollowUps = true, false
			continue
		case strings.Contains(lower, "follow-up"):
			inRecs, inFollowUps = false, true
			continue
		}

		if inRecs && numberedLine.MatchString(line) {
			if m := recommendation.FindStringSubmatch(line); m != nil {
				recs = append(recs, types.Recommendation{
					Category:    strings.TrimSpace(m[1]),
					Title:       strings.TrimSpace(m[2]),
					Description: strings.TrimSpace(m[3]),
				})
			}
		}
		if inFollowUps {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "-") {
				followUps = append(followUps, strings.TrimSpace(strings.TrimPrefix(trimmed, "-")))
			}
		}
	}
	return recs, followUps
}
