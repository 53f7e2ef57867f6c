package planner

import "github.com/hyperengineering/dinacharya/internal/types"

// FallbackMessage accompanies a plan that did not come from the model.
const FallbackMessage = "Using fallback plan due to AI service issue"

// Task id bases per period. A period holds at most ten tasks.
const (
	morningBase   = 0
	afternoonBase = 10
	eveningBase   = 20
)

// FallbackPlan returns the fixed plan served when generation fails.
func FallbackPlan() types.Plan {
	return NormalizeIDs(types.Plan{
		Morning: []types.Task{
			{Time: "6:00 AM", Activity: "Wake up & drink warm water with lemon", Points: 10, Explanation: "Warm water helps balance doshas"},
			{Time: "6:30 AM", Activity: "Meditation (10 minutes)", Points: 15, Explanation: "Meditation calms the mind"},
			{Time: "7:00 AM", Activity: "Gentle yoga or stretching", Points: 20, Explanation: "Yoga balances energy"},
			{Time: "8:00 AM", Activity: "Breakfast with seasonal fruits", Points: 15, Explanation: "Fresh fruits provide natural energy"},
		},
		Afternoon: []types.Task{
			{Time: "12:00 PM", Activity: "Light, balanced lunch", Points: 15, Explanation: "Balanced meals support digestion"},
			{Time: "1:00 PM", Activity: "Short walk in nature", Points: 10, Explanation: "Nature walk reduces stress"},
			{Time: "3:00 PM", Activity: "Herbal tea (Ginger or Mint)", Points: 5, Explanation: "Herbal tea aids digestion"},
		},
		Evening: []types.Task{
			{Time: "6:00 PM", Activity: "Early, light dinner", Points: 15, Explanation: "Early dinner supports good sleep"},
			{Time: "8:00 PM", Activity: "Relaxing activities (reading, music)", Points: 10, Explanation: "Relaxation prepares for sleep"},
			{Time: "10:00 PM", Activity: "Sleep preparation routine", Points: 10, Explanation: "Good sleep hygiene is essential"},
		},
	})
}

// NormalizeIDs renumbers tasks so ids are unique across periods and stable
// between plans: morning i, afternoon 10+i, evening 20+i.
func NormalizeIDs(p types.Plan) types.Plan {
	return types.Plan{
		Morning:   renumber(p.Morning, morningBase),
		Afternoon: renumber(p.Afternoon, afternoonBase),
		Evening:   renumber(p.Evening, eveningBase),
	}
}

func renumber(tasks []types.Task, base int) []types.Task {
	out := make([]types.Task, len(tasks))
	for i, t := range tasks {
		t.ID = base + i
		out[i] = t
	}
	return out
}
