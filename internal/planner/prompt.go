package planner

import (
	"fmt"

	"github.com/hyperengineering/dinacharya/internal/types"
)

func planPrompt(p types.DoshaProfile) string {
	return fmt.Sprintf(`Generate a personalized daily wellness plan for someone with %[1]s dosha.

Dosha Details:
- Primary Dosha: %[1]s
- Vata Score: %[2]d
- Pitta Score: %[3]d
- Kapha Score: %[4]d

Please create a structured daily plan with morning, afternoon, and evening activities.
Each activity should include:
- Time
- Activity description
- Points (5-20 based on importance)
- Brief explanation of why it's beneficial for this dosha

Return the response as a JSON object with this exact structure:
{
  "morning": [
    {
      "id": 0,
      "time": "6:00 AM",
      "activity": "Wake up & drink warm water with lemon",
      "points": 10,
      "explanation": "Warm water helps balance vata dosha"
    }
  ],
  "afternoon": [...],
  "evening": [...]
}

Focus on activities that balance the %[1]s dosha.`,
		p.DominantDosha, p.Scores.Vata, p.Scores.Pitta, p.Scores.Kapha)
}

func advicePrompt(input string) string {
	return fmt.Sprintf(`You are an expert Ayurveda advisor.

Given the following user input, provide:
1. Three personalized recommendations in the format: [Category] Title: Description
2. Three follow-up questions to clarify the user's health situation.

Use a "Recommendations" heading before the recommendations and a "Follow-up questions" heading
before the questions. Number each recommendation ("1. ") and start each question with "- ".

User input: %s`, input)
}
