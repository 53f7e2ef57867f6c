package validation

import (
	"fmt"

	"github.com/hyperengineering/dinacharya/internal/dosha"
	"github.com/hyperengineering/dinacharya/internal/types"
)

// ValidateProgressUpdate checks a progress write. The user key is required;
// every other field is optional but must be well-formed when present.
func ValidateProgressUpdate(u types.ProgressUpdate) []ValidationError {
	var c Collector
	c.Add(ValidateEmail("email", u.Email))

	if u.CompletedTasks != nil {
		for i, id := range *u.CompletedTasks {
			c.Add(ValidateNonNegative(fmt.Sprintf("completedTasks[%d]", i), id))
		}
	}

	if s := u.WeeklyStats; s != nil {
		addNonNegative(&c, "weeklyStats.totalPoints", s.TotalPoints)
		addNonNegative(&c, "weeklyStats.streak", s.Streak)
		addNonNegative(&c, "weeklyStats.completedTasks", s.CompletedTasks)
		addNonNegative(&c, "weeklyStats.totalTasks", s.TotalTasks)
		addNonNegative(&c, "weeklyStats.bestStreak", s.BestStreak)
		addNonNegative(&c, "weeklyStats.totalCompleted", s.TotalCompleted)
		if s.WeeklyGoal != nil {
			c.Add(ValidatePositive("weeklyStats.weeklyGoal", *s.WeeklyGoal))
		}
		if s.WeeklyProgress != nil && (*s.WeeklyProgress < 0 || *s.WeeklyProgress > 100) {
			c.Add(&ValidationError{Field: "weeklyStats.weeklyProgress", Message: "must be between 0 and 100"})
		}
	}

	if u.ProgressData != nil {
		for i, m := range *u.ProgressData {
			prefix := fmt.Sprintf("progressData[%d]", i)
			c.Add(ValidateRequired(prefix+".metric", m.Metric))
			c.Add(ValidateText(prefix+".metric", m.Metric, MaxNameLength))
			c.Add(ValidateRange(prefix+".current", m.Current, 0, 100))
			c.Add(ValidateRange(prefix+".target", m.Target, 0, 100))
			c.Add(ValidateEnum(prefix+".trend", string(m.Trend), types.ValidTrends()))
		}
	}

	if u.Plan != nil {
		for _, t := range u.Plan.Tasks() {
			c.Add(ValidateNonNegative(fmt.Sprintf("plan.task[%d].points", t.ID), t.Points))
		}
	}

	return c.Errors()
}

func addNonNegative(c *Collector, field string, v *int) {
	if v != nil {
		c.Add(ValidateNonNegative(field, *v))
	}
}

// ValidateQuizSubmit checks a quiz submission. Either answers or a
// client-computed dominant dosha must be supplied.
func ValidateQuizSubmit(req types.QuizSubmitRequest) []ValidationError {
	var c Collector
	c.Add(ValidateEmail("userEmail", req.UserEmail))

	if len(req.Answers) > 0 {
		for qid, answer := range req.Answers {
			if !dosha.HasQuestion(qid) {
				c.Add(&ValidationError{Field: fmt.Sprintf("answers[%d]", qid), Message: "unknown question"})
				continue
			}
			c.Add(ValidateEnum(fmt.Sprintf("answers[%d]", qid), answer, dosha.Names()))
		}
		return c.Errors()
	}

	c.Add(ValidateRequired("dominantDosha", req.DominantDosha))
	if req.DominantDosha != "" {
		c.Add(ValidateEnum("dominantDosha", req.DominantDosha, dosha.Names()))
	}
	if s := req.Scores; s != nil {
		c.Add(ValidateNonNegative("scores.vata", s.Vata))
		c.Add(ValidateNonNegative("scores.pitta", s.Pitta))
		c.Add(ValidateNonNegative("scores.kapha", s.Kapha))
	}
	return c.Errors()
}

// ValidatePlanRequest checks a plan generation request.
func ValidatePlanRequest(req types.PlanRequest) []ValidationError {
	var c Collector
	if req.UserEmail != "" {
		c.Add(ValidateEmail("userEmail", req.UserEmail))
	}
	if req.DoshaResults == nil {
		c.Add(&ValidationError{Field: "doshaResults", Message: "is required"})
		return c.Errors()
	}
	c.Add(ValidateRequired("doshaResults.dominantDosha", req.DoshaResults.DominantDosha))
	if req.DoshaResults.DominantDosha != "" {
		c.Add(ValidateEnum("doshaResults.dominantDosha", req.DoshaResults.DominantDosha, dosha.Names()))
	}
	return c.Errors()
}

// ValidateAdviceRequest checks an advisor request.
func ValidateAdviceRequest(req types.AdviceRequest) []ValidationError {
	var c Collector
	c.Add(ValidateRequired("input", req.Input))
	c.Add(ValidateText("input", req.Input, MaxAdviceInput))
	return c.Errors()
}

// ValidateSignUp checks an account registration.
func ValidateSignUp(req types.SignUpRequest) []ValidationError {
	var c Collector
	c.Add(ValidateRequired("name", req.Name))
	c.Add(ValidateText("name", req.Name, MaxNameLength))
	c.Add(ValidateEmail("email", req.Email))
	c.Add(validatePassword(req.Password))
	return c.Errors()
}

// ValidateSignIn checks a credential check request.
func ValidateSignIn(req types.SignInRequest) []ValidationError {
	var c Collector
	c.Add(ValidateRequired("email", req.Email))
	c.Add(ValidateRequired("password", req.Password))
	return c.Errors()
}

// ValidateProfileUpdate checks a profile update.
func ValidateProfileUpdate(req types.ProfileUpdate) []ValidationError {
	var c Collector
	c.Add(ValidateEmail("email", req.Email))
	c.Add(ValidateText("name", req.Name, MaxNameLength))
	c.Add(ValidateText("phone", req.Phone, MaxNameLength))
	c.Add(ValidateText("location", req.Location, MaxNameLength))
	c.Add(ValidateText("bio", req.Bio, MaxProfileField))
	c.Add(ValidateText("birthDate", req.BirthDate, MaxNameLength))
	c.Add(ValidateText("occupation", req.Occupation, MaxNameLength))
	return c.Errors()
}

func validatePassword(password string) *ValidationError {
	if len(password) < MinPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength),
		}
	}
	if len(password) > MaxPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at most %d bytes", MaxPasswordLength),
		}
	}
	return nil
}
