package types

import (
	"time"
)

// CurrentSchemaVersion is the progress document layout written by this service.
// Version 1 documents predate achievements, daily activity and weekly goals.
const CurrentSchemaVersion = 2

// Trend describes the direction a wellness metric moved.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// ValidTrends lists the accepted trend values in display order.
func ValidTrends() []string {
	return []string{string(TrendUp), string(TrendDown), string(TrendStable)}
}

// ProgressRecord is the per-user progress document.
type ProgressRecord struct {
	UserEmail        string          `json:"userEmail"`
	SchemaVersion    int             `json:"schemaVersion"`
	CompletedTasks   []int           `json:"completedTasks"`
	WeeklyStats      WeeklyStats     `json:"weeklyStats"`
	ProgressData     []Metric        `json:"progressData"`
	Achievements     []Achievement   `json:"achievements"`
	DailyActivity    []DailyActivity `json:"dailyActivity"`
	WeeklyGoals      *WeeklyGoals    `json:"weeklyGoals,omitempty"`
	LastUpdated      time.Time       `json:"lastUpdated"`
	LastActivityDate time.Time       `json:"lastActivityDate"`

	// Revision is the storage compare-and-swap token. It is not part of the document.
	Revision int64 `json:"-"`
}

// WeeklyStats holds the aggregate counters shown on the dashboard.
type WeeklyStats struct {
	TotalPoints    int     `json:"totalPoints"`
	Streak         int     `json:"streak"`
	CompletedTasks int     `json:"completedTasks"`
	TotalTasks     int     `json:"totalTasks"`
	WeeklyGoal     int     `json:"weeklyGoal"`
	WeeklyProgress float64 `json:"weeklyProgress"`
	BestStreak     int     `json:"bestStreak"`
	TotalCompleted int     `json:"totalCompleted"`
}

// WeeklyStatsPatch is a partial WeeklyStats; nil fields are left untouched on merge.
type WeeklyStatsPatch struct {
	TotalPoints    *int     `json:"totalPoints,omitempty"`
	Streak         *int     `json:"streak,omitempty"`
	CompletedTasks *int     `json:"completedTasks,omitempty"`
	TotalTasks     *int     `json:"totalTasks,omitempty"`
	WeeklyGoal     *int     `json:"weeklyGoal,omitempty"`
	WeeklyProgress *float64 `json:"weeklyProgress,omitempty"`
	BestStreak     *int     `json:"bestStreak,omitempty"`
	TotalCompleted *int     `json:"totalCompleted,omitempty"`
}

// Metric is one named wellness metric tracked on the dashboard.
type Metric struct {
	Metric  string `json:"metric"`
	Current int    `json:"current"`
	Target  int    `json:"target"`
	Change  int    `json:"change"`
	Trend   Trend  `json:"trend"`
}

// Achievement is a one-time badge. IDs are unique per user.
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Category    string    `json:"category"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

// DailyActivity is the activity snapshot for a single calendar day.
type DailyActivity struct {
	Date           time.Time `json:"date"`
	CompletedTasks []int     `json:"completedTasks"`
	Points         int       `json:"points"`
	Streak         int       `json:"streak"`
}

// WeeklyGoals tracks per-week point targets.
type WeeklyGoals struct {
	CurrentWeek int          `json:"currentWeek"`
	Goals       []WeeklyGoal `json:"goals"`
}

// WeeklyGoal is the target and result for one week.
type WeeklyGoal struct {
	Week           int  `json:"week"`
	TargetPoints   int  `json:"targetPoints"`
	AchievedPoints int  `json:"achievedPoints"`
	Completed      bool `json:"completed"`
}

// ProgressUpdate is the body of a progress write.
type ProgressUpdate struct {
	Email          string            `json:"email"`
	CompletedTasks *[]int            `json:"completedTasks,omitempty"`
	WeeklyStats    *WeeklyStatsPatch `json:"weeklyStats,omitempty"`
	ProgressData   *[]Metric         `json:"progressData,omitempty"`
	// Plan is today's task plan. When present the server derives points and
	// completion counts from CompletedTasks instead of trusting the client.
	Plan *Plan `json:"plan,omitempty"`
}

// ProgressResponse is returned by a progress read.
type ProgressResponse struct {
	Success        bool            `json:"success"`
	CompletedTasks []int           `json:"completedTasks"`
	WeeklyStats    WeeklyStats     `json:"weeklyStats"`
	ProgressData   []Metric        `json:"progressData"`
	Achievements   []Achievement   `json:"achievements"`
	DailyActivity  []DailyActivity `json:"dailyActivity"`
	WeeklyGoals    *WeeklyGoals    `json:"weeklyGoals"`
}

// ProgressWriteData is the payload of a successful progress write.
type ProgressWriteData struct {
	CompletedTasks  []int         `json:"completedTasks"`
	WeeklyStats     WeeklyStats   `json:"weeklyStats"`
	ProgressData    []Metric      `json:"progressData"`
	Achievements    []Achievement `json:"achievements"`
	NewAchievements []Achievement `json:"newAchievements"`
}

// ProgressWriteResponse is returned by a progress write.
type ProgressWriteResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    ProgressWriteData `json:"data"`
}

// Task is one scheduled activity in a daily plan.
type Task struct {
	ID          int    `json:"id"`
	Time        string `json:"time"`
	Activity    string `json:"activity"`
	Points      int    `json:"points"`
	Explanation string `json:"explanation,omitempty"`
}

// Plan is a daily plan grouped by period.
type Plan struct {
	Morning   []Task `json:"morning"`
	Afternoon []Task `json:"afternoon"`
	Evening   []Task `json:"evening"`
}

// Tasks returns all tasks in period order.
func (p Plan) Tasks() []Task {
	all := make([]Task, 0, len(p.Morning)+len(p.Afternoon)+len(p.Evening))
	all = append(all, p.Morning...)
	all = append(all, p.Afternoon...)
	all = append(all, p.Evening...)
	return all
}

// Catalog maps task id to points.
func (p Plan) Catalog() map[int]int {
	catalog := make(map[int]int)
	for _, t := range p.Tasks() {
		catalog[t.ID] = t.Points
	}
	return catalog
}

// DoshaScores holds the per-category quiz tally.
type DoshaScores struct {
	Vata  int `json:"vata"`
	Pitta int `json:"pitta"`
	Kapha int `json:"kapha"`
}

// QuizResult is a stored dosha quiz outcome.
type QuizResult struct {
	ID            string         `json:"id"`
	UserEmail     string         `json:"userEmail"`
	DominantDosha string         `json:"dominantDosha"`
	Scores        DoshaScores    `json:"scores"`
	Answers       map[int]string `json:"answers,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// QuizSubmitRequest is the body of a quiz submission. When Answers is present the
// server computes scores itself; otherwise DominantDosha and Scores are required.
type QuizSubmitRequest struct {
	UserEmail     string         `json:"userEmail"`
	DominantDosha string         `json:"dominantDosha,omitempty"`
	Scores        *DoshaScores   `json:"scores,omitempty"`
	Answers       map[int]string `json:"answers,omitempty"`
}

// QuizSubmitResponse is returned after a quiz result is stored.
type QuizSubmitResponse struct {
	Success bool       `json:"success"`
	Result  QuizResult `json:"result"`
}

// QuizResultsResponse lists stored quiz results, newest first.
type QuizResultsResponse struct {
	Results []QuizResult `json:"results"`
}

// DoshaProfile is the input to plan generation.
type DoshaProfile struct {
	DominantDosha string      `json:"dominantDosha"`
	Scores        DoshaScores `json:"scores"`
}

// PlanRequest is the body of a plan generation request.
type PlanRequest struct {
	UserEmail    string        `json:"userEmail"`
	DoshaResults *DoshaProfile `json:"doshaResults"`
}

// PlanResponse is returned by plan generation. Fallback reports that the
// deterministic fallback plan was substituted.
type PlanResponse struct {
	Success   bool   `json:"success"`
	Plan      Plan   `json:"plan"`
	UserEmail string `json:"userEmail,omitempty"`
	Fallback  bool   `json:"fallback"`
	Message   string `json:"message,omitempty"`
}

// AdviceRequest is the body of an advisor request.
type AdviceRequest struct {
	Input string `json:"input"`
}

// Recommendation is one structured line of advisor output.
type Recommendation struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AdviceResponse carries the advisor's answer, both raw and parsed.
type AdviceResponse struct {
	Success         bool             `json:"success"`
	Advice          string           `json:"advice"`
	Recommendations []Recommendation `json:"recommendations"`
	FollowUps       []string         `json:"followUps"`
	Model           string           `json:"model"`
}

// User is a stored account.
type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	Bio          string    `json:"bio"`
	BirthDate    string    `json:"birthDate"`
	Occupation   string    `json:"occupation"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SignUpRequest is the body of an account registration.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest is the body of a credential check.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate is the body of a profile update.
type ProfileUpdate struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
	Bio        string `json:"bio"`
	BirthDate  string `json:"birthDate"`
	Occupation string `json:"occupation"`
}

// UserResponse wraps a user for account endpoints.
type UserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    User   `json:"user"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	PlannerModel string `json:"planner_model"`
	UserCount    int64  `json:"user_count"`
}

// StoreStats contains aggregate statistics about the store.
type StoreStats struct {
	UserCount       int64 `json:"user_count"`
	ProgressCount   int64 `json:"progress_count"`
	QuizResultCount int64 `json:"quiz_result_count"`
	SchemaVersion   int64 `json:"schema_version"`
}
