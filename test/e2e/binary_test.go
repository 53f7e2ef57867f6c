//go:build e2e

package e2e

import (
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/hyperengineering/dinacharya/internal/planner"
	"github.com/hyperengineering/dinacharya/internal/types"
)

// Layer 3: the built binary, configured only through the environment.

func TestBinary_HealthAndAuth(t *testing.T) {
	srv := startDinacharya(t)

	var health types.HealthResponse
	if got := srv.do(t, http.MethodGet, "/api/v1/health", nil, &health); got != http.StatusOK {
		t.Fatalf("health status = %d", got)
	}
	if health.Status != "healthy" {
		t.Errorf("health = %+v", health)
	}

	if got := request(t, srv.baseURL(), "wrong-key", http.MethodGet, "/api/v1/achievements", nil, nil); got != http.StatusUnauthorized {
		t.Errorf("wrong key status = %d, want 401", got)
	}
}

func TestBinary_ProgressSurvivesRestart(t *testing.T) {
	srv := startDinacharya(t)
	const email = "restart@example.com"
	plan := planner.FallbackPlan()

	// Given a saved write
	completed := []int{0, 1}
	if got := srv.do(t, http.MethodPost, "/api/v1/progress", types.ProgressUpdate{
		Email:          email,
		CompletedTasks: &completed,
		Plan:           &plan,
	}, nil); got != http.StatusOK {
		t.Fatalf("write status = %d", got)
	}

	// When the process shuts down gracefully and starts again on the same data
	srv.stop()
	logs, err := os.ReadFile(srv.logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(logs), "shutdown complete") {
		t.Errorf("log has no clean shutdown:\n%s", logs)
	}
	srv.cmd = nil

	restarted := restartDinacharya(t, srv)

	// Then the record is still there
	var read types.ProgressResponse
	if got := restarted.do(t, http.MethodGet, "/api/v1/progress?email="+email, nil, &read); got != http.StatusOK {
		t.Fatalf("read status = %d", got)
	}
	if read.WeeklyStats.TotalPoints != 25 {
		t.Errorf("points after restart = %d, want 25", read.WeeklyStats.TotalPoints)
	}
}
