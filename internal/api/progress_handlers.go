package api

import (
	"net/http"
	"strings"

	"github.com/hyperengineering/dinacharya/internal/progress"
	"github.com/hyperengineering/dinacharya/internal/types"
	"github.com/hyperengineering/dinacharya/internal/validation"
)

// GetProgress handles GET /api/v1/progress?email=
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	rec, err := h.progress.Read(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		MapError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, types.ProgressResponse{
		Success:        true,
		CompletedTasks: rec.CompletedTasks,
		WeeklyStats:    rec.WeeklyStats,
		ProgressData:   rec.ProgressData,
		Achievements:   rec.Achievements,
		DailyActivity:  rec.DailyActivity,
		WeeklyGoals:    rec.WeeklyGoals,
	})
}

// SaveProgress handles POST /api/v1/progress
func (h *Handler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	var update types.ProgressUpdate
	if !decodeJSON(w, r, &update) {
		return
	}
	if strings.TrimSpace(update.Email) == "" {
		MapError(w, r, progress.ErrUserKeyRequired)
		return
	}
	if errs := validation.ValidateProgressUpdate(update); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request validation failed", errs)
		return
	}

	res, err := h.progress.Write(r.Context(), update.Email, update)
	if err != nil {
		MapError(w, r, err)
		return
	}

	newAchievements := res.NewAchievements
	if newAchievements == nil {
		newAchievements = []types.Achievement{}
	}
	writeJSON(w, http.StatusOK, types.ProgressWriteResponse{
		Success: true,
		Message: "Progress saved",
		Data: types.ProgressWriteData{
			CompletedTasks:  res.Record.CompletedTasks,
			WeeklyStats:     res.Record.WeeklyStats,
			ProgressData:    res.Record.ProgressData,
			Achievements:    res.Record.Achievements,
			NewAchievements: newAchievements,
		},
	})
}

// ListAchievements handles GET /api/v1/achievements
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]types.Achievement{
		"achievements": progress.Catalog(),
	})
}
