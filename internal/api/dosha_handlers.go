package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/hyperengineering/dinacharya/internal/dosha"
	"github.com/hyperengineering/dinacharya/internal/progress"
	"github.com/hyperengineering/dinacharya/internal/types"
	"github.com/hyperengineering/dinacharya/internal/validation"
)

// DoshaQuestions handles GET /api/v1/dosha/questions
func (h *Handler) DoshaQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]dosha.Question{
		"questions": dosha.Questions(),
	})
}

// SubmitDosha handles POST /api/v1/dosha/submit. Answers, when sent, are
// scored here and any client-computed result is ignored.
func (h *Handler) SubmitDosha(w http.ResponseWriter, r *http.Request) {
	var req types.QuizSubmitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validation.ValidateQuizSubmit(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request validation failed", errs)
		return
	}

	result := types.QuizResult{
		UserEmail: strings.ToLower(strings.TrimSpace(req.UserEmail)),
		Answers:   req.Answers,
	}
	if len(req.Answers) > 0 {
		answers := make(map[int]dosha.Dosha, len(req.Answers))
		for qid, a := range req.Answers {
			d, err := dosha.Parse(a)
			if err != nil {
				WriteProblem(w, r, http.StatusBadRequest, err.Error())
				return
			}
			answers[qid] = d
		}
		scores, dominant, err := dosha.Score(answers)
		if err != nil {
			WriteProblem(w, r, http.StatusBadRequest, err.Error())
			return
		}
		result.Scores = scores
		result.DominantDosha = string(dominant)
	} else {
		d, err := dosha.Parse(req.DominantDosha)
		if err != nil {
			WriteProblem(w, r, http.StatusBadRequest, err.Error())
			return
		}
		result.DominantDosha = string(d)
		if req.Scores != nil {
			result.Scores = *req.Scores
		}
	}

	if err := h.store.CreateQuizResult(r.Context(), &result); err != nil {
		MapError(w, r, err)
		return
	}

	slog.Info("dosha result saved",
		"component", "dosha",
		"user", result.UserEmail,
		"dominant", result.DominantDosha,
	)
	writeJSON(w, http.StatusCreated, types.QuizSubmitResponse{Success: true, Result: result})
}

// DoshaResults handles GET /api/v1/dosha/results?email=
func (h *Handler) DoshaResults(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
	if email == "" {
		MapError(w, r, progress.ErrUserKeyRequired)
		return
	}

	results, err := h.store.ListQuizResults(r.Context(), email)
	if err != nil {
		MapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.QuizResultsResponse{Results: results})
}
