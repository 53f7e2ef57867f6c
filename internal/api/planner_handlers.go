package api

import (
	"net/http"

	"github.com/hyperengineering/dinacharya/internal/types"
	"github.com/hyperengineering/dinacharya/internal/validation"
)

// GeneratePlan handles POST /api/v1/plans/generate. Model failures still
// answer 200 with the fallback plan flagged.
func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req types.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validation.ValidatePlanRequest(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request validation failed", errs)
		return
	}

	resp, err := h.planner.GeneratePlan(r.Context(), req.UserEmail, req.DoshaResults)
	if err != nil {
		MapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Advise handles POST /api/v1/advice
func (h *Handler) Advise(w http.ResponseWriter, r *http.Request) {
	var req types.AdviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validation.ValidateAdviceRequest(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request validation failed", errs)
		return
	}

	resp, err := h.planner.Advise(r.Context(), req.Input)
	if err != nil {
		MapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
