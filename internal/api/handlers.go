package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hyperengineering/dinacharya/internal/account"
	"github.com/hyperengineering/dinacharya/internal/planner"
	"github.com/hyperengineering/dinacharya/internal/progress"
	"github.com/hyperengineering/dinacharya/internal/store"
	"github.com/hyperengineering/dinacharya/internal/types"
)

// maxBodyBytes caps request bodies; the largest legitimate payload is a
// progress write with a full day's plan.
const maxBodyBytes = 1 << 20

// Handler implements the API handlers
type Handler struct {
	store    store.Store
	progress *progress.Service
	planner  *planner.Service
	accounts *account.Service
	apiKey   string
	version  string
}

// NewHandler wires the handlers to their services.
func NewHandler(s store.Store, prog *progress.Service, plans *planner.Service, accounts *account.Service, apiKey, version string) *Handler {
	return &Handler{
		store:    s,
		progress: prog,
		planner:  plans,
		accounts: accounts,
		apiKey:   apiKey,
		version:  version,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		slog.Error("health check failed", "error", err)
		WriteProblem(w, r, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:       "healthy",
		Version:      h.version,
		PlannerModel: h.planner.ModelName(),
		UserCount:    stats.UserCount,
	})
}

// decodeJSON reads the request body into dst, writing a 400 problem and
// returning false when it is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
