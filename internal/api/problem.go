package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hyperengineering/dinacharya/internal/account"
	"github.com/hyperengineering/dinacharya/internal/planner"
	"github.com/hyperengineering/dinacharya/internal/progress"
	"github.com/hyperengineering/dinacharya/internal/store"
	"github.com/hyperengineering/dinacharya/internal/validation"
)

const problemBaseURI = "https://dinacharya.app/errors/"

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

type problemType struct {
	slug  string
	title string
}

var problemTypes = map[int]problemType{
	http.StatusBadRequest:          {"bad-request", "Bad Request"},
	http.StatusUnauthorized:        {"unauthorized", "Unauthorized"},
	http.StatusNotFound:            {"not-found", "Not Found"},
	http.StatusConflict:            {"conflict", "Conflict"},
	http.StatusUnprocessableEntity: {"validation-error", "Validation Error"},
	http.StatusInternalServerError: {"internal-error", "Internal Server Error"},
	http.StatusServiceUnavailable:  {"service-unavailable", "Service Unavailable"},
}

func newProblem(r *http.Request, status int, detail string) Problem {
	pt, ok := problemTypes[status]
	if !ok {
		pt = problemType{slug: "unknown", title: http.StatusText(status)}
	}
	return Problem{
		Type:     problemBaseURI + pt.slug,
		Title:    pt.title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}
}

// WriteProblem writes an RFC 7807 Problem Details response.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeProblemBody(w, status, newProblem(r, status, detail))
}

// ProblemWithErrors extends Problem with validation error details.
type ProblemWithErrors struct {
	Problem
	Errors []validation.ValidationError `json:"errors,omitempty"`
}

// WriteProblemWithErrors writes a 422 Problem Details response with field errors.
func WriteProblemWithErrors(w http.ResponseWriter, r *http.Request, detail string, errs []validation.ValidationError) {
	status := http.StatusUnprocessableEntity
	writeProblemBody(w, status, ProblemWithErrors{
		Problem: newProblem(r, status, detail),
		Errors:  errs,
	})
}

func writeProblemBody(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode problem response", "error", err)
	}
}

// MapError converts service errors to Problem Details responses. Anything
// unrecognised is logged and reported as a generic 500.
func MapError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, progress.ErrUserKeyRequired):
		WriteProblem(w, r, http.StatusBadRequest, "User email is required")
	case errors.Is(err, planner.ErrDoshaRequired):
		WriteProblemWithErrors(w, r, "Request validation failed", []validation.ValidationError{
			{Field: "doshaResults.dominantDosha", Message: "is required"},
		})
	case errors.Is(err, account.ErrInvalidCredentials):
		WriteProblem(w, r, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, store.ErrNotFound):
		WriteProblem(w, r, http.StatusNotFound, "Resource not found")
	case errors.Is(err, store.ErrAlreadyExists):
		WriteProblem(w, r, http.StatusConflict, "Resource already exists")
	case errors.Is(err, store.ErrConflict):
		WriteProblem(w, r, http.StatusConflict, "Record was modified concurrently; reload and retry")
	case errors.Is(err, planner.ErrUnavailable), errors.Is(err, planner.ErrNotConfigured):
		slog.Warn("ai service unavailable", "path", r.URL.Path, "error", err)
		WriteProblem(w, r, http.StatusServiceUnavailable, "AI service unavailable")
	case errors.Is(err, store.ErrUnavailable):
		slog.Error("storage failure", "path", r.URL.Path, "error", err)
		WriteProblem(w, r, http.StatusServiceUnavailable, "Storage unavailable")
	default:
		slog.Error("unhandled error", "path", r.URL.Path, "error", err)
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}
