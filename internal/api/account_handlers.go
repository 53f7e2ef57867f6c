package api

import (
	"errors"
	"net/http"

	"github.com/hyperengineering/dinacharya/internal/store"
	"github.com/hyperengineering/dinacharya/internal/types"
	"github.com/hyperengineering/dinacharya/internal/validation"
)

// SignUp handles POST /api/v1/signup
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req types.SignUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validation.ValidateSignUp(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request validation failed", errs)
		return
	}

	u, err := h.accounts.SignUp(r.Context(), req)
	if errors.Is(err, store.ErrAlreadyExists) {
		WriteProblem(w, r, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		MapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.UserResponse{Success: true, Message: "User created", User: *u})
}

// SignIn handles POST /api/v1/signin. Unknown emails and wrong passwords
// answer the same 401 so accounts cannot be enumerated.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req types.SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validation.ValidateSignIn(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request validation failed", errs)
		return
	}

	u, err := h.accounts.SignIn(r.Context(), req)
	if errors.Is(err, store.ErrNotFound) {
		WriteProblem(w, r, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		MapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.UserResponse{Success: true, Message: "Login successful", User: *u})
}

// GetProfile handles GET /api/v1/profile?email=
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	var c validation.Collector
	c.Add(validation.ValidateEmail("email", email))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request validation failed", c.Errors())
		return
	}

	u, err := h.accounts.Profile(r.Context(), email)
	if err != nil {
		MapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.UserResponse{Success: true, User: *u})
}

// UpdateProfile handles POST /api/v1/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req types.ProfileUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validation.ValidateProfileUpdate(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request validation failed", errs)
		return
	}

	u, err := h.accounts.UpdateProfile(r.Context(), req)
	if err != nil {
		MapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.UserResponse{Success: true, Message: "Profile updated successfully", User: *u})
}
