package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.apiKey))

			r.Get("/progress", h.GetProgress)
			r.Post("/progress", h.SaveProgress)
			r.Get("/achievements", h.ListAchievements)

			r.Route("/dosha", func(r chi.Router) {
				r.Get("/questions", h.DoshaQuestions)
				r.Post("/submit", h.SubmitDosha)
				r.Get("/results", h.DoshaResults)
			})

			r.Post("/plans/generate", h.GeneratePlan)
			r.Post("/advice", h.Advise)

			r.Post("/signup", h.SignUp)
			r.Post("/signin", h.SignIn)
			r.Get("/profile", h.GetProfile)
			r.Post("/profile", h.UpdateProfile)
		})
	})

	return r
}
