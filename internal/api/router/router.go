// Package router assembles the chi route table and middleware chain.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lunaria-app/lunaria/internal/api/handlers"
	"github.com/lunaria-app/lunaria/internal/api/middleware"
	"github.com/lunaria-app/lunaria/internal/config"
	"github.com/lunaria-app/lunaria/internal/domain/user"
	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/pkg/metrics"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Questionnaire *handlers.QuestionnaireHandler
	Reading       *handlers.ReadingHandler
	Payment       *handlers.PaymentHandler
	Insight       *handlers.InsightHandler
	Admin         *handlers.AdminHandler
}

// New builds the HTTP handler tree.
func New(cfg *config.Config, log *logger.Logger, users user.Service, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(metrics.Middleware)
	r.Use(middleware.RateLimit(100, 200))

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())

		// Credential endpoints get a stricter per-IP budget.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(2, 10))

			r.Post("/api/auth/register", h.Auth.Register)
			r.Post("/api/auth/login", h.Auth.Login)
			r.Post("/api/auth/forgot-password", h.Auth.ForgotPassword)
			r.Post("/api/auth/reset-password", h.Auth.ResetPassword)
		})

		r.Get("/api/daily-insight", h.Insight.Daily)
		r.Post("/api/stripe/webhook", h.Payment.Webhook)
	})

	// Session routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(users))

		r.Get("/api/auth/me", h.Auth.Me)
		r.Post("/api/auth/logout", h.Auth.Logout)

		r.Post("/api/questionnaire", h.Questionnaire.Submit)
		r.Get("/api/questionnaire", h.Questionnaire.Latest)
		r.Get("/api/questionnaires", h.Questionnaire.List)

		r.Get("/api/readings", h.Reading.List)
		r.Get("/api/readings/{id}", h.Reading.Get)
		r.Post("/api/readings/generate", h.Reading.Generate)

		r.Post("/api/create-payment-intent", h.Payment.CreatePaymentIntent)
		r.Post("/api/get-or-create-subscription", h.Payment.GetOrCreateSubscription)
		r.Get("/api/payments", h.Payment.List)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Get("/api/admin/stats", h.Admin.Stats)
			r.Get("/api/admin/users", h.Admin.ListUsers)
			r.Get("/api/admin/questionnaires", h.Admin.ListQuestionnaires)
			r.Get("/api/admin/payments", h.Admin.ListPayments)
			r.Get("/api/admin/daily-insights", h.Admin.ListInsights)
			r.Post("/api/admin/daily-insights", h.Admin.CreateInsight)
			r.Put("/api/admin/daily-insights/{id}", h.Admin.UpdateInsight)
		})
	})

	return r
}
