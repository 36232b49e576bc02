package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/devforge/codelab/internal/api/handlers"
	"github.com/devforge/codelab/internal/api/middleware"
	"github.com/devforge/codelab/internal/cache"
	"github.com/devforge/codelab/internal/config"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/pkg/metrics"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Subscription *handlers.SubscriptionHandler
	Project      *handlers.ProjectHandler
	Message      *handlers.MessageHandler
	AI           *handlers.AIHandler
}

// New builds the HTTP routing tree. The product surface sits behind both
// the session middleware and the entitlement gate; auth, subscription and
// payment endpoints skip the gate so locked-out users can pay their way
// back in.
func New(cfg *config.Config, log *logger.Logger, store cache.Cache, gate *middleware.EntitlementGate, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(metrics.Middleware)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/swagger/*", httpSwagger.WrapHandler)

		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)
		r.Handle("/metrics", metrics.Handler())

		// Credential endpoints get a tighter rate limit than the rest of
		// the API.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

			r.Post("/api/auth/signup", h.Auth.Signup)
			r.Post("/api/auth/login", h.Auth.Login)
			r.Post("/api/auth/verify-otp", h.Auth.VerifyOTP)
			r.Post("/api/auth/resend-otp", h.Auth.ResendOTP)
			r.Post("/api/auth/forgot-password", h.Auth.ForgotPassword)
			r.Post("/api/auth/verify-reset-otp", h.Auth.VerifyResetOTP)
			r.Post("/api/auth/reset-password", h.Auth.ResetPassword)
		})

		r.Get("/api/subscription/plans", h.Subscription.GetPlans)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret, store))

		r.Post("/api/auth/logout", h.Auth.Logout)
		r.Get("/api/auth/me", h.Auth.Me)

		// Subscription and payment stay reachable for users the gate
		// would reject.
		r.Route("/api/subscription", func(r chi.Router) {
			r.Get("/", h.Subscription.GetDetails)
			r.Get("/details", h.Subscription.GetDetails)
			r.Get("/status", h.Subscription.GetStatus)
			r.Post("/create", h.Subscription.Activate)
			r.Post("/activate", h.Subscription.Activate)
			r.Post("/cancel", h.Subscription.Cancel)
			r.Post("/payment", h.Subscription.TestPayment)
		})
		r.Post("/api/payment/test", h.Subscription.TestPayment)

		// Product surface behind the entitlement gate
		r.Group(func(r chi.Router) {
			r.Use(gate.Middleware)

			r.Route("/api/users/me", func(r chi.Router) {
				r.Get("/", h.User.GetProfile)
				r.Put("/", h.User.UpdateProfile)
				r.Delete("/", h.User.DeleteAccount)
				r.Post("/verify-password", h.User.VerifyPassword)
				r.Post("/change-password", h.User.ChangePassword)
				r.Post("/email", h.User.InitiateEmailChange)
				r.Post("/email/verify", h.User.VerifyEmailChange)
			})

			r.Route("/api/projects", func(r chi.Router) {
				r.Get("/", h.Project.List)
				r.Post("/", h.Project.Create)
				r.Get("/{id}", h.Project.Get)
				r.Put("/{id}", h.Project.Update)
				r.Delete("/{id}", h.Project.Delete)
				r.Get("/{id}/messages", h.Message.ListByProject)
			})

			r.Post("/api/messages", h.Message.Create)
			r.Post("/api/ai/generate", h.AI.Generate)
		})
	})

	return r
}
