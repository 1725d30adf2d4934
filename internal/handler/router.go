package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/bankdemo/frontend/internal/middleware"
	"github.com/bankdemo/frontend/internal/view"
)

// RouterConfig holds everything the router mounts.
type RouterConfig struct {
	Handler  *Handler
	Health   *HealthHandler
	Metrics  *MetricsHandler
	Bank     *BankHandler
	Verifier middleware.TokenVerifier
	Logger   *slog.Logger

	IsDevelopment      bool
	MaxRequestBodySize int64
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Probes and assets (no session)
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	r.Get("/metrics", cfg.Metrics.Metrics)
	r.Handle("/static/*", view.StaticHandler())

	session := func(onDeny http.Handler) func(http.Handler) http.Handler {
		return middleware.Session(middleware.SessionConfig{
			Verifier: cfg.Verifier,
			Logger:   cfg.Logger,
			OnDeny:   onDeny,
		})
	}

	// Login page looks at the session but never requires one
	r.With(session(nil)).Get(PathLogin, cfg.Bank.LoginPage)
	r.Post("/login", cfg.Bank.Login)
	r.Post("/logout", cfg.Bank.Logout)

	// Dashboard sends anonymous users to the login page
	r.With(session(middleware.RedirectTo(PathLogin))).Get(PathHome, cfg.Bank.Home)

	// Form actions answer 401 without a session
	r.Group(func(r chi.Router) {
		r.Use(session(middleware.Unauthorized()))
		r.Post("/payment", cfg.Bank.Payment)
		r.Post("/deposit", cfg.Bank.Deposit)
	})

	// 404 and 405 handlers
	r.NotFound(cfg.Handler.NotFound)
	r.MethodNotAllowed(cfg.Handler.MethodNotAllowed)

	return r
}
