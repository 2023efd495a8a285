package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/goforecast/internal/adapter/http/handler"
	"github.com/iho/goforecast/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ProjectionHandler *handler.ProjectionHandler
	SuggestionHandler *handler.SuggestionHandler
	ReportHandler     *handler.ReportHandler
	HealthHandler     *handler.HealthHandler
	Logger            zerolog.Logger
	// RateLimiter throttles the API group per client. Nil disables limiting.
	RateLimiter *middleware.RateLimiter
	// MetricsHandler serves /metrics. Defaults to the global Prometheus registry.
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1/users/{userID}", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		r.Route("/goals", func(r chi.Router) {
			r.Post("/preview", cfg.ProjectionHandler.PreviewGoal)
			r.Get("/{goalID}/projection", cfg.ProjectionHandler.GoalProjection)
			r.Get("/{goalID}/series", cfg.ProjectionHandler.GoalSeries)
		})

		r.Route("/debts", func(r chi.Router) {
			r.Get("/{debtID}/projection", cfg.ProjectionHandler.DebtProjection)
			r.Get("/{debtID}/series", cfg.ProjectionHandler.DebtSeries)
		})

		r.Get("/budget-suggestions", cfg.SuggestionHandler.Suggest)
		r.Get("/health-score", cfg.ReportHandler.Score)
		r.Delete("/health-score", cfg.ReportHandler.InvalidateScore)
		r.Get("/insights", cfg.ReportHandler.Insights)
		r.Get("/alerts", cfg.ReportHandler.Alerts)
	})

	return r
}
