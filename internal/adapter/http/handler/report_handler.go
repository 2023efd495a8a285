package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/goforecast/internal/health"
	"github.com/iho/goforecast/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	Score(ctx context.Context, userID string) (*health.Report, error)
	Insights(ctx context.Context, userID string) ([]health.Insight, error)
	Alerts(ctx context.Context, userID string) (*usecase.AlertsReport, error)
	InvalidateScore(ctx context.Context, userID string) error
}

// ReportHandler serves the financial health score, insights and alerts.
type ReportHandler struct {
	healthUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(healthUC ReportService) *ReportHandler {
	return &ReportHandler{healthUC: healthUC}
}

// Score returns the user's financial health score.
func (h *ReportHandler) Score(w http.ResponseWriter, r *http.Request) {
	report, err := h.healthUC.Score(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeServiceError(w, r, "failed to score financial health", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// InvalidateScore drops the cached score so the next request recomputes it.
func (h *ReportHandler) InvalidateScore(w http.ResponseWriter, r *http.Request) {
	if err := h.healthUC.InvalidateScore(r.Context(), chi.URLParam(r, "userID")); err != nil {
		writeServiceError(w, r, "failed to invalidate health score", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Insights returns goal predictions and the spending trend.
func (h *ReportHandler) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.healthUC.Insights(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeServiceError(w, r, "failed to build insights", err)
		return
	}

	if insights == nil {
		insights = []health.Insight{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"insights": insights})
}

// Alerts returns deadline, schedule and budget alerts.
func (h *ReportHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	report, err := h.healthUC.Alerts(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeServiceError(w, r, "failed to build alerts", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
