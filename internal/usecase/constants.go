package usecase

import "time"

const (
	// DefaultLoadTimeout bounds the repository reads behind a single calculation.
	DefaultLoadTimeout = 10 * time.Second

	// HealthReportTTL is how long a computed health report is cached. Reports
	// are keyed by day so a new day always recomputes.
	HealthReportTTL = 15 * time.Minute

	healthCachePrefix = "health:"
)

// Operation names reported to the MetricsRecorder.
const (
	OpGoalProjection   = "goal_projection"
	OpDebtProjection   = "debt_projection"
	OpGoalSeries       = "goal_series"
	OpDebtSeries       = "debt_series"
	OpGoalPreview      = "goal_preview"
	OpBudgetSuggestion = "budget_suggestion"
	OpHealthScore      = "health_score"
	OpInsights         = "insights"
	OpAlerts           = "alerts"
)
