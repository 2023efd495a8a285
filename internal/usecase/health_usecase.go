package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/goforecast/internal/domain"
	"github.com/iho/goforecast/internal/health"
)

// HealthUseCase scores financial health and derives insights and alerts.
type HealthUseCase struct {
	goalRepo   GoalRepository
	debtRepo   DebtRepository
	budgetRepo BudgetRepository
	txnRepo    CashTransactionRepository
	cache      Cache
	clock      Clock
	metrics    MetricsRecorder
	reportTTL  time.Duration
}

// NewHealthUseCase creates a new health use case. cache and metrics may be nil.
func NewHealthUseCase(
	goalRepo GoalRepository,
	debtRepo DebtRepository,
	budgetRepo BudgetRepository,
	txnRepo CashTransactionRepository,
	cache Cache,
	clock Clock,
	metrics MetricsRecorder,
) *HealthUseCase {
	return &HealthUseCase{
		goalRepo:   goalRepo,
		debtRepo:   debtRepo,
		budgetRepo: budgetRepo,
		txnRepo:    txnRepo,
		cache:      cache,
		clock:      clock,
		metrics:    metrics,
		reportTTL:  HealthReportTTL,
	}
}

// WithReportTTL returns a copy of the use case that caches reports for ttl.
func (uc *HealthUseCase) WithReportTTL(ttl time.Duration) *HealthUseCase {
	cp := *uc
	if ttl > 0 {
		cp.reportTTL = ttl
	}
	return &cp
}

// AlertsReport gathers the dashboard notices for a user.
type AlertsReport struct {
	Alerts                 []health.Alert                 `json:"alerts"`
	BudgetUsage            []health.BudgetUsage           `json:"budget_usage"`
	DebtPayoffVelocity     decimal.Decimal                `json:"debt_payoff_velocity"`
	PendingReconciliations []health.PendingReconciliation `json:"pending_reconciliations"`
}

// Score returns the user's health report for today, served from the cache
// when one was computed earlier in the day.
func (uc *HealthUseCase) Score(ctx context.Context, userID string) (report *health.Report, err error) {
	defer observe(uc.metrics, OpHealthScore, time.Now(), &err)

	today := uc.clock.Today()
	key := healthCacheKey(userID, today)

	if cached, ok := uc.cachedReport(ctx, key); ok {
		return cached, nil
	}

	snap, err := uc.LoadSnapshot(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	report = health.NewScorer(today).Score(snap)
	if uc.metrics != nil {
		uc.metrics.RecordHealthScore(report.Grade)
	}

	uc.storeReport(ctx, key, report)
	return report, nil
}

// Insights returns goal completion predictions and the spending trend alert.
func (uc *HealthUseCase) Insights(ctx context.Context, userID string) (insights []health.Insight, err error) {
	defer observe(uc.metrics, OpInsights, time.Now(), &err)

	today := uc.clock.Today()
	snap, err := uc.LoadSnapshot(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	return health.NewScorer(today).Insights(snap), nil
}

// Alerts returns proactive alerts together with budget usage, debt payoff
// velocity and the oldest projections awaiting reconciliation.
func (uc *HealthUseCase) Alerts(ctx context.Context, userID string) (report *AlertsReport, err error) {
	defer observe(uc.metrics, OpAlerts, time.Now(), &err)

	today := uc.clock.Today()
	snap, err := uc.LoadSnapshot(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	scorer := health.NewScorer(today)
	return &AlertsReport{
		Alerts:                 scorer.Alerts(snap),
		BudgetUsage:            scorer.BudgetUsage(snap),
		DebtPayoffVelocity:     scorer.DebtPayoffVelocity(snap.Debts),
		PendingReconciliations: scorer.PendingReconciliations(snap.Goals, health.DefaultPendingLimit),
	}, nil
}

// InvalidateScore drops today's cached health report for the user.
func (uc *HealthUseCase) InvalidateScore(ctx context.Context, userID string) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.Delete(ctx, healthCacheKey(userID, uc.clock.Today()))
}

// LoadSnapshot reads everything a health calculation needs concurrently.
// Transactions are loaded from the start of the month three months back, which
// covers the savings window, the consistency weeks and the spending trend.
func (uc *HealthUseCase) LoadSnapshot(ctx context.Context, userID string, today time.Time) (health.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultLoadTimeout)
	defer cancel()

	var snap health.Snapshot
	from := domain.StartOfMonth(domain.AddMonths(today, -health.TrailingMonths))
	to := domain.Date(today)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		goals, err := uc.goalRepo.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list goals: %w", err)
		}
		snap.Goals = goals
		return nil
	})
	g.Go(func() error {
		debts, err := uc.debtRepo.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list debts: %w", err)
		}
		snap.Debts = debts
		return nil
	})
	g.Go(func() error {
		budgets, err := uc.budgetRepo.ListByPeriod(gctx, userID, today.Year(), today.Month())
		if err != nil {
			return fmt.Errorf("failed to list budgets: %w", err)
		}
		snap.Budgets = budgets
		return nil
	})
	g.Go(func() error {
		txns, err := uc.txnRepo.ListByUser(gctx, userID, from, to)
		if err != nil {
			return fmt.Errorf("failed to list transactions: %w", err)
		}
		snap.Transactions = txns
		return nil
	})

	if err := g.Wait(); err != nil {
		return health.Snapshot{}, err
	}
	return snap, nil
}

func (uc *HealthUseCase) cachedReport(ctx context.Context, key string) (*health.Report, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("health cache read failed")
		}
		uc.recordCacheLookup(false)
		return nil, false
	}

	var report health.Report
	if err := json.Unmarshal(data, &report); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("discarding malformed cached health report")
		uc.recordCacheLookup(false)
		return nil, false
	}

	uc.recordCacheLookup(true)
	return &report, true
}

func (uc *HealthUseCase) storeReport(ctx context.Context, key string, report *health.Report) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to encode health report")
		return
	}

	if err := uc.cache.Set(ctx, key, data, uc.reportTTL); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("health cache write failed")
	}
}

func (uc *HealthUseCase) recordCacheLookup(hit bool) {
	if uc.metrics != nil {
		uc.metrics.RecordCacheLookup(hit)
	}
}

func healthCacheKey(userID string, today time.Time) string {
	return healthCachePrefix + userID + ":" + today.Format(time.DateOnly)
}
