package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/goforecast/internal/domain"
)

// GoalRepository defines data access for goals. Goals are returned with their
// transactions and projections loaded.
type GoalRepository interface {
	GetByID(ctx context.Context, userID, goalID string) (*domain.Goal, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Goal, error)
}

// DebtRepository defines data access for debts. Debts are returned with their
// transactions and projections loaded.
type DebtRepository interface {
	GetByID(ctx context.Context, userID, debtID string) (*domain.Debt, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Debt, error)
}

// BudgetRepository defines data access for monthly budgets.
type BudgetRepository interface {
	ListByPeriod(ctx context.Context, userID string, year int, month time.Month) ([]domain.Budget, error)
}

// CashTransactionRepository defines data access for categorized account transactions.
type CashTransactionRepository interface {
	// ListByUser returns transactions dated within [from, to], both inclusive.
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.CashTransaction, error)
}

// CategoryRepository defines data access for the categories visible to a user.
type CategoryRepository interface {
	ListByUser(ctx context.Context, userID string) (domain.Categories, error)
}

// Clock supplies the current day.
type Clock interface {
	Today() time.Time
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MetricsRecorder receives forecasting measurements.
type MetricsRecorder interface {
	ObserveCalculation(operation string, duration time.Duration, err error)
	RecordProjection(kind string, onTrack bool)
	RecordHealthScore(grade string)
	RecordCacheLookup(hit bool)
}
