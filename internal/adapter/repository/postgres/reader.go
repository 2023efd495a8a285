package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Querier is the read side of a pgx connection or pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// QueryObserver receives per-table query timings.
type QueryObserver interface {
	ObserveQuery(table string, duration time.Duration, err error)
}

// Reader runs retried, observed read queries. All repositories share one.
type Reader struct {
	db       Querier
	retrier  *Retrier
	observer QueryObserver
}

// NewReader creates a new Reader. observer may be nil.
func NewReader(db Querier, retrier *Retrier, observer QueryObserver) *Reader {
	if retrier == nil {
		retrier = NewRetrier()
	}
	return &Reader{db: db, retrier: retrier, observer: observer}
}

// queryAll runs sql and collects every row with scan, retrying transient failures.
func queryAll[T any](ctx context.Context, r *Reader, table, sql string, scan pgx.RowToFunc[T], args ...any) ([]T, error) {
	var out []T

	err := r.retrier.Retry(ctx, func() error {
		start := time.Now()

		rows, err := r.db.Query(ctx, sql, args...)
		if err == nil {
			out, err = pgx.CollectRows(rows, scan)
		}

		if r.observer != nil {
			r.observer.ObserveQuery(table, time.Since(start), err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}

	return out, nil
}

func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}

	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Zero, fmt.Errorf("numeric value is not finite")
	}

	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

func dateToTime(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	y, m, day := d.Time.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func timeToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}
