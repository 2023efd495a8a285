package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectionStatus represents the lifecycle state of a scheduled event.
type ProjectionStatus string

const (
	ProjectionStatusPlanned    ProjectionStatus = "planned"
	ProjectionStatusReconciled ProjectionStatus = "reconciled"
	ProjectionStatusMissed     ProjectionStatus = "missed"
)

// IsValid reports whether s is a known status.
func (s ProjectionStatus) IsValid() bool {
	switch s {
	case ProjectionStatusPlanned, ProjectionStatusReconciled, ProjectionStatusMissed:
		return true
	}
	return false
}

// Projection is a scheduled future financial event attached to a goal or debt.
//
// Amount is signed. For goals a positive amount is a contribution and a
// negative amount a withdrawal. For debts a positive amount is a payment and a
// negative amount an additional charge.
type Projection struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Status      ProjectionStatus
}

// IsPlanned reports whether the projection has not been settled yet.
func (p Projection) IsPlanned() bool {
	return p.Status == ProjectionStatusPlanned
}

// Transaction is an actual money movement on a goal or debt.
type Transaction struct {
	ID                  string
	Amount              decimal.Decimal
	Date                time.Time
	PlannedProjectionID *string
}

// Fulfills reports whether the transaction is linked to the given projection.
func (t Transaction) Fulfills(projectionID string) bool {
	return t.PlannedProjectionID != nil && *t.PlannedProjectionID == projectionID
}

// SumTransactions returns the total of all transaction amounts.
func SumTransactions(txns []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return total
}

// SumTransactionsIn returns the total of transaction amounts dated within [from, to].
func SumTransactionsIn(txns []Transaction, from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		d := Date(t.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total
}

// PlannedIn returns the planned projections falling in the given month.
func PlannedIn(projections []Projection, month Month) []Projection {
	var out []Projection
	for _, p := range projections {
		if p.IsPlanned() && month.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out
}

// SumProjections returns the total of projection amounts.
func SumProjections(projections []Projection) decimal.Decimal {
	total := decimal.Zero
	for _, p := range projections {
		total = total.Add(p.Amount)
	}
	return total
}
