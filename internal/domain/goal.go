package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal represents a savings target the user accumulates toward.
type Goal struct {
	ID                 string
	UserID             string
	Name               string
	TargetAmount       decimal.Decimal
	TargetDate         time.Time
	YearlyInterestRate decimal.Decimal
	Transactions       []Transaction
	Projections        []Projection
}

// CurrentBalance returns the sum of all contributions and withdrawals.
func (g *Goal) CurrentBalance() decimal.Decimal {
	return SumTransactions(g.Transactions)
}

// RemainingAmount returns how much is still needed to reach the target.
func (g *Goal) RemainingAmount() decimal.Decimal {
	return g.TargetAmount.Sub(g.CurrentBalance())
}

// ProgressPercentage returns current balance as a percentage of the target.
func (g *Goal) ProgressPercentage() decimal.Decimal {
	return Percent(g.CurrentBalance(), g.TargetAmount)
}

// IsComplete reports whether the goal has reached its target.
func (g *Goal) IsComplete() bool {
	return g.CurrentBalance().GreaterThanOrEqual(g.TargetAmount)
}
