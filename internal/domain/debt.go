package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDebtHorizon is how far a debt without a payoff date is simulated.
const DefaultDebtHorizon = 1 // years

// Debt represents an amount owed that the user pays down.
type Debt struct {
	ID                 string
	UserID             string
	Name               string
	InitialAmount      decimal.Decimal
	TargetPayoffDate   *time.Time
	YearlyInterestRate decimal.Decimal
	Transactions       []Transaction
	Projections        []Projection
}

// PaidAmount returns the sum of all payments made.
func (d *Debt) PaidAmount() decimal.Decimal {
	return SumTransactions(d.Transactions)
}

// RemainingBalance returns the amount still owed.
func (d *Debt) RemainingBalance() decimal.Decimal {
	return d.InitialAmount.Sub(d.PaidAmount())
}

// ProgressPercentage returns the paid amount as a percentage of the initial amount.
func (d *Debt) ProgressPercentage() decimal.Decimal {
	return Percent(d.PaidAmount(), d.InitialAmount)
}

// IsActive reports whether anything is still owed.
func (d *Debt) IsActive() bool {
	return d.RemainingBalance().IsPositive()
}

// HorizonEnd returns the target payoff date, or today plus the default horizon.
func (d *Debt) HorizonEnd(today time.Time) time.Time {
	if d.TargetPayoffDate != nil {
		return Date(*d.TargetPayoffDate)
	}
	return Date(today).AddDate(DefaultDebtHorizon, 0, 0)
}
