package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxHorizonYears     = 50
	MaxProjectedBalance = "1000000000000000" // 1 quadrillion
	MinPeriodYear       = 1970
	MaxPeriodYear       = 9999
	MoneyTolerance      = "0.01"
)

var (
	maxProjectedBalance = decimal.RequireFromString(MaxProjectedBalance)
	moneyTolerance      = decimal.RequireFromString(MoneyTolerance)
)

// ValidateHorizon checks that a simulation horizon starts before it ends and
// stays inside the iteration cap.
func ValidateHorizon(start, end time.Time) error {
	start, end = Date(start), Date(end)

	if end.Before(StartOfMonth(start)) {
		return fmt.Errorf("%w: end %s precedes start %s", ErrInvalidHorizon,
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	if end.After(start.AddDate(MaxHorizonYears, 0, 0)) {
		return fmt.Errorf("%w: end %s", ErrHorizonTooLong, end.Format(time.DateOnly))
	}

	return nil
}

// ValidateBalance rejects balances the simulation cannot represent meaningfully.
func ValidateBalance(balance decimal.Decimal) error {
	if balance.Abs().GreaterThan(maxProjectedBalance) {
		return fmt.Errorf("%w: %s", ErrBalanceOutOfRange, balance.StringFixed(2))
	}

	return nil
}

// ValidatePeriod validates a budget period
func ValidatePeriod(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
	}

	if year < MinPeriodYear || year > MaxPeriodYear {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
	}

	return nil
}

// ExceedsTolerance reports whether a monetary difference is larger than one cent.
func ExceedsTolerance(diff decimal.Decimal) bool {
	return diff.Abs().GreaterThan(moneyTolerance)
}

// RoundMoney rounds a monetary value for output.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundPercent rounds a percentage or score for output.
func RoundPercent(d decimal.Decimal) decimal.Decimal {
	return d.Round(1)
}

// Percent returns part/whole*100, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}

	return part.Div(whole).Mul(decimal.NewFromInt(100))
}
