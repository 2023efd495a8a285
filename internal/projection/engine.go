package projection

import (
	"iter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goforecast/internal/domain"
)

var monthsPerYear = decimal.NewFromInt(12)
var hundred = decimal.NewFromInt(100)

// Params configures one month-by-month simulation.
type Params struct {
	// StartingBalance is the balance after the variance adjustment.
	StartingBalance    decimal.Decimal
	YearlyInterestRate decimal.Decimal
	// HorizonStart is normalised to the first day of its month.
	HorizonStart time.Time
	// HorizonEnd is inclusive.
	HorizonEnd time.Time
	Direction  Direction
	// Projections may contain any status. Only planned ones are simulated.
	Projections []domain.Projection
}

// Engine simulates interest and scheduled events month by month.
type Engine struct {
	balance   decimal.Decimal
	rate      decimal.Decimal
	start     time.Time
	end       time.Time
	direction Direction
	planned   map[domain.Month]decimal.Decimal
}

// NewEngine validates the horizon and groups planned projections by month.
func NewEngine(p Params) (*Engine, error) {
	start := domain.StartOfMonth(p.HorizonStart)
	end := domain.Date(p.HorizonEnd)

	if err := domain.ValidateHorizon(start, end); err != nil {
		return nil, err
	}

	planned := make(map[domain.Month]decimal.Decimal)
	for _, proj := range p.Projections {
		if !proj.IsPlanned() {
			continue
		}
		key := domain.MonthOf(proj.Date)
		planned[key] = planned[key].Add(proj.Amount)
	}

	return &Engine{
		balance:   p.StartingBalance,
		rate:      p.YearlyInterestRate,
		start:     start,
		end:       end,
		direction: p.Direction,
		planned:   planned,
	}, nil
}

// Months returns the number of simulated months.
func (e *Engine) Months() int {
	return domain.MonthsBetween(e.start, e.end) + 1
}

// Steps yields the first day of every month in the horizon together with the
// balance at the end of that month.
func (e *Engine) Steps() iter.Seq2[time.Time, decimal.Decimal] {
	return func(yield func(time.Time, decimal.Decimal) bool) {
		balance := e.balance

		for month := e.start; !month.After(e.end); month = month.AddDate(0, 1, 0) {
			balance = e.step(month, balance)
			if !yield(month, balance) {
				return
			}
		}
	}
}

// Run simulates the full horizon and returns the final balance.
func (e *Engine) Run() (decimal.Decimal, error) {
	balance := e.balance
	for _, b := range e.Steps() {
		if err := domain.ValidateBalance(b); err != nil {
			return decimal.Zero, err
		}
		balance = b
	}
	return balance, nil
}

func (e *Engine) step(month time.Time, balance decimal.Decimal) decimal.Decimal {
	if e.rate.IsPositive() {
		interest := balance.Mul(e.rate).Div(hundred).Div(monthsPerYear)
		balance = balance.Add(interest)
	}

	if sum, ok := e.planned[domain.MonthOf(month)]; ok {
		balance = e.direction.apply(balance, sum)
	}

	return balance
}
