package projection

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goforecast/internal/domain"
)

// Direction selects how scheduled amounts move a simulated balance.
type Direction int

const (
	// Accumulate is used for goals: scheduled amounts grow the balance.
	Accumulate Direction = iota
	// Reduce is used for debts: scheduled amounts pay the balance down.
	Reduce
)

func (d Direction) String() string {
	if d == Reduce {
		return "reduce"
	}
	return "accumulate"
}

// apply moves balance by amount in the direction's sense.
func (d Direction) apply(balance, amount decimal.Decimal) decimal.Decimal {
	if d == Reduce {
		return balance.Sub(amount)
	}
	return balance.Add(amount)
}

// Reasons tallies the past events that contributed to a variance.
type Reasons struct {
	MissedCount    int `json:"missed_count"`
	ShortfallCount int `json:"shortfall_count"`
}

// IsEmpty reports whether no past event contributed to the variance.
func (r Reasons) IsEmpty() bool {
	return r.MissedCount == 0 && r.ShortfallCount == 0
}

// Anomaly is a reconciled projection that has no linked transaction.
// It is counted as an actual amount of zero.
type Anomaly struct {
	ProjectionID  string          `json:"projection_id"`
	Date          time.Time       `json:"date"`
	PlannedAmount decimal.Decimal `json:"planned_amount"`
}

// VarianceReport is the outcome of reconciling past scheduled events against actuals.
type VarianceReport struct {
	Variance  decimal.Decimal `json:"variance"`
	Reasons   Reasons         `json:"reasons"`
	Anomalies []Anomaly       `json:"anomalies,omitempty"`

	direction Direction
}

// Adjust applies the variance once to a starting balance.
// Goals lose the variance, debts gain it.
func (r VarianceReport) Adjust(balance decimal.Decimal) decimal.Decimal {
	if r.direction == Reduce {
		return balance.Add(r.Variance)
	}
	return balance.Sub(r.Variance)
}

// AnalyzeVariance reconciles the projections dated before today that are no
// longer planned against the entity's transactions.
//
// A missed projection contributes its full amount. A reconciled projection
// contributes the difference between planned and actual when it exceeds one
// cent. Goals accumulate contributions positively, debts negatively.
func AnalyzeVariance(
	projections []domain.Projection,
	transactions []domain.Transaction,
	direction Direction,
	today time.Time,
) VarianceReport {
	today = domain.Date(today)
	report := VarianceReport{Variance: decimal.Zero, direction: direction}

	for _, p := range projections {
		if p.IsPlanned() || !domain.Date(p.Date).Before(today) {
			continue
		}

		switch p.Status {
		case domain.ProjectionStatusMissed:
			report.accumulate(p.Amount)
			report.Reasons.MissedCount++

		case domain.ProjectionStatusReconciled:
			actual, found := linkedAmount(transactions, p.ID)
			if !found {
				report.Anomalies = append(report.Anomalies, Anomaly{
					ProjectionID:  p.ID,
					Date:          domain.Date(p.Date),
					PlannedAmount: p.Amount,
				})
			}

			diff := p.Amount.Sub(actual)
			if domain.ExceedsTolerance(diff) {
				report.accumulate(diff)
				report.Reasons.ShortfallCount++
			}
		}
	}

	return report
}

func (r *VarianceReport) accumulate(amount decimal.Decimal) {
	if r.direction == Reduce {
		r.Variance = r.Variance.Sub(amount)
		return
	}
	r.Variance = r.Variance.Add(amount)
}

// linkedAmount returns the amount of the first transaction fulfilling the projection.
func linkedAmount(transactions []domain.Transaction, projectionID string) (decimal.Decimal, bool) {
	for _, t := range transactions {
		if t.Fulfills(projectionID) {
			return t.Amount, true
		}
	}
	return decimal.Zero, false
}
