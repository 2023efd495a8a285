// Package suggestion derives monthly budget allocations for debt payments and
// goal contributions.
package suggestion

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goforecast/internal/domain"
)

// Source explains where a suggested amount came from.
type Source string

const (
	SourcePlannedProjection Source = "planned projection"
	SourceTargetDate        Source = "calculated to meet target date"
	SourceMinimumPayment    Source = "minimum payment (5%)"
)

// Category reasons.
const (
	ReasonDebts = "Based on your debt payment schedule"
	ReasonGoals = "Based on your savings goals and target dates"
)

var (
	minimumPaymentFloor = decimal.NewFromInt(50)
	minimumPaymentRate  = decimal.RequireFromString("0.05")
)

// CategoryLookup resolves a category by name and type.
type CategoryLookup interface {
	Lookup(name string, typ domain.CategoryType) (domain.Category, bool)
}

// BreakdownItem is one debt's or goal's share of a suggestion.
type BreakdownItem struct {
	EntityID string          `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	// RemainingBalance is the amount still owed on a debt or still needed for a goal.
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	// ProgressPercentage is only set for goals.
	ProgressPercentage *decimal.Decimal `json:"progress_percentage,omitempty"`
	Source             Source           `json:"source"`
}

// Suggestion is the suggested allocation for one category.
type Suggestion struct {
	CategoryID      string          `json:"category_id"`
	Category        string          `json:"category"`
	SuggestedAmount decimal.Decimal `json:"suggested_amount"`
	Reason          string          `json:"reason"`
	Breakdown       []BreakdownItem `json:"breakdown"`
}

// Summary aggregates all suggestions for a period.
type Summary struct {
	TotalDebtPayments      decimal.Decimal `json:"total_debt_payments"`
	TotalGoalContributions decimal.Decimal `json:"total_goal_contributions"`
	TotalSuggested         decimal.Decimal `json:"total_suggested"`
	DebtCount              int             `json:"debt_count"`
	GoalCount              int             `json:"goal_count"`
	HasSuggestions         bool            `json:"has_suggestions"`
}

// Report maps category names to suggestions.
type Report struct {
	Year        int                   `json:"year"`
	Month       time.Month            `json:"month"`
	Suggestions map[string]Suggestion `json:"suggestions"`
	Summary     Summary               `json:"summary"`
}

// Engine computes budget suggestions for one period.
type Engine struct {
	categories CategoryLookup
}

// NewEngine creates a new Engine.
func NewEngine(categories CategoryLookup) *Engine {
	return &Engine{categories: categories}
}

// Suggest builds the suggestion report for the given year and month.
func (e *Engine) Suggest(year, month int, debts []domain.Debt, goals []domain.Goal) (*Report, error) {
	if err := domain.ValidatePeriod(year, month); err != nil {
		return nil, err
	}

	period := domain.Month{Year: year, Month: time.Month(month)}
	report := &Report{
		Year:        year,
		Month:       period.Month,
		Suggestions: make(map[string]Suggestion),
		Summary: Summary{
			TotalDebtPayments:      decimal.Zero,
			TotalGoalContributions: decimal.Zero,
			TotalSuggested:         decimal.Zero,
		},
	}

	if cat, ok := e.categories.Lookup(domain.CategoryLoans, domain.CategoryTypeExpense); ok {
		total, breakdown := debtSuggestions(period, debts)
		if total.IsPositive() {
			report.Suggestions[cat.Name] = newSuggestion(cat, total, ReasonDebts, breakdown)
			report.Summary.TotalDebtPayments = domain.RoundMoney(total)
			report.Summary.DebtCount = len(breakdown)
		}
	}

	if cat, ok := e.categories.Lookup(domain.CategorySavings, domain.CategoryTypeExpense); ok {
		total, breakdown := goalSuggestions(period, goals)
		if total.IsPositive() {
			report.Suggestions[cat.Name] = newSuggestion(cat, total, ReasonGoals, breakdown)
			report.Summary.TotalGoalContributions = domain.RoundMoney(total)
			report.Summary.GoalCount = len(breakdown)
		}
	}

	report.Summary.TotalSuggested = report.Summary.TotalDebtPayments.Add(report.Summary.TotalGoalContributions)
	report.Summary.HasSuggestions = report.Summary.TotalSuggested.IsPositive()

	return report, nil
}

func newSuggestion(cat domain.Category, total decimal.Decimal, reason string, breakdown []BreakdownItem) Suggestion {
	return Suggestion{
		CategoryID:      cat.ID,
		Category:        cat.Name,
		SuggestedAmount: domain.RoundMoney(total),
		Reason:          reason,
		Breakdown:       breakdown,
	}
}

// monthsRemaining counts whole months from the period start to target, at least one.
func monthsRemaining(period domain.Month, target time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(max(1, domain.MonthsBetween(period.Start(), target))))
}

func debtSuggestions(period domain.Month, debts []domain.Debt) (decimal.Decimal, []BreakdownItem) {
	total := decimal.Zero
	var breakdown []BreakdownItem

	for i := range debts {
		debt := &debts[i]
		remaining := debt.RemainingBalance()
		if !remaining.IsPositive() {
			continue
		}

		var amount decimal.Decimal
		var source Source

		if planned := domain.PlannedIn(debt.Projections, period); len(planned) > 0 {
			amount = domain.SumProjections(planned)
			source = SourcePlannedProjection
		} else if debt.TargetPayoffDate != nil {
			amount = remaining.Div(monthsRemaining(period, *debt.TargetPayoffDate))
			source = SourceTargetDate
		} else {
			amount = decimal.Max(minimumPaymentFloor, remaining.Mul(minimumPaymentRate))
			source = SourceMinimumPayment
		}

		total = total.Add(amount)
		if amount.IsPositive() {
			breakdown = append(breakdown, BreakdownItem{
				EntityID:         debt.ID,
				Name:             debt.Name,
				Amount:           domain.RoundMoney(amount),
				RemainingBalance: domain.RoundMoney(remaining),
				Source:           source,
			})
		}
	}

	return total, breakdown
}

func goalSuggestions(period domain.Month, goals []domain.Goal) (decimal.Decimal, []BreakdownItem) {
	total := decimal.Zero
	var breakdown []BreakdownItem

	for i := range goals {
		goal := &goals[i]
		if goal.IsComplete() {
			continue
		}

		var amount decimal.Decimal
		var source Source

		if planned := domain.PlannedIn(goal.Projections, period); len(planned) > 0 {
			amount = domain.SumProjections(planned)
			source = SourcePlannedProjection
		} else {
			amount = decimal.Max(decimal.Zero, goal.RemainingAmount().Div(monthsRemaining(period, goal.TargetDate)))
			source = SourceTargetDate
		}

		total = total.Add(amount)
		if amount.IsPositive() {
			progress := domain.RoundPercent(goal.ProgressPercentage())
			breakdown = append(breakdown, BreakdownItem{
				EntityID:           goal.ID,
				Name:               goal.Name,
				Amount:             domain.RoundMoney(amount),
				RemainingBalance:   domain.RoundMoney(goal.RemainingAmount()),
				ProgressPercentage: &progress,
				Source:             source,
			})
		}
	}

	return total, breakdown
}
