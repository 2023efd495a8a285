package projection

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goforecast/internal/domain"
)

// LabelFormat is the month label layout used by monthly series.
const LabelFormat = "Jan 2006"

// Result is the scalar outcome of a goal or debt projection.
type Result struct {
	ProjectedBalance decimal.Decimal `json:"projected_balance"`
	IsOnTrack        bool            `json:"is_on_track"`
	Shortfall        decimal.Decimal `json:"shortfall"`
	// CurrentBalance is the balance before the variance adjustment.
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	AnalysisMessage string          `json:"analysis_message,omitempty"`
	Variance        VarianceReport  `json:"variance"`
}

// DebtResult extends Result with debt payoff figures.
type DebtResult struct {
	Result

	RemainingDebt      decimal.Decimal `json:"remaining_debt"`
	PaidOffAmount      decimal.Decimal `json:"paid_off_amount"`
	ProgressPercentage decimal.Decimal `json:"progress_percentage"`
}

// Series is a labelled month-by-month balance sequence.
type Series struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}

// Last returns the final value of the series, or zero when empty.
func (s *Series) Last() decimal.Decimal {
	if len(s.Values) == 0 {
		return decimal.Zero
	}
	return s.Values[len(s.Values)-1]
}

// GoalProjector projects goal balances as of a fixed day.
type GoalProjector struct {
	today time.Time
}

// NewGoalProjector creates a new GoalProjector.
func NewGoalProjector(today time.Time) *GoalProjector {
	return &GoalProjector{today: domain.Date(today)}
}

func (p *GoalProjector) engine(goal *domain.Goal) (*Engine, VarianceReport, error) {
	variance := AnalyzeVariance(goal.Projections, goal.Transactions, Accumulate, p.today)

	engine, err := NewEngine(Params{
		StartingBalance:    variance.Adjust(goal.CurrentBalance()),
		YearlyInterestRate: goal.YearlyInterestRate,
		HorizonStart:       p.today,
		HorizonEnd:         goal.TargetDate,
		Direction:          Accumulate,
		Projections:        goal.Projections,
	})
	if err != nil {
		return nil, variance, fmt.Errorf("goal %s: %w", goal.ID, err)
	}

	return engine, variance, nil
}

// Calculate simulates the goal through its target date.
func (p *GoalProjector) Calculate(goal *domain.Goal) (*Result, error) {
	engine, variance, err := p.engine(goal)
	if err != nil {
		return nil, err
	}

	projected, err := engine.Run()
	if err != nil {
		return nil, fmt.Errorf("goal %s: %w", goal.ID, err)
	}

	onTrack := projected.GreaterThanOrEqual(goal.TargetAmount)
	shortfall := decimal.Zero
	if !onTrack {
		shortfall = goal.TargetAmount.Sub(projected)
	}

	result := &Result{
		ProjectedBalance: domain.RoundMoney(projected),
		IsOnTrack:        onTrack,
		Shortfall:        domain.RoundMoney(shortfall),
		CurrentBalance:   domain.RoundMoney(goal.CurrentBalance()),
		Variance:         variance,
	}
	if !onTrack {
		result.AnalysisMessage = analysisMessage("This goal may be off track", variance)
	}

	return result, nil
}

// Points returns a lazy sequence of month labels and balances.
func (p *GoalProjector) Points(goal *domain.Goal) (iter.Seq2[string, decimal.Decimal], error) {
	engine, _, err := p.engine(goal)
	if err != nil {
		return nil, err
	}
	return labelled(engine.Steps()), nil
}

// MonthlySeries collects the goal's monthly balances.
func (p *GoalProjector) MonthlySeries(goal *domain.Goal) (*Series, error) {
	points, err := p.Points(goal)
	if err != nil {
		return nil, err
	}
	return collect(points)
}

// DebtProjector projects debt balances as of a fixed day.
type DebtProjector struct {
	today time.Time
}

// NewDebtProjector creates a new DebtProjector.
func NewDebtProjector(today time.Time) *DebtProjector {
	return &DebtProjector{today: domain.Date(today)}
}

func (p *DebtProjector) engine(debt *domain.Debt) (*Engine, VarianceReport, error) {
	variance := AnalyzeVariance(debt.Projections, debt.Transactions, Reduce, p.today)

	engine, err := NewEngine(Params{
		StartingBalance:    variance.Adjust(debt.RemainingBalance()),
		YearlyInterestRate: debt.YearlyInterestRate,
		HorizonStart:       p.today,
		HorizonEnd:         debt.HorizonEnd(p.today),
		Direction:          Reduce,
		Projections:        debt.Projections,
	})
	if err != nil {
		return nil, variance, fmt.Errorf("debt %s: %w", debt.ID, err)
	}

	return engine, variance, nil
}

// Calculate simulates the debt through its payoff horizon.
func (p *DebtProjector) Calculate(debt *domain.Debt) (*DebtResult, error) {
	engine, variance, err := p.engine(debt)
	if err != nil {
		return nil, err
	}

	projected, err := engine.Run()
	if err != nil {
		return nil, fmt.Errorf("debt %s: %w", debt.ID, err)
	}

	onTrack := !projected.IsPositive()
	shortfall := decimal.Zero
	remaining := decimal.Zero
	if !onTrack {
		shortfall = projected
		remaining = projected
	}

	current := debt.RemainingBalance()
	result := &DebtResult{
		Result: Result{
			ProjectedBalance: domain.RoundMoney(projected),
			IsOnTrack:        onTrack,
			Shortfall:        domain.RoundMoney(shortfall),
			CurrentBalance:   domain.RoundMoney(current),
			Variance:         variance,
		},
		RemainingDebt:      domain.RoundMoney(remaining),
		PaidOffAmount:      domain.RoundMoney(debt.InitialAmount.Sub(current)),
		ProgressPercentage: domain.RoundPercent(debt.ProgressPercentage()),
	}
	if !onTrack {
		result.AnalysisMessage = analysisMessage("This debt payoff may be behind schedule", variance)
	}

	return result, nil
}

// Points returns a lazy sequence of month labels and balances.
func (p *DebtProjector) Points(debt *domain.Debt) (iter.Seq2[string, decimal.Decimal], error) {
	engine, _, err := p.engine(debt)
	if err != nil {
		return nil, err
	}
	return labelled(engine.Steps()), nil
}

// MonthlySeries collects the debt's monthly balances.
func (p *DebtProjector) MonthlySeries(debt *domain.Debt) (*Series, error) {
	points, err := p.Points(debt)
	if err != nil {
		return nil, err
	}
	return collect(points)
}

func labelled(steps iter.Seq2[time.Time, decimal.Decimal]) iter.Seq2[string, decimal.Decimal] {
	return func(yield func(string, decimal.Decimal) bool) {
		for month, balance := range steps {
			if !yield(month.Format(LabelFormat), balance) {
				return
			}
		}
	}
}

func collect(points iter.Seq2[string, decimal.Decimal]) (*Series, error) {
	series := &Series{}
	for label, balance := range points {
		if err := domain.ValidateBalance(balance); err != nil {
			return nil, err
		}
		series.Labels = append(series.Labels, label)
		series.Values = append(series.Values, domain.RoundMoney(balance))
	}
	return series, nil
}

// analysisMessage explains an off-track result by the past events behind it.
// It returns an empty string when no past event contributed.
func analysisMessage(prefix string, variance VarianceReport) string {
	if variance.Reasons.IsEmpty() {
		return ""
	}

	var parts []string
	if n := variance.Reasons.MissedCount; n > 0 {
		parts = append(parts, fmt.Sprintf("missing %d scheduled payment(s)", n))
	}
	if n := variance.Reasons.ShortfallCount; n > 0 {
		parts = append(parts, fmt.Sprintf("having %d payment(s) reconciled for less than planned", n))
	}

	return fmt.Sprintf("%s due to %s. The total shortfall from past events is %s.",
		prefix, strings.Join(parts, " and "), variance.Variance.Abs().StringFixed(2))
}
