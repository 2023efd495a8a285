package health

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goforecast/internal/domain"
)

// Insight types.
const (
	InsightGoalPrediction = "goal_prediction"
	InsightSpendingTrend  = "spending_trend"
)

// Spending trends.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

const (
	paceMonths      = 6
	trendMonths     = 3
	trendThreshold  = 15
	predictedLayout = "Jan 2006"
)

// GoalPrediction estimates when a goal will be reached at the recent pace.
type GoalPrediction struct {
	GoalID          string          `json:"goal_id"`
	CurrentPace     decimal.Decimal `json:"current_pace"`
	MonthsRemaining int             `json:"months_remaining"`
	PredictedDate   time.Time       `json:"predicted_date"`
}

// SpendingTrend compares expenses over the last calendar months.
type SpendingTrend struct {
	Trend         string          `json:"trend"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Message       string          `json:"message"`
	// MonthlyTotals runs oldest to newest.
	MonthlyTotals []decimal.Decimal `json:"monthly_totals"`
}

// Insight is a forward-looking observation about the user's finances.
type Insight struct {
	Type       string          `json:"type"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	Prediction *GoalPrediction `json:"prediction,omitempty"`
	Trend      *SpendingTrend  `json:"trend,omitempty"`
}

// Insights returns goal completion predictions followed by a spending trend
// alert when spending is not stable.
func (s *Scorer) Insights(snap Snapshot) []Insight {
	var insights []Insight

	for i := range snap.Goals {
		goal := &snap.Goals[i]
		prediction, ok := s.PredictGoal(goal)
		if !ok {
			continue
		}
		insights = append(insights, Insight{
			Type:  InsightGoalPrediction,
			Title: "Goal: " + goal.Name,
			Message: fmt.Sprintf("At your current pace of %s/month, you'll reach this goal by %s",
				prediction.CurrentPace.StringFixed(2), prediction.PredictedDate.Format(predictedLayout)),
			Prediction: prediction,
		})
	}

	trend := s.SpendingTrend(snap.Transactions)
	if trend.Trend != TrendStable {
		insights = append(insights, Insight{
			Type:    InsightSpendingTrend,
			Title:   "Spending Pattern Alert",
			Message: trend.Message,
			Trend:   &trend,
		})
	}

	return insights
}

// GoalPace averages the goal's contributions over the last complete months,
// ignoring months without a positive total.
func (s *Scorer) GoalPace(goal *domain.Goal) decimal.Decimal {
	var totals []decimal.Decimal
	for i := 1; i <= paceMonths; i++ {
		month := domain.StartOfMonth(domain.AddMonths(s.today, -i))
		total := domain.SumTransactionsIn(goal.Transactions, month, domain.EndOfMonth(month))
		if total.IsPositive() {
			totals = append(totals, total)
		}
	}
	return average(totals)
}

// PredictGoal estimates the completion date of an incomplete goal. It reports
// false when the goal is complete or has no recent pace.
func (s *Scorer) PredictGoal(goal *domain.Goal) (*GoalPrediction, bool) {
	remaining := goal.RemainingAmount()
	if !remaining.IsPositive() {
		return nil, false
	}

	pace := s.GoalPace(goal)
	if !pace.IsPositive() {
		return nil, false
	}

	months := int(remaining.Div(pace).Ceil().IntPart())

	return &GoalPrediction{
		GoalID:          goal.ID,
		CurrentPace:     domain.RoundMoney(pace),
		MonthsRemaining: months,
		PredictedDate:   domain.AddMonths(s.today, months),
	}, true
}

// SpendingTrend compares the expense totals of the current month and the two
// before it.
func (s *Scorer) SpendingTrend(txns []domain.CashTransaction) SpendingTrend {
	totals := make([]decimal.Decimal, trendMonths)
	for i := range trendMonths {
		month := domain.MonthOf(domain.AddMonths(s.today, -i))
		total := decimal.Zero
		for _, t := range txns {
			if t.CategoryType == domain.CategoryTypeExpense && month.Contains(t.Date) {
				total = total.Add(t.Amount)
			}
		}
		totals[trendMonths-1-i] = total.Abs()
	}

	oldest, newest := totals[0], totals[trendMonths-1]
	raw := domain.Percent(newest.Sub(oldest), oldest)
	change := domain.RoundPercent(raw)

	trend := SpendingTrend{
		Trend:         TrendStable,
		ChangePercent: change,
		Message:       "Your spending patterns are stable.",
		MonthlyTotals: totals,
	}

	switch {
	case raw.GreaterThan(decimal.NewFromInt(trendThreshold)):
		trend.Trend = TrendIncreasing
		trend.Message = fmt.Sprintf("Your spending has increased by %s%% over the last 3 months. "+
			"Consider reviewing your budget.", change.String())
	case raw.LessThan(decimal.NewFromInt(-trendThreshold)):
		trend.Trend = TrendDecreasing
		trend.Message = fmt.Sprintf("Great job! Your spending has decreased by %s%% over the last 3 months.",
			change.Abs().String())
	}

	return trend
}
