// Package health scores a user's financial health and derives predictive
// insights and alerts from a point-in-time snapshot.
package health

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goforecast/internal/domain"
)

// Factor names.
const (
	FactorSavingsRate     = "savings_rate"
	FactorBudgetAdherence = "budget_adherence"
	FactorGoalProgress    = "goal_progress"
	FactorDebtProgress    = "debt_progress"
	FactorConsistency     = "consistency"
)

// Scoring constants
const (
	TrailingMonths    = 3
	ConsistencyWeeks  = 12
	MaxScore          = 100
	savingsTargetRate = 20 // percent of income that earns the full savings score
)

var (
	hundred = decimal.NewFromInt(100)

	neutralGoalProgress = decimal.NewFromInt(50)
	noDebtProgress      = hundred
)

// Snapshot is the read-only data one health calculation works on.
type Snapshot struct {
	Goals        []domain.Goal
	Debts        []domain.Debt
	Budgets      []domain.Budget
	Transactions []domain.CashTransaction
}

// Factor is one weighted component of the health score.
type Factor struct {
	Value       decimal.Decimal `json:"value"`
	Score       decimal.Decimal `json:"score"`
	MaxScore    int             `json:"max_score"`
	Description string          `json:"description"`
}

// Report is the outcome of a health score calculation.
type Report struct {
	TotalScore      decimal.Decimal   `json:"total_score"`
	MaxScore        int               `json:"max_score"`
	Grade           string            `json:"grade"`
	Factors         map[string]Factor `json:"factors"`
	Recommendations []string          `json:"recommendations"`
}

// Scorer computes health reports as of a fixed day.
type Scorer struct {
	today time.Time
}

// NewScorer creates a new Scorer.
func NewScorer(today time.Time) *Scorer {
	return &Scorer{today: domain.Date(today)}
}

// WindowStart returns the first day of the trailing window used for income and expenses.
func (s *Scorer) WindowStart() time.Time {
	return domain.AddMonths(s.today, -TrailingMonths)
}

type weightedFactor struct {
	name        string
	weight      int
	description string
	value       func(*Scorer, Snapshot) decimal.Decimal
	score       func(value decimal.Decimal, weight int) decimal.Decimal
}

var factors = []weightedFactor{
	{FactorSavingsRate, 30, "Percentage of income saved", (*Scorer).savingsRate, savingsScore},
	{FactorBudgetAdherence, 25, "How well you stick to your budgets", (*Scorer).budgetAdherence, proportionalScore},
	{FactorGoalProgress, 20, "Average progress toward your goals", (*Scorer).goalProgress, proportionalScore},
	{FactorDebtProgress, 15, "Progress in reducing debts", (*Scorer).debtProgress, proportionalScore},
	{FactorConsistency, 10, "Regularity of financial tracking", (*Scorer).consistency, proportionalScore},
}

// Score computes the weighted health score for the snapshot.
func (s *Scorer) Score(snap Snapshot) *Report {
	report := &Report{
		MaxScore: MaxScore,
		Factors:  make(map[string]Factor, len(factors)),
	}

	total := decimal.Zero
	for _, f := range factors {
		value := f.value(s, snap)
		score := f.score(value, f.weight)
		total = total.Add(score)

		report.Factors[f.name] = Factor{
			Value:       domain.RoundPercent(value),
			Score:       domain.RoundPercent(score),
			MaxScore:    f.weight,
			Description: f.description,
		}
	}

	report.TotalScore = domain.RoundPercent(total)
	report.Grade = Grade(total)
	report.Recommendations = recommendations(report.Factors)

	return report
}

// savingsScore awards the full weight at the target savings rate and nothing
// for a negative rate.
func savingsScore(rate decimal.Decimal, weight int) decimal.Decimal {
	w := decimal.NewFromInt(int64(weight))
	score := rate.Div(decimal.NewFromInt(savingsTargetRate)).Mul(w)
	return clamp(score, decimal.Zero, w)
}

func proportionalScore(value decimal.Decimal, weight int) decimal.Decimal {
	w := decimal.NewFromInt(int64(weight))
	return clamp(value.Div(hundred).Mul(w), decimal.Zero, w)
}

func (s *Scorer) savingsRate(snap Snapshot) decimal.Decimal {
	income, expenses := decimal.Zero, decimal.Zero
	start := s.WindowStart()

	for _, t := range snap.Transactions {
		d := domain.Date(t.Date)
		if d.Before(start) || d.After(s.today) {
			continue
		}
		switch t.CategoryType {
		case domain.CategoryTypeIncome:
			income = income.Add(t.Amount)
		case domain.CategoryTypeExpense:
			expenses = expenses.Add(t.Amount)
		}
	}

	return domain.Percent(income.Sub(expenses.Abs()), income)
}

func (s *Scorer) budgetAdherence(snap Snapshot) decimal.Decimal {
	month := domain.MonthOf(s.today)

	var scores []decimal.Decimal
	for _, b := range snap.Budgets {
		if b.Period() != month {
			continue
		}
		spent := categorySpend(snap.Transactions, b.CategoryID, month)
		scores = append(scores, adherence(spent, b.Amount))
	}

	if len(scores) == 0 {
		return decimal.Zero
	}
	return average(scores)
}

// adherence is 100 when spending stays within the budget and drops by the
// overage percentage otherwise, never below zero.
func adherence(spent, budget decimal.Decimal) decimal.Decimal {
	if !budget.IsPositive() {
		return hundred
	}

	overage := spent.Sub(budget)
	if !overage.IsPositive() {
		return hundred
	}

	return decimal.Max(decimal.Zero, hundred.Sub(domain.Percent(overage, budget)))
}

func (s *Scorer) goalProgress(snap Snapshot) decimal.Decimal {
	if len(snap.Goals) == 0 {
		return neutralGoalProgress
	}

	scores := make([]decimal.Decimal, 0, len(snap.Goals))
	for i := range snap.Goals {
		scores = append(scores, clamp(snap.Goals[i].ProgressPercentage(), decimal.Zero, hundred))
	}
	return average(scores)
}

func (s *Scorer) debtProgress(snap Snapshot) decimal.Decimal {
	if len(snap.Debts) == 0 {
		return noDebtProgress
	}

	scores := make([]decimal.Decimal, 0, len(snap.Debts))
	for i := range snap.Debts {
		scores = append(scores, clamp(snap.Debts[i].ProgressPercentage(), decimal.Zero, hundred))
	}
	return average(scores)
}

// consistency is the share of the trailing weeks, Monday to Sunday, that
// contain at least one transaction.
func (s *Scorer) consistency(snap Snapshot) decimal.Decimal {
	active := 0
	for i := range ConsistencyWeeks {
		start := domain.StartOfWeek(s.today.AddDate(0, 0, -7*i))
		end := start.AddDate(0, 0, 6)

		for _, t := range snap.Transactions {
			d := domain.Date(t.Date)
			if !d.Before(start) && !d.After(end) {
				active++
				break
			}
		}
	}

	return decimal.NewFromInt(int64(active)).Div(decimal.NewFromInt(ConsistencyWeeks)).Mul(hundred)
}

// categorySpend returns the absolute total of a category's transactions in a month.
func categorySpend(txns []domain.CashTransaction, categoryID string, month domain.Month) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.CategoryID == categoryID && month.Contains(t.Date) {
			total = total.Add(t.Amount)
		}
	}
	return total.Abs()
}

var grades = []struct {
	min   int64
	grade string
}{
	{90, "A+"}, {85, "A"}, {80, "A-"},
	{75, "B+"}, {70, "B"}, {65, "B-"},
	{60, "C+"}, {55, "C"}, {50, "C-"},
	{45, "D+"}, {40, "D"},
}

// Grade maps a score to a letter grade.
func Grade(score decimal.Decimal) string {
	for _, g := range grades {
		if score.GreaterThanOrEqual(decimal.NewFromInt(g.min)) {
			return g.grade
		}
	}
	return "F"
}

// Recommendation messages.
const (
	RecommendSavings     = "Increase your savings rate. Aim for at least 10% of your income."
	RecommendBudgets     = "Focus on sticking to your budgets. Consider adjusting unrealistic budget amounts."
	RecommendGoals       = "Review your goals. Consider breaking large goals into smaller, achievable milestones."
	RecommendConsistency = "Track transactions more regularly. Consistency leads to better financial awareness."
	RecommendKeepGoing   = "Great job! Your financial health looks excellent. Keep up the good work!"
)

var triggers = []struct {
	factor    string
	threshold int64
	message   string
}{
	{FactorSavingsRate, 10, RecommendSavings},
	{FactorBudgetAdherence, 70, RecommendBudgets},
	{FactorGoalProgress, 50, RecommendGoals},
	{FactorConsistency, 80, RecommendConsistency},
}

func recommendations(factors map[string]Factor) []string {
	var out []string
	for _, tr := range triggers {
		if factors[tr.factor].Value.LessThan(decimal.NewFromInt(tr.threshold)) {
			out = append(out, tr.message)
		}
	}

	if len(out) == 0 {
		out = append(out, RecommendKeepGoing)
	}
	return out
}

func average(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...).Div(decimal.NewFromInt(int64(len(values))))
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(v, lo), hi)
}
