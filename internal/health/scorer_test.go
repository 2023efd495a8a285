package health

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goforecast/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func cash(category string, typ domain.CategoryType, amount string, on time.Time) domain.CashTransaction {
	return domain.CashTransaction{CategoryID: category, CategoryType: typ, Amount: dec(amount), Date: on}
}

// 2025-06-18 is a Wednesday.
var today = date(2025, time.June, 18)

func TestScore_BrandNewUser(t *testing.T) {
	report := NewScorer(today).Score(Snapshot{})

	assert.Equal(t, "25", report.TotalScore.String())
	assert.Equal(t, "F", report.Grade)
	assert.Equal(t, MaxScore, report.MaxScore)

	want := map[string]string{
		FactorSavingsRate:     "0",
		FactorBudgetAdherence: "0",
		FactorGoalProgress:    "10",
		FactorDebtProgress:    "15",
		FactorConsistency:     "0",
	}
	for name, score := range want {
		f, ok := report.Factors[name]
		require.True(t, ok, name)
		assert.Equal(t, score, f.Score.String(), name)
	}
	assert.Equal(t, 30, report.Factors[FactorSavingsRate].MaxScore)
	assert.Equal(t, "50", report.Factors[FactorGoalProgress].Value.String())
	assert.Equal(t, "100", report.Factors[FactorDebtProgress].Value.String())

	assert.Equal(t, []string{RecommendSavings, RecommendBudgets, RecommendConsistency}, report.Recommendations)
}

func TestScore_AllFactors(t *testing.T) {
	snap := Snapshot{
		Transactions: []domain.CashTransaction{
			cash("salary", domain.CategoryTypeIncome, "5000", date(2025, time.May, 2)),
			cash("groceries", domain.CategoryTypeExpense, "-3000", date(2025, time.June, 2)),
		},
		Budgets: []domain.Budget{
			{ID: "b1", CategoryID: "groceries", Amount: dec("2500"), Year: 2025, Month: time.June},
			{ID: "b2", CategoryID: "rent", Amount: dec("1000"), Year: 2025, Month: time.June},
			{ID: "b3", CategoryID: "groceries", Amount: dec("1"), Year: 2025, Month: time.May},
		},
		Goals: []domain.Goal{
			{ID: "g1", TargetAmount: dec("1000"), Transactions: []domain.Transaction{{Amount: dec("250")}}},
			{ID: "g2", TargetAmount: dec("100"), Transactions: []domain.Transaction{{Amount: dec("150")}}},
		},
		Debts: []domain.Debt{
			{ID: "d1", InitialAmount: dec("1000"), Transactions: []domain.Transaction{{Amount: dec("400")}}},
		},
	}

	report := NewScorer(today).Score(snap)

	tests := []struct {
		factor string
		value  string
		score  string
	}{
		{FactorSavingsRate, "40", "30"},
		{FactorBudgetAdherence, "90", "22.5"},
		{FactorGoalProgress, "62.5", "12.5"},
		{FactorDebtProgress, "40", "6"},
		{FactorConsistency, "16.7", "1.7"},
	}
	for _, tt := range tests {
		t.Run(tt.factor, func(t *testing.T) {
			f := report.Factors[tt.factor]
			assert.Equal(t, tt.value, f.Value.String())
			assert.Equal(t, tt.score, f.Score.String())
		})
	}

	assert.Equal(t, "72.7", report.TotalScore.String())
	assert.Equal(t, "B", report.Grade)
	assert.Equal(t, []string{RecommendConsistency}, report.Recommendations)
}

func TestScore_StaysWithinBounds(t *testing.T) {
	snap := Snapshot{
		Transactions: []domain.CashTransaction{
			cash("salary", domain.CategoryTypeIncome, "100", date(2025, time.June, 1)),
			cash("fun", domain.CategoryTypeExpense, "-900", date(2025, time.June, 3)),
		},
		Budgets: []domain.Budget{{CategoryID: "fun", Amount: dec("100"), Year: 2025, Month: time.June}},
		Goals: []domain.Goal{
			{TargetAmount: dec("100"), Transactions: []domain.Transaction{{Amount: dec("-40")}}},
		},
		Debts: []domain.Debt{
			{InitialAmount: dec("100"), Transactions: []domain.Transaction{{Amount: dec("-20")}}},
		},
	}

	report := NewScorer(today).Score(snap)

	assert.Equal(t, "-800", report.Factors[FactorSavingsRate].Value.String())
	for name, f := range report.Factors {
		assert.False(t, f.Score.IsNegative(), "%s score is negative", name)
		assert.True(t, f.Score.LessThanOrEqual(decimal.NewFromInt(int64(f.MaxScore))), name)
	}
	assert.True(t, report.TotalScore.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, report.TotalScore.LessThanOrEqual(decimal.NewFromInt(100)))
}

func TestScore_PerfectUserGetsDefaultRecommendation(t *testing.T) {
	var txns []domain.CashTransaction
	for i := range ConsistencyWeeks {
		txns = append(txns, cash("salary", domain.CategoryTypeIncome, "1000", today.AddDate(0, 0, -7*i)))
	}

	report := NewScorer(today).Score(Snapshot{
		Transactions: txns,
		Budgets:      []domain.Budget{{CategoryID: "groceries", Amount: dec("300"), Year: 2025, Month: time.June}},
		Goals: []domain.Goal{
			{TargetAmount: dec("100"), Transactions: []domain.Transaction{{Amount: dec("100")}}},
		},
	})

	assert.Equal(t, "100", report.TotalScore.String())
	assert.Equal(t, "A+", report.Grade)
	assert.Equal(t, []string{RecommendKeepGoing}, report.Recommendations)
}

func TestAdherence(t *testing.T) {
	tests := []struct {
		name   string
		spent  string
		budget string
		want   string
	}{
		{"zero spend", "0", "500", "100"},
		{"within budget", "500", "500", "100"},
		{"twenty percent over", "600", "500", "80"},
		{"far over is floored", "5000", "500", "0"},
		{"zero budget", "50", "0", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adherence(dec(tt.spent), dec(tt.budget))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score string
		want  string
	}{
		{"100", "A+"}, {"90", "A+"}, {"89.99", "A"}, {"80", "A-"},
		{"77", "B+"}, {"70", "B"}, {"65", "B-"}, {"60", "C+"},
		{"55", "C"}, {"50", "C-"}, {"45", "D+"}, {"40", "D"},
		{"39.9", "F"}, {"0", "F"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Grade(dec(tt.score)), "score %s", tt.score)
	}
}
