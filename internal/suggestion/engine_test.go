package suggestion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goforecast/internal/domain"
)

var systemCategories = domain.Categories{
	{ID: "cat-loans", Name: domain.CategoryLoans, Type: domain.CategoryTypeExpense},
	{ID: "cat-savings", Name: domain.CategorySavings, Type: domain.CategoryTypeExpense},
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSuggest_DebtTargetDateScenario(t *testing.T) {
	today := date(2025, time.March, 14)
	target := domain.AddMonths(today, 6)
	debts := []domain.Debt{
		{ID: "d1", Name: "Car loan", InitialAmount: dec("1200"), TargetPayoffDate: &target},
	}

	report, err := NewEngine(systemCategories).Suggest(2025, 3, debts, nil)
	require.NoError(t, err)

	loans, ok := report.Suggestions[domain.CategoryLoans]
	require.True(t, ok)
	assert.Equal(t, "cat-loans", loans.CategoryID)
	assert.Equal(t, "200.00", loans.SuggestedAmount.StringFixed(2))
	assert.Equal(t, ReasonDebts, loans.Reason)
	require.Len(t, loans.Breakdown, 1)
	assert.Equal(t, SourceTargetDate, loans.Breakdown[0].Source)
	assert.Equal(t, "1200.00", loans.Breakdown[0].RemainingBalance.StringFixed(2))
	assert.Nil(t, loans.Breakdown[0].ProgressPercentage)

	assert.Equal(t, "200.00", report.Summary.TotalDebtPayments.StringFixed(2))
	assert.Equal(t, 1, report.Summary.DebtCount)
	assert.True(t, report.Summary.HasSuggestions)
}

func TestSuggest_DebtSources(t *testing.T) {
	pastTarget := date(2024, time.January, 1)
	debts := []domain.Debt{
		{
			ID: "planned", Name: "Card", InitialAmount: dec("3000"),
			Projections: []domain.Projection{
				{Amount: dec("120"), Date: date(2025, time.May, 3), Status: domain.ProjectionStatusPlanned},
				{Amount: dec("30"), Date: date(2025, time.May, 20), Status: domain.ProjectionStatusPlanned},
				{Amount: dec("999"), Date: date(2025, time.May, 21), Status: domain.ProjectionStatusMissed},
			},
		},
		{ID: "min-floor", Name: "Small", InitialAmount: dec("400")},
		{ID: "min-rate", Name: "Large", InitialAmount: dec("10000")},
		{ID: "overdue", Name: "Overdue", InitialAmount: dec("90"), TargetPayoffDate: &pastTarget},
		{
			ID: "paid", Name: "Paid", InitialAmount: dec("100"),
			Transactions: []domain.Transaction{{Amount: dec("100"), Date: date(2025, time.January, 1)}},
		},
	}

	report, err := NewEngine(systemCategories).Suggest(2025, 5, debts, nil)
	require.NoError(t, err)

	loans := report.Suggestions[domain.CategoryLoans]
	require.Len(t, loans.Breakdown, 4)

	want := map[string]struct {
		amount string
		source Source
	}{
		"planned":   {"150.00", SourcePlannedProjection},
		"min-floor": {"50.00", SourceMinimumPayment},
		"min-rate":  {"500.00", SourceMinimumPayment},
		"overdue":   {"90.00", SourceTargetDate},
	}
	for _, item := range loans.Breakdown {
		w, ok := want[item.EntityID]
		require.True(t, ok, "unexpected breakdown item %s", item.EntityID)
		assert.Equal(t, w.amount, item.Amount.StringFixed(2), item.EntityID)
		assert.Equal(t, w.source, item.Source, item.EntityID)
	}

	assert.Equal(t, "790.00", loans.SuggestedAmount.StringFixed(2))
	assert.Equal(t, 4, report.Summary.DebtCount)
	assert.Equal(t, 0, report.Summary.GoalCount)
}

func TestSuggest_Goals(t *testing.T) {
	goals := []domain.Goal{
		{
			ID: "g-target", Name: "Holiday", TargetAmount: dec("1000"), TargetDate: date(2025, time.November, 1),
			Transactions: []domain.Transaction{{Amount: dec("250"), Date: date(2025, time.February, 1)}},
		},
		{
			ID: "g-planned", Name: "Emergency", TargetAmount: dec("5000"), TargetDate: date(2027, time.January, 1),
			Projections: []domain.Projection{
				{Amount: dec("300"), Date: date(2025, time.June, 1), Status: domain.ProjectionStatusPlanned},
			},
		},
		{
			ID: "g-done", Name: "Laptop", TargetAmount: dec("100"), TargetDate: date(2025, time.December, 1),
			Transactions: []domain.Transaction{{Amount: dec("100"), Date: date(2025, time.February, 1)}},
		},
		{
			ID: "g-withdraw", Name: "Withdrawal", TargetAmount: dec("800"), TargetDate: date(2026, time.January, 1),
			Projections: []domain.Projection{
				{Amount: dec("-40"), Date: date(2025, time.June, 9), Status: domain.ProjectionStatusPlanned},
			},
		},
	}

	report, err := NewEngine(systemCategories).Suggest(2025, 6, nil, goals)
	require.NoError(t, err)

	savings, ok := report.Suggestions[domain.CategorySavings]
	require.True(t, ok)
	assert.Equal(t, ReasonGoals, savings.Reason)
	require.Len(t, savings.Breakdown, 2, "completed goals and negative months are left out")

	byID := map[string]BreakdownItem{}
	for _, item := range savings.Breakdown {
		byID[item.EntityID] = item
	}

	// 750 remaining over 5 months from June 1 to November 1.
	assert.Equal(t, "150.00", byID["g-target"].Amount.StringFixed(2))
	assert.Equal(t, SourceTargetDate, byID["g-target"].Source)
	assert.Equal(t, "25", byID["g-target"].ProgressPercentage.String())
	assert.Equal(t, "750.00", byID["g-target"].RemainingBalance.StringFixed(2))

	assert.Equal(t, "300.00", byID["g-planned"].Amount.StringFixed(2))
	assert.Equal(t, SourcePlannedProjection, byID["g-planned"].Source)

	// The withdrawal month still counts toward the total.
	assert.Equal(t, "410.00", savings.SuggestedAmount.StringFixed(2))
	assert.Equal(t, "410.00", report.Summary.TotalSuggested.StringFixed(2))
}

func TestSuggest_NoSuggestions(t *testing.T) {
	t.Run("no entities", func(t *testing.T) {
		report, err := NewEngine(systemCategories).Suggest(2025, 1, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, report.Suggestions)
		assert.False(t, report.Summary.HasSuggestions)
		assert.True(t, report.Summary.TotalSuggested.IsZero())
	})

	t.Run("missing categories", func(t *testing.T) {
		debts := []domain.Debt{{ID: "d", InitialAmount: dec("100")}}
		report, err := NewEngine(domain.Categories{}).Suggest(2025, 1, debts, nil)
		require.NoError(t, err)
		assert.Empty(t, report.Suggestions)
		assert.False(t, report.Summary.HasSuggestions)
	})

	t.Run("invalid period", func(t *testing.T) {
		_, err := NewEngine(systemCategories).Suggest(2025, 13, nil, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
	})
}
