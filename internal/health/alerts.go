package health

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goforecast/internal/domain"
)

// Severity ranks how urgently an alert needs attention.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Alert types.
const (
	AlertGoalDeadline  = "goal_deadline"
	AlertDebtBehind    = "debt_behind"
	AlertBudgetWarning = "budget_warning"
)

// DefaultPendingLimit is how many overdue projections are listed for reconciliation.
const DefaultPendingLimit = 3

var (
	deadlineDays = []int{30, 60, 90}

	budgetNotice  = decimal.NewFromInt(80)
	budgetWarning = decimal.NewFromInt(90)
	budgetDanger  = decimal.NewFromInt(100)
)

// Alert is a proactive notice about a goal, debt or budget.
type Alert struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	EntityID string   `json:"entity_id,omitempty"`
}

// BudgetUsage reports how much of an expense budget has been spent this month.
type BudgetUsage struct {
	BudgetID   string          `json:"budget_id"`
	Category   string          `json:"category"`
	Percentage decimal.Decimal `json:"percentage"`
	Spent      decimal.Decimal `json:"spent"`
	Budget     decimal.Decimal `json:"budget"`
	Severity   Severity        `json:"severity"`
}

// PendingReconciliation is a goal projection whose date has passed while it is
// still planned.
type PendingReconciliation struct {
	GoalID       string          `json:"goal_id"`
	GoalName     string          `json:"goal_name"`
	ProjectionID string          `json:"projection_id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
}

// Alerts returns goal deadline reminders, overdue debt payments and budgets
// approaching their limit.
func (s *Scorer) Alerts(snap Snapshot) []Alert {
	var alerts []Alert

	for i := range snap.Goals {
		goal := &snap.Goals[i]
		target := domain.Date(goal.TargetDate)
		if !target.After(s.today) {
			continue
		}

		days := domain.DaysBetween(s.today, target)
		if !slices.Contains(deadlineDays, days) {
			continue
		}

		severity := SeverityInfo
		if days <= 30 {
			severity = SeverityWarning
		}
		alerts = append(alerts, Alert{
			Type:     AlertGoalDeadline,
			Severity: severity,
			Title:    "Goal Deadline Approaching",
			Message:  fmt.Sprintf("Your goal '%s' is due in %d days.", goal.Name, days),
			EntityID: goal.ID,
		})
	}

	for i := range snap.Debts {
		debt := &snap.Debts[i]
		overdue := len(s.overdue(debt.Projections))
		if overdue == 0 {
			continue
		}
		alerts = append(alerts, Alert{
			Type:     AlertDebtBehind,
			Severity: SeverityWarning,
			Title:    "Debt Payment Behind Schedule",
			Message:  fmt.Sprintf("You have %d missed payment(s) for '%s'.", overdue, debt.Name),
			EntityID: debt.ID,
		})
	}

	for _, usage := range s.BudgetUsage(snap) {
		if usage.Severity == SeverityDanger {
			continue
		}
		alerts = append(alerts, Alert{
			Type:     AlertBudgetWarning,
			Severity: usage.Severity,
			Title:    "Budget Alert",
			Message: fmt.Sprintf("You've spent %s%% of your %s budget.",
				usage.Percentage.StringFixed(0), usage.Category),
			EntityID: usage.BudgetID,
		})
	}

	return alerts
}

// BudgetUsage lists this month's expense budgets that are at least 80% spent.
func (s *Scorer) BudgetUsage(snap Snapshot) []BudgetUsage {
	month := domain.MonthOf(s.today)

	var out []BudgetUsage
	for _, b := range snap.Budgets {
		if b.Period() != month || b.CategoryType != domain.CategoryTypeExpense {
			continue
		}

		spent := categorySpend(snap.Transactions, b.CategoryID, month)
		pct := domain.Percent(spent, b.Amount)
		if pct.LessThan(budgetNotice) {
			continue
		}

		severity := SeverityInfo
		switch {
		case pct.GreaterThanOrEqual(budgetDanger):
			severity = SeverityDanger
		case pct.GreaterThanOrEqual(budgetWarning):
			severity = SeverityWarning
		}

		out = append(out, BudgetUsage{
			BudgetID:   b.ID,
			Category:   b.CategoryName,
			Percentage: pct.Round(0),
			Spent:      domain.RoundMoney(spent),
			Budget:     domain.RoundMoney(b.Amount),
			Severity:   severity,
		})
	}
	return out
}

// DebtPayoffVelocity returns the percentage by which total debt has shrunk
// since the start of last month.
func (s *Scorer) DebtPayoffVelocity(debts []domain.Debt) decimal.Decimal {
	lastMonth := domain.StartOfMonth(domain.AddMonths(s.today, -1))

	current, previous := decimal.Zero, decimal.Zero
	for i := range debts {
		remaining := debts[i].RemainingBalance()
		paid := domain.SumTransactionsIn(debts[i].Transactions, lastMonth, domain.EndOfMonth(lastMonth))

		current = current.Add(remaining)
		previous = previous.Add(remaining.Add(paid))
	}

	return domain.RoundPercent(domain.Percent(previous.Sub(current), previous))
}

// PendingReconciliations lists the oldest overdue planned goal projections.
func (s *Scorer) PendingReconciliations(goals []domain.Goal, limit int) []PendingReconciliation {
	var out []PendingReconciliation
	for i := range goals {
		goal := &goals[i]
		for _, p := range s.overdue(goal.Projections) {
			out = append(out, PendingReconciliation{
				GoalID:       goal.ID,
				GoalName:     goal.Name,
				ProjectionID: p.ID,
				Description:  p.Description,
				Amount:       p.Amount,
				Date:         domain.Date(p.Date),
			})
		}
	}

	slices.SortStableFunc(out, func(a, b PendingReconciliation) int {
		return a.Date.Compare(b.Date)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// overdue returns planned projections dated before today, oldest first.
func (s *Scorer) overdue(projections []domain.Projection) []domain.Projection {
	var out []domain.Projection
	for _, p := range projections {
		if p.IsPlanned() && domain.Date(p.Date).Before(s.today) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Projection) int {
		return cmp.Compare(a.Date.Unix(), b.Date.Unix())
	})
	return out
}
