package snapshot

import (
	"context"
	"slices"
	"time"

	"github.com/iho/goforecast/internal/domain"
)

// Store is an immutable in-memory copy of a snapshot. It implements every
// repository port the use cases depend on.
type Store struct {
	categories   map[string]domain.Category
	categoryList domain.Categories
	goals        []domain.Goal
	debts        []domain.Debt
	budgets      []domain.Budget
	transactions []domain.CashTransaction
}

// Goals returns the goal repository view.
func (s *Store) Goals() GoalRepository { return GoalRepository{s} }

// Debts returns the debt repository view.
func (s *Store) Debts() DebtRepository { return DebtRepository{s} }

// Budgets returns the budget repository view.
func (s *Store) Budgets() BudgetRepository { return BudgetRepository{s} }

// Transactions returns the cash transaction repository view.
func (s *Store) Transactions() CashTransactionRepository { return CashTransactionRepository{s} }

// Categories returns the category repository view.
func (s *Store) Categories() CategoryRepository { return CategoryRepository{s} }

// GoalRepository implements usecase.GoalRepository.
type GoalRepository struct{ s *Store }

func (r GoalRepository) GetByID(_ context.Context, userID, goalID string) (*domain.Goal, error) {
	for _, g := range r.s.goals {
		if g.ID == goalID && g.UserID == userID {
			return &g, nil
		}
	}
	return nil, domain.ErrGoalNotFound
}

func (r GoalRepository) ListByUser(_ context.Context, userID string) ([]domain.Goal, error) {
	return owned(r.s.goals, userID, func(g domain.Goal) string { return g.UserID }), nil
}

// DebtRepository implements usecase.DebtRepository.
type DebtRepository struct{ s *Store }

func (r DebtRepository) GetByID(_ context.Context, userID, debtID string) (*domain.Debt, error) {
	for _, d := range r.s.debts {
		if d.ID == debtID && d.UserID == userID {
			return &d, nil
		}
	}
	return nil, domain.ErrDebtNotFound
}

func (r DebtRepository) ListByUser(_ context.Context, userID string) ([]domain.Debt, error) {
	return owned(r.s.debts, userID, func(d domain.Debt) string { return d.UserID }), nil
}

// BudgetRepository implements usecase.BudgetRepository.
type BudgetRepository struct{ s *Store }

func (r BudgetRepository) ListByPeriod(_ context.Context, userID string, year int, month time.Month) ([]domain.Budget, error) {
	var out []domain.Budget
	for _, b := range r.s.budgets {
		if b.UserID == userID && b.Year == year && b.Month == month {
			out = append(out, b)
		}
	}
	return out, nil
}

// CashTransactionRepository implements usecase.CashTransactionRepository.
type CashTransactionRepository struct{ s *Store }

// ListByUser returns transactions dated within [from, to].
func (r CashTransactionRepository) ListByUser(_ context.Context, userID string, from, to time.Time) ([]domain.CashTransaction, error) {
	var out []domain.CashTransaction
	for _, t := range r.s.transactions {
		if t.UserID != userID || t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct{ s *Store }

// ListByUser returns every category; categories are shared by all users.
func (r CategoryRepository) ListByUser(context.Context, string) (domain.Categories, error) {
	return slices.Clone(r.s.categoryList), nil
}

func owned[T any](items []T, userID string, owner func(T) string) []T {
	var out []T
	for _, item := range items {
		if owner(item) == userID {
			out = append(out, item)
		}
	}
	return out
}
