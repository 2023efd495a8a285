package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iho/goforecast/internal/domain"
	"github.com/iho/goforecast/internal/suggestion"
)

// SuggestionUseCase builds monthly budget suggestions from a user's debts and goals.
type SuggestionUseCase struct {
	goalRepo     GoalRepository
	debtRepo     DebtRepository
	categoryRepo CategoryRepository
	clock        Clock
	metrics      MetricsRecorder
}

// NewSuggestionUseCase creates a new suggestion use case.
func NewSuggestionUseCase(
	goalRepo GoalRepository,
	debtRepo DebtRepository,
	categoryRepo CategoryRepository,
	clock Clock,
	metrics MetricsRecorder,
) *SuggestionUseCase {
	return &SuggestionUseCase{
		goalRepo:     goalRepo,
		debtRepo:     debtRepo,
		categoryRepo: categoryRepo,
		clock:        clock,
		metrics:      metrics,
	}
}

// SuggestInput selects the user and budget period. A zero Year or Month
// defaults to the current one.
type SuggestInput struct {
	UserID string
	Year   int
	Month  int
}

// Suggest returns the suggested Loans and Savings budgets for the period.
func (uc *SuggestionUseCase) Suggest(ctx context.Context, input SuggestInput) (report *suggestion.Report, err error) {
	defer observe(uc.metrics, OpBudgetSuggestion, time.Now(), &err)

	today := uc.clock.Today()
	if input.Year == 0 {
		input.Year = today.Year()
	}
	if input.Month == 0 {
		input.Month = int(today.Month())
	}

	if err := domain.ValidatePeriod(input.Year, input.Month); err != nil {
		return nil, err
	}

	loadCtx, cancel := context.WithTimeout(ctx, DefaultLoadTimeout)
	defer cancel()

	var (
		goals      []domain.Goal
		debts      []domain.Debt
		categories domain.Categories
	)

	g, gctx := errgroup.WithContext(loadCtx)
	g.Go(func() error {
		var err error
		goals, err = uc.goalRepo.ListByUser(gctx, input.UserID)
		if err != nil {
			return fmt.Errorf("failed to list goals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		debts, err = uc.debtRepo.ListByUser(gctx, input.UserID)
		if err != nil {
			return fmt.Errorf("failed to list debts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = uc.categoryRepo.ListByUser(gctx, input.UserID)
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return suggestion.NewEngine(categories).Suggest(input.Year, input.Month, debts, goals)
}
