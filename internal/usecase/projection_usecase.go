package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goforecast/internal/domain"
	"github.com/iho/goforecast/internal/projection"
)

// ProjectionUseCase projects stored goals and debts, and previews unsaved goals.
type ProjectionUseCase struct {
	goalRepo GoalRepository
	debtRepo DebtRepository
	clock    Clock
	idGen    IDGenerator
	metrics  MetricsRecorder
}

// NewProjectionUseCase creates a new projection use case.
func NewProjectionUseCase(
	goalRepo GoalRepository,
	debtRepo DebtRepository,
	clock Clock,
	idGen IDGenerator,
	metrics MetricsRecorder,
) *ProjectionUseCase {
	return &ProjectionUseCase{
		goalRepo: goalRepo,
		debtRepo: debtRepo,
		clock:    clock,
		idGen:    idGen,
		metrics:  metrics,
	}
}

// GoalInput identifies a goal owned by a user.
type GoalInput struct {
	UserID string
	GoalID string
}

// DebtInput identifies a debt owned by a user.
type DebtInput struct {
	UserID string
	DebtID string
}

// ProjectGoal projects a goal's balance at its target date.
func (uc *ProjectionUseCase) ProjectGoal(ctx context.Context, input GoalInput) (result *projection.Result, err error) {
	defer observe(uc.metrics, OpGoalProjection, time.Now(), &err)

	goal, err := uc.loadGoal(ctx, input)
	if err != nil {
		return nil, err
	}

	result, err = projection.NewGoalProjector(uc.clock.Today()).Calculate(goal)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RecordProjection("goal", result.IsOnTrack)
	}
	return result, nil
}

// GoalSeries returns a goal's month-by-month projected balances.
func (uc *ProjectionUseCase) GoalSeries(ctx context.Context, input GoalInput) (series *projection.Series, err error) {
	defer observe(uc.metrics, OpGoalSeries, time.Now(), &err)

	goal, err := uc.loadGoal(ctx, input)
	if err != nil {
		return nil, err
	}

	return projection.NewGoalProjector(uc.clock.Today()).MonthlySeries(goal)
}

// ProjectDebt projects a debt's remaining balance at its payoff date.
func (uc *ProjectionUseCase) ProjectDebt(ctx context.Context, input DebtInput) (result *projection.DebtResult, err error) {
	defer observe(uc.metrics, OpDebtProjection, time.Now(), &err)

	debt, err := uc.loadDebt(ctx, input)
	if err != nil {
		return nil, err
	}

	result, err = projection.NewDebtProjector(uc.clock.Today()).Calculate(debt)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RecordProjection("debt", result.IsOnTrack)
	}
	return result, nil
}

// DebtSeries returns a debt's month-by-month projected balances.
func (uc *ProjectionUseCase) DebtSeries(ctx context.Context, input DebtInput) (series *projection.Series, err error) {
	defer observe(uc.metrics, OpDebtSeries, time.Now(), &err)

	debt, err := uc.loadDebt(ctx, input)
	if err != nil {
		return nil, err
	}

	return projection.NewDebtProjector(uc.clock.Today()).MonthlySeries(debt)
}

// PreviewGoalInput describes a goal that has not been saved yet.
type PreviewGoalInput struct {
	UserID             string
	Name               string
	TargetAmount       decimal.Decimal
	TargetDate         time.Time
	YearlyInterestRate decimal.Decimal
	// StartingBalance is recorded as a single contribution made today.
	StartingBalance decimal.Decimal
	Schedules       []projection.Schedule
}

// GoalPreview is the outcome of projecting an unsaved goal.
type GoalPreview struct {
	Goal        domain.Goal
	Projections []domain.Projection
	Result      *projection.Result
	Series      *projection.Series
}

// PreviewGoal expands the input's schedules into planned projections and
// projects the resulting goal without persisting anything.
func (uc *ProjectionUseCase) PreviewGoal(ctx context.Context, input PreviewGoalInput) (preview *GoalPreview, err error) {
	defer observe(uc.metrics, OpGoalPreview, time.Now(), &err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !input.TargetAmount.IsPositive() {
		return nil, fmt.Errorf("%w: target amount must be positive", domain.ErrInvalidGoal)
	}
	if input.TargetDate.IsZero() {
		return nil, fmt.Errorf("%w: target date is required", domain.ErrInvalidGoal)
	}
	if input.YearlyInterestRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate must not be negative", domain.ErrInvalidGoal)
	}

	projections, err := projection.Expand(input.Schedules, uc.idGen)
	if err != nil {
		return nil, err
	}

	today := uc.clock.Today()
	goal := domain.Goal{
		ID:                 uc.idGen.Generate(),
		UserID:             input.UserID,
		Name:               input.Name,
		TargetAmount:       input.TargetAmount,
		TargetDate:         domain.Date(input.TargetDate),
		YearlyInterestRate: input.YearlyInterestRate,
		Projections:        projections,
	}
	if !input.StartingBalance.IsZero() {
		goal.Transactions = []domain.Transaction{
			{ID: uc.idGen.Generate(), Amount: input.StartingBalance, Date: domain.Date(today)},
		}
	}

	projector := projection.NewGoalProjector(today)

	result, err := projector.Calculate(&goal)
	if err != nil {
		return nil, err
	}

	series, err := projector.MonthlySeries(&goal)
	if err != nil {
		return nil, err
	}

	return &GoalPreview{
		Goal:        goal,
		Projections: projections,
		Result:      result,
		Series:      series,
	}, nil
}

func (uc *ProjectionUseCase) loadGoal(ctx context.Context, input GoalInput) (*domain.Goal, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultLoadTimeout)
	defer cancel()

	goal, err := uc.goalRepo.GetByID(ctx, input.UserID, input.GoalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal %s: %w", input.GoalID, err)
	}
	return goal, nil
}

func (uc *ProjectionUseCase) loadDebt(ctx context.Context, input DebtInput) (*domain.Debt, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultLoadTimeout)
	defer cancel()

	debt, err := uc.debtRepo.GetByID(ctx, input.UserID, input.DebtID)
	if err != nil {
		return nil, fmt.Errorf("failed to load debt %s: %w", input.DebtID, err)
	}
	return debt, nil
}

// observe reports an operation's duration and outcome. It is deferred with a
// pointer to the caller's named error.
func observe(metrics MetricsRecorder, operation string, start time.Time, err *error) {
	if metrics == nil {
		return
	}
	metrics.ObserveCalculation(operation, time.Since(start), *err)
}
