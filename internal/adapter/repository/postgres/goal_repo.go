package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/goforecast/internal/domain"
)

const goalColumns = `id::text, user_id::text, name, target_amount, target_date, yearly_interest_rate`

// GoalRepository implements usecase.GoalRepository.
type GoalRepository struct {
	reader *Reader
}

// NewGoalRepository creates a new GoalRepository.
func NewGoalRepository(reader *Reader) *GoalRepository {
	return &GoalRepository{reader: reader}
}

// GetByID retrieves a user's goal with its transactions and projections.
func (r *GoalRepository) GetByID(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	goals, err := queryAll(ctx, r.reader, "goals",
		`SELECT `+goalColumns+` FROM goals WHERE id::text = $1 AND user_id::text = $2`,
		scanGoal, goalID, userID)
	if err != nil {
		return nil, err
	}

	if len(goals) == 0 {
		return nil, domain.ErrGoalNotFound
	}

	if err := r.attachActivity(ctx, goals); err != nil {
		return nil, err
	}

	return &goals[0], nil
}

// ListByUser retrieves all of a user's goals with their transactions and projections.
func (r *GoalRepository) ListByUser(ctx context.Context, userID string) ([]domain.Goal, error) {
	goals, err := queryAll(ctx, r.reader, "goals",
		`SELECT `+goalColumns+` FROM goals WHERE user_id::text = $1 ORDER BY target_date, id`,
		scanGoal, userID)
	if err != nil {
		return nil, err
	}

	if err := r.attachActivity(ctx, goals); err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *GoalRepository) attachActivity(ctx context.Context, goals []domain.Goal) error {
	if len(goals) == 0 {
		return nil
	}

	ids := make([]string, len(goals))
	for i := range goals {
		ids[i] = goals[i].ID
	}

	txns, projs, err := loadActivity(ctx, r.reader, goalActivity, ids)
	if err != nil {
		return err
	}

	for i := range goals {
		goals[i].Transactions = txns[goals[i].ID]
		goals[i].Projections = projs[goals[i].ID]
	}

	return nil
}

func scanGoal(row pgx.CollectableRow) (domain.Goal, error) {
	var (
		g            domain.Goal
		target, rate pgtype.Numeric
		targetDate   pgtype.Date
	)

	if err := row.Scan(&g.ID, &g.UserID, &g.Name, &target, &targetDate, &rate); err != nil {
		return domain.Goal{}, err
	}

	var err error
	if g.TargetAmount, err = numericToDecimal(target); err != nil {
		return domain.Goal{}, err
	}
	if g.YearlyInterestRate, err = numericToDecimal(rate); err != nil {
		return domain.Goal{}, err
	}
	g.TargetDate = dateToTime(targetDate)

	return g, nil
}
