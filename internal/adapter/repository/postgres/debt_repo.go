package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/goforecast/internal/domain"
)

const debtColumns = `id::text, user_id::text, name, initial_amount, target_payoff_date, yearly_interest_rate`

// DebtRepository implements usecase.DebtRepository.
type DebtRepository struct {
	reader *Reader
}

// NewDebtRepository creates a new DebtRepository.
func NewDebtRepository(reader *Reader) *DebtRepository {
	return &DebtRepository{reader: reader}
}

// GetByID retrieves a user's debt with its transactions and projections.
func (r *DebtRepository) GetByID(ctx context.Context, userID, debtID string) (*domain.Debt, error) {
	debts, err := queryAll(ctx, r.reader, "debts",
		`SELECT `+debtColumns+` FROM debts WHERE id::text = $1 AND user_id::text = $2`,
		scanDebt, debtID, userID)
	if err != nil {
		return nil, err
	}

	if len(debts) == 0 {
		return nil, domain.ErrDebtNotFound
	}

	if err := r.attachActivity(ctx, debts); err != nil {
		return nil, err
	}

	return &debts[0], nil
}

// ListByUser retrieves all of a user's debts with their transactions and projections.
func (r *DebtRepository) ListByUser(ctx context.Context, userID string) ([]domain.Debt, error) {
	debts, err := queryAll(ctx, r.reader, "debts",
		`SELECT `+debtColumns+` FROM debts WHERE user_id::text = $1 ORDER BY id`,
		scanDebt, userID)
	if err != nil {
		return nil, err
	}

	if err := r.attachActivity(ctx, debts); err != nil {
		return nil, err
	}

	return debts, nil
}

func (r *DebtRepository) attachActivity(ctx context.Context, debts []domain.Debt) error {
	if len(debts) == 0 {
		return nil
	}

	ids := make([]string, len(debts))
	for i := range debts {
		ids[i] = debts[i].ID
	}

	txns, projs, err := loadActivity(ctx, r.reader, debtActivity, ids)
	if err != nil {
		return err
	}

	for i := range debts {
		debts[i].Transactions = txns[debts[i].ID]
		debts[i].Projections = projs[debts[i].ID]
	}

	return nil
}

func scanDebt(row pgx.CollectableRow) (domain.Debt, error) {
	var (
		d             domain.Debt
		initial, rate pgtype.Numeric
		payoff        pgtype.Date
	)

	if err := row.Scan(&d.ID, &d.UserID, &d.Name, &initial, &payoff, &rate); err != nil {
		return domain.Debt{}, err
	}

	var err error
	if d.InitialAmount, err = numericToDecimal(initial); err != nil {
		return domain.Debt{}, err
	}
	if d.YearlyInterestRate, err = numericToDecimal(rate); err != nil {
		return domain.Debt{}, err
	}
	if payoff.Valid {
		date := dateToTime(payoff)
		d.TargetPayoffDate = &date
	}

	return d, nil
}
