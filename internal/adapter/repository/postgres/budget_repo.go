package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/goforecast/internal/domain"
)

// BudgetRepository implements usecase.BudgetRepository.
type BudgetRepository struct {
	reader *Reader
}

// NewBudgetRepository creates a new BudgetRepository.
func NewBudgetRepository(reader *Reader) *BudgetRepository {
	return &BudgetRepository{reader: reader}
}

// ListByPeriod retrieves a user's budgets for one month with their category details.
func (r *BudgetRepository) ListByPeriod(ctx context.Context, userID string, year int, month time.Month) ([]domain.Budget, error) {
	const query = `
		SELECT b.id::text, b.user_id::text, b.category_id::text, c.name, c.type,
		       b.amount, b.year, b.month
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.user_id::text = $1 AND b.year = $2 AND b.month = $3
		ORDER BY c.name
	`

	return queryAll(ctx, r.reader, "budgets", query, scanBudget, userID, year, int(month))
}

func scanBudget(row pgx.CollectableRow) (domain.Budget, error) {
	var (
		b            domain.Budget
		categoryType string
		amount       pgtype.Numeric
		month        int
	)

	if err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &categoryType,
		&amount, &b.Year, &month); err != nil {
		return domain.Budget{}, err
	}

	value, err := numericToDecimal(amount)
	if err != nil {
		return domain.Budget{}, err
	}

	b.Amount = value
	b.CategoryType = domain.CategoryType(categoryType)
	b.Month = time.Month(month)

	return b, nil
}
