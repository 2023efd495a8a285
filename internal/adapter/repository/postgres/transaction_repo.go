package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/goforecast/internal/domain"
)

// CashTransactionRepository implements usecase.CashTransactionRepository.
type CashTransactionRepository struct {
	reader *Reader
}

// NewCashTransactionRepository creates a new CashTransactionRepository.
func NewCashTransactionRepository(reader *Reader) *CashTransactionRepository {
	return &CashTransactionRepository{reader: reader}
}

// ListByUser retrieves a user's categorized transactions dated within [from, to].
// Uncategorized transactions come back with an empty category and type.
func (r *CashTransactionRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]domain.CashTransaction, error) {
	const query = `
		SELECT t.id::text, t.user_id::text, t.category_id::text, c.type,
		       t.amount, t.transaction_date
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id::text = $1
		  AND t.transaction_date BETWEEN $2 AND $3
		ORDER BY t.transaction_date, t.id
	`

	return queryAll(ctx, r.reader, "transactions", query, scanCashTransaction,
		userID, timeToPgDate(from), timeToPgDate(to))
}

func scanCashTransaction(row pgx.CollectableRow) (domain.CashTransaction, error) {
	var (
		t            domain.CashTransaction
		categoryID   *string
		categoryType *string
		amount       pgtype.Numeric
		date         pgtype.Date
	)

	if err := row.Scan(&t.ID, &t.UserID, &categoryID, &categoryType, &amount, &date); err != nil {
		return domain.CashTransaction{}, err
	}

	value, err := numericToDecimal(amount)
	if err != nil {
		return domain.CashTransaction{}, err
	}

	if categoryID != nil {
		t.CategoryID = *categoryID
	}
	if categoryType != nil {
		t.CategoryType = domain.CategoryType(*categoryType)
	}
	t.Amount = value
	t.Date = dateToTime(date)

	return t, nil
}
