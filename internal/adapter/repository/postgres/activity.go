package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/goforecast/internal/domain"
)

// activityTables names the transaction and projection tables hanging off a
// goal or debt.
type activityTables struct {
	transactions string
	projections  string
	parentColumn string
}

var (
	goalActivity = activityTables{
		transactions: "goal_transactions",
		projections:  "goal_projections",
		parentColumn: "goal_id",
	}
	debtActivity = activityTables{
		transactions: "debt_transactions",
		projections:  "debt_projections",
		parentColumn: "debt_id",
	}
)

type parented[T any] struct {
	parentID string
	value    T
}

// loadActivity fetches the transactions and projections of the given parents,
// grouped by parent ID and ordered by date.
func loadActivity(
	ctx context.Context,
	r *Reader,
	tables activityTables,
	parentIDs []string,
) (map[string][]domain.Transaction, map[string][]domain.Projection, error) {
	txnSQL := `
		SELECT id::text, ` + tables.parentColumn + `::text, amount, transaction_date,
		       planned_projection_id::text
		FROM ` + tables.transactions + `
		WHERE ` + tables.parentColumn + `::text = ANY($1)
		ORDER BY transaction_date, id
	`
	txns, err := queryAll(ctx, r, tables.transactions, txnSQL, scanActivityTransaction, parentIDs)
	if err != nil {
		return nil, nil, err
	}

	projSQL := `
		SELECT id::text, ` + tables.parentColumn + `::text, description, amount,
		       projection_date, status
		FROM ` + tables.projections + `
		WHERE ` + tables.parentColumn + `::text = ANY($1)
		ORDER BY projection_date, id
	`
	projs, err := queryAll(ctx, r, tables.projections, projSQL, scanActivityProjection, parentIDs)
	if err != nil {
		return nil, nil, err
	}

	byTxn := make(map[string][]domain.Transaction, len(parentIDs))
	for _, t := range txns {
		byTxn[t.parentID] = append(byTxn[t.parentID], t.value)
	}

	byProj := make(map[string][]domain.Projection, len(parentIDs))
	for _, p := range projs {
		byProj[p.parentID] = append(byProj[p.parentID], p.value)
	}

	return byTxn, byProj, nil
}

func scanActivityTransaction(row pgx.CollectableRow) (parented[domain.Transaction], error) {
	var (
		out          parented[domain.Transaction]
		amount       pgtype.Numeric
		date         pgtype.Date
		projectionID *string
	)

	if err := row.Scan(&out.value.ID, &out.parentID, &amount, &date, &projectionID); err != nil {
		return out, err
	}

	value, err := numericToDecimal(amount)
	if err != nil {
		return out, err
	}

	out.value.Amount = value
	out.value.Date = dateToTime(date)
	out.value.PlannedProjectionID = projectionID

	return out, nil
}

func scanActivityProjection(row pgx.CollectableRow) (parented[domain.Projection], error) {
	var (
		out    parented[domain.Projection]
		amount pgtype.Numeric
		date   pgtype.Date
		status string
	)

	if err := row.Scan(&out.value.ID, &out.parentID, &out.value.Description, &amount, &date, &status); err != nil {
		return out, err
	}

	value, err := numericToDecimal(amount)
	if err != nil {
		return out, err
	}

	out.value.Amount = value
	out.value.Date = dateToTime(date)
	out.value.Status = domain.ProjectionStatus(status)

	return out, nil
}
