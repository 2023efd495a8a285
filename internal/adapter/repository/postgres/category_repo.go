package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/iho/goforecast/internal/domain"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	reader *Reader
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(reader *Reader) *CategoryRepository {
	return &CategoryRepository{reader: reader}
}

// ListByUser retrieves the categories visible to the user. Categories are
// shared across users, so every category is returned.
func (r *CategoryRepository) ListByUser(ctx context.Context, _ string) (domain.Categories, error) {
	const query = `SELECT id::text, name, type FROM categories ORDER BY name, id`

	categories, err := queryAll(ctx, r.reader, "categories", query, scanCategory)
	if err != nil {
		return nil, err
	}

	return domain.Categories(categories), nil
}

func scanCategory(row pgx.CollectableRow) (domain.Category, error) {
	var (
		c   domain.Category
		typ string
	)

	if err := row.Scan(&c.ID, &c.Name, &typ); err != nil {
		return domain.Category{}, err
	}
	c.Type = domain.CategoryType(typ)

	return c, nil
}
