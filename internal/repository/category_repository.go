package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/restaurant-site/internal/domain"
)

// CategoryRepository manages menu categories and loads them with their items.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository builds the repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

const categoryColumns = `id, name, color_tag, icon_glyph, sort_order, is_visible, image_url, created_at, updated_at`

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM menu_categories ORDER BY sort_order, name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	index := map[string]int{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		index[category.ID] = len(result)
		result = append(result, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := listItems(ctx, r.pool, `
        SELECT `+itemColumns+` FROM menu_items ORDER BY category_id, position, name`)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if i, ok := index[item.CategoryID]; ok {
			result[i].Items = append(result[i].Items, item)
		}
	}
	for i := range result {
		if result[i].Items == nil {
			result[i].Items = []domain.Item{}
		}
	}
	return result, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM menu_categories WHERE id=$1`
	category, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	items, err := listItems(ctx, r.pool, `
        SELECT `+itemColumns+` FROM menu_items WHERE category_id=$1 ORDER BY position, name`, id)
	if err != nil {
		return nil, err
	}
	category.Items = items
	return category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO menu_categories (name, color_tag, icon_glyph, sort_order, is_visible, image_url)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		category.Name,
		category.ColorTag,
		category.IconGlyph,
		category.SortOrder,
		category.IsVisible,
		category.ImageURL,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	const query = `
        UPDATE menu_categories
        SET name=$1, color_tag=$2, icon_glyph=$3, sort_order=$4, is_visible=$5, image_url=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		category.Name,
		category.ColorTag,
		category.IconGlyph,
		category.SortOrder,
		category.IsVisible,
		category.ImageURL,
		category.ID,
	).Scan(&category.UpdatedAt)
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM menu_categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var category domain.Category
	if err := row.Scan(
		&category.ID,
		&category.Name,
		&category.ColorTag,
		&category.IconGlyph,
		&category.SortOrder,
		&category.IsVisible,
		&category.ImageURL,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}
