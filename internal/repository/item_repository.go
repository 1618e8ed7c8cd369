package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/restaurant-site/internal/domain"
)

// ItemRepository manages menu items, addressed by category and name.
type ItemRepository interface {
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Item, error)
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, categoryID, name string, item *domain.Item) error
	Delete(ctx context.Context, categoryID, name string) error
	Reorder(ctx context.Context, categoryID string, namesInOrder []string) error
}

type itemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository builds the repository.
func NewItemRepository(pool *pgxpool.Pool) ItemRepository {
	return &itemRepository{pool: pool}
}

const itemColumns = `id, category_id, name, price, description, is_available, position, created_at, updated_at`

func (r *itemRepository) ListByCategory(ctx context.Context, categoryID string) ([]domain.Item, error) {
	return listItems(ctx, r.pool, `
        SELECT `+itemColumns+` FROM menu_items WHERE category_id=$1 ORDER BY position, name`, categoryID)
}

// Create appends the item to the end of its category.
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	const query = `
        INSERT INTO menu_items (category_id, name, price, description, is_available, position)
        VALUES ($1,$2,$3,$4,$5,
            (SELECT COALESCE(MAX(position) + 1, 0) FROM menu_items WHERE category_id=$1))
        RETURNING id, position, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		item.CategoryID,
		item.Name,
		item.Price,
		item.Description,
		item.IsAvailable,
	).Scan(&item.ID, &item.Position, &item.CreatedAt, &item.UpdatedAt)
}

func (r *itemRepository) Update(ctx context.Context, categoryID, name string, item *domain.Item) error {
	const query = `
        UPDATE menu_items
        SET name=$1, price=$2, description=$3, is_available=$4, updated_at=NOW()
        WHERE category_id=$5 AND name=$6
        RETURNING id, category_id, position, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		item.Name,
		item.Price,
		item.Description,
		item.IsAvailable,
		categoryID,
		name,
	).Scan(&item.ID, &item.CategoryID, &item.Position, &item.CreatedAt, &item.UpdatedAt)
}

func (r *itemRepository) Delete(ctx context.Context, categoryID, name string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE category_id=$1 AND name=$2`, categoryID, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Reorder rewrites item positions in one transaction; position i goes to namesInOrder[i].
func (r *itemRepository) Reorder(ctx context.Context, categoryID string, namesInOrder []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for position, name := range namesInOrder {
		batch.Queue(`
            UPDATE menu_items SET position=$1, updated_at=NOW()
            WHERE category_id=$2 AND name=$3`, position, categoryID, name)
	}
	results := tx.SendBatch(ctx, batch)
	for _, name := range namesInOrder {
		cmd, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return err
		}
		if cmd.RowsAffected() == 0 {
			_ = results.Close()
			return fmt.Errorf("reorder item %q: %w", name, pgx.ErrNoRows)
		}
	}
	if err := results.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func listItems(ctx context.Context, db querier, query string, args ...any) ([]domain.Item, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Item{}
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(
			&item.ID,
			&item.CategoryID,
			&item.Name,
			&item.Price,
			&item.Description,
			&item.IsAvailable,
			&item.Position,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
