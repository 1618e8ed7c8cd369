package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/restaurant-site/internal/domain"
)

// ImageRepository persists uploaded image metadata.
type ImageRepository interface {
	Create(ctx context.Context, image *domain.Image) error
	List(ctx context.Context) ([]domain.Image, error)
}

type imageRepository struct {
	pool *pgxpool.Pool
}

// NewImageRepository constructs repository.
func NewImageRepository(pool *pgxpool.Pool) ImageRepository {
	return &imageRepository{pool: pool}
}

func (r *imageRepository) Create(ctx context.Context, image *domain.Image) error {
	const query = `
        INSERT INTO images (id, file_name, storage_key, content_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		image.ID,
		image.FileName,
		image.StorageKey,
		image.ContentType,
		image.SizeBytes,
	).Scan(&image.CreatedAt)
}

func (r *imageRepository) List(ctx context.Context) ([]domain.Image, error) {
	const query = `
        SELECT id, file_name, storage_key, content_type, size_bytes, created_at
        FROM images ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Image
	for rows.Next() {
		var image domain.Image
		if err := rows.Scan(
			&image.ID,
			&image.FileName,
			&image.StorageKey,
			&image.ContentType,
			&image.SizeBytes,
			&image.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, image)
	}
	return result, rows.Err()
}
