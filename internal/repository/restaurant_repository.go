package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/restaurant-site/internal/domain"
)

// RestaurantRepository reads and writes the single restaurant_info row.
type RestaurantRepository interface {
	Get(ctx context.Context) (*domain.Restaurant, error)
	Update(ctx context.Context, info *domain.Restaurant) error
}

type restaurantRepository struct {
	pool *pgxpool.Pool
}

// NewRestaurantRepository builds the repository.
func NewRestaurantRepository(pool *pgxpool.Pool) RestaurantRepository {
	return &restaurantRepository{pool: pool}
}

func (r *restaurantRepository) Get(ctx context.Context) (*domain.Restaurant, error) {
	const query = `
        SELECT name, tagline, about, address, phone, email, hours, hero_image_url, updated_at
        FROM restaurant_info WHERE id=1`
	var info domain.Restaurant
	if err := r.pool.QueryRow(ctx, query).Scan(
		&info.Name,
		&info.Tagline,
		&info.About,
		&info.Address,
		&info.Phone,
		&info.Email,
		&info.Hours,
		&info.HeroImageURL,
		&info.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *restaurantRepository) Update(ctx context.Context, info *domain.Restaurant) error {
	const query = `
        INSERT INTO restaurant_info (id, name, tagline, about, address, phone, email, hours, hero_image_url)
        VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (id) DO UPDATE SET
            name=EXCLUDED.name, tagline=EXCLUDED.tagline, about=EXCLUDED.about,
            address=EXCLUDED.address, phone=EXCLUDED.phone, email=EXCLUDED.email,
            hours=EXCLUDED.hours, hero_image_url=EXCLUDED.hero_image_url, updated_at=NOW()
        RETURNING updated_at`
	hours := info.Hours
	if hours == nil {
		hours = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		info.Name,
		info.Tagline,
		info.About,
		info.Address,
		info.Phone,
		info.Email,
		hours,
		info.HeroImageURL,
	).Scan(&info.UpdatedAt)
}
