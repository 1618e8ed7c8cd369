package dto

import "github.com/spec-kit/restaurant-site/internal/domain"

// RestaurantRequest payload for PUT /admin/restaurant.
type RestaurantRequest struct {
	Name         string   `json:"name"`
	Tagline      string   `json:"tagline"`
	About        string   `json:"about"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	Hours        []string `json:"hours"`
	HeroImageURL *string  `json:"heroImageUrl"`
}

// ToDomain maps the request.
func (r RestaurantRequest) ToDomain() *domain.Restaurant {
	return &domain.Restaurant{
		Name:         r.Name,
		Tagline:      r.Tagline,
		About:        r.About,
		Address:      r.Address,
		Phone:        r.Phone,
		Email:        r.Email,
		Hours:        r.Hours,
		HeroImageURL: r.HeroImageURL,
	}
}
