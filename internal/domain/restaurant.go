package domain

import "time"

// Restaurant holds the metadata behind the hero, about and location sections.
type Restaurant struct {
	Name         string    `json:"name"`
	Tagline      string    `json:"tagline"`
	About        string    `json:"about"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Hours        []string  `json:"hours"`
	HeroImageURL *string   `json:"heroImageUrl,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
