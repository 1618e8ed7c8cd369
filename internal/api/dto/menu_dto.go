package dto

import "github.com/spec-kit/restaurant-site/internal/domain"

// CategoryRequest payload for creating or updating a category.
type CategoryRequest struct {
	Name      string  `json:"name"`
	ColorTag  string  `json:"colorTag"`
	IconGlyph string  `json:"iconGlyph"`
	SortOrder int     `json:"sortOrder"`
	IsVisible *bool   `json:"isVisible"`
	ImageURL  *string `json:"imageUrl"`
}

// ToDomain maps the request; categories are visible unless stated otherwise.
func (r CategoryRequest) ToDomain() *domain.Category {
	visible := true
	if r.IsVisible != nil {
		visible = *r.IsVisible
	}
	return &domain.Category{
		Name:      r.Name,
		ColorTag:  r.ColorTag,
		IconGlyph: r.IconGlyph,
		SortOrder: r.SortOrder,
		IsVisible: visible,
		ImageURL:  r.ImageURL,
	}
}

// ItemRequest payload for creating or updating an item.
type ItemRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	IsAvailable *bool   `json:"isAvailable"`
}

// ToDomain maps the request; items are available unless stated otherwise.
func (r ItemRequest) ToDomain() *domain.Item {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	return &domain.Item{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		IsAvailable: available,
	}
}

// ReorderItemsRequest payload for PUT /admin/categories/:id/reorder-items.
type ReorderItemsRequest struct {
	ItemNamesInOrder []string `json:"itemNamesInOrder"`
}
