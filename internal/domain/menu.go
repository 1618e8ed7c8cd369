package domain

import (
	"strings"
	"time"
)

// Category is a named group of menu items shown as one section of the menu.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ColorTag  string    `json:"colorTag"`
	IconGlyph string    `json:"iconGlyph"`
	SortOrder int       `json:"sortOrder"`
	IsVisible bool      `json:"isVisible"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Item is a purchasable entry. Its position in Category.Items is its display order.
type Item struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"-"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	IsAvailable bool      `json:"isAvailable"`
	Position    int       `json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Validate checks the fields an admin form must provide.
func (c Category) Validate() map[string]any {
	problems := map[string]any{}
	if strings.TrimSpace(c.Name) == "" {
		problems["name"] = "required"
	}
	if c.SortOrder < 0 {
		problems["sortOrder"] = "must not be negative"
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// Validate checks the fields an admin form must provide.
func (i Item) Validate() map[string]any {
	problems := map[string]any{}
	if strings.TrimSpace(i.Name) == "" {
		problems["name"] = "required"
	}
	if i.Price < 0 {
		problems["price"] = "must not be negative"
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// ItemNames returns the item names in display order.
func (c Category) ItemNames() []string {
	names := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		names = append(names, item.Name)
	}
	return names
}

// PublicView returns a copy holding only available items, or false when the category is hidden.
func (c Category) PublicView() (Category, bool) {
	if !c.IsVisible {
		return Category{}, false
	}
	out := c
	out.Items = make([]Item, 0, len(c.Items))
	for _, item := range c.Items {
		if item.IsAvailable {
			out.Items = append(out.Items, item)
		}
	}
	return out, true
}
