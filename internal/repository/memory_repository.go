package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/restaurant-site/internal/domain"
)

// MemoryStore keeps every repository in process memory. It backs the API when no database is
// configured and doubles as the fake in tests. It reports the same errors as Postgres would
// (pgx.ErrNoRows, unique violations) so callers cannot tell the two apart.
type MemoryStore struct {
	mu         sync.Mutex
	admins     map[string]domain.Admin
	categories map[string]*domain.Category
	restaurant domain.Restaurant
	images     []domain.Image
}

// NewMemoryStore builds an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		admins:     map[string]domain.Admin{},
		categories: map[string]*domain.Category{},
		restaurant: domain.Restaurant{Hours: []string{}},
	}
}

func (s *MemoryStore) Admins() AdminRepository { return memoryAdmins{s} }
func (s *MemoryStore) Categories() CategoryRepository { return memoryCategories{s} }
func (s *MemoryStore) Items() ItemRepository { return memoryItems{s} }
func (s *MemoryStore) Restaurant() RestaurantRepository { return memoryRestaurant{s} }
func (s *MemoryStore) Images() ImageRepository { return memoryImages{s} }

func copyCategory(c *domain.Category) domain.Category {
	out := *c
	out.Items = append([]domain.Item{}, c.Items...)
	return out
}

type memoryAdmins struct{ s *MemoryStore }

func (r memoryAdmins) Upsert(_ context.Context, admin *domain.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	for id, existing := range r.s.admins {
		if existing.Email == admin.Email {
			admin.ID = id
			admin.CreatedAt = existing.CreatedAt
			admin.UpdatedAt = now
			r.s.admins[id] = *admin
			return nil
		}
	}
	admin.ID = uuid.NewString()
	admin.CreatedAt, admin.UpdatedAt = now, now
	r.s.admins[admin.ID] = *admin
	return nil
}

func (r memoryAdmins) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	admin, ok := r.s.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &admin, nil
}

func (r memoryAdmins) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, admin := range r.s.admins {
		if admin.Email == email {
			a := admin
			return &a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memoryCategories struct{ s *MemoryStore }

func (r memoryCategories) List(context.Context) ([]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, copyCategory(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r memoryCategories) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := copyCategory(c)
	return &out, nil
}

func (r memoryCategories) Create(_ context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	category.ID = uuid.NewString()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	stored := *category
	stored.Items = []domain.Item{}
	r.s.categories[category.ID] = &stored
	return nil
}

func (r memoryCategories) Update(_ context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.categories[category.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	category.UpdatedAt = time.Now()
	stored := *category
	stored.Items = existing.Items
	r.s.categories[category.ID] = &stored
	return nil
}

func (r memoryCategories) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.categories, id)
	return nil
}

type memoryItems struct{ s *MemoryStore }

func (r memoryItems) ListByCategory(_ context.Context, categoryID string) ([]domain.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[categoryID]
	if !ok {
		return []domain.Item{}, nil
	}
	return append([]domain.Item{}, c.Items...), nil
}

func (r memoryItems) Create(_ context.Context, item *domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[item.CategoryID]
	if !ok {
		return &pgconn.PgError{Code: "23503", Message: "category does not exist"}
	}
	for _, existing := range c.Items {
		if existing.Name == item.Name {
			return &pgconn.PgError{Code: "23505", Message: "duplicate item name"}
		}
	}
	item.ID = uuid.NewString()
	item.Position = len(c.Items)
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	c.Items = append(c.Items, *item)
	return nil
}

func (r memoryItems) Update(_ context.Context, categoryID, name string, item *domain.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[categoryID]
	if !ok {
		return pgx.ErrNoRows
	}
	idx := -1
	for i := range c.Items {
		if c.Items[i].Name == name {
			idx = i
		} else if c.Items[i].Name == item.Name {
			return &pgconn.PgError{Code: "23505", Message: "duplicate item name"}
		}
	}
	if idx < 0 {
		return pgx.ErrNoRows
	}
	existing := c.Items[idx]
	item.ID = existing.ID
	item.CategoryID = categoryID
	item.Position = existing.Position
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now()
	c.Items[idx] = *item
	return nil
}

func (r memoryItems) Delete(_ context.Context, categoryID, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[categoryID]
	if !ok {
		return pgx.ErrNoRows
	}
	for i := range c.Items {
		if c.Items[i].Name == name {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r memoryItems) Reorder(_ context.Context, categoryID string, namesInOrder []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[categoryID]
	if !ok {
		return pgx.ErrNoRows
	}
	byName := make(map[string]domain.Item, len(c.Items))
	for _, item := range c.Items {
		byName[item.Name] = item
	}
	reordered := make([]domain.Item, 0, len(namesInOrder))
	for position, name := range namesInOrder {
		item, ok := byName[name]
		if !ok {
			return pgx.ErrNoRows
		}
		item.Position = position
		reordered = append(reordered, item)
	}
	c.Items = reordered
	return nil
}

type memoryRestaurant struct{ s *MemoryStore }

func (r memoryRestaurant) Get(context.Context) (*domain.Restaurant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	info := r.s.restaurant
	info.Hours = append([]string{}, info.Hours...)
	return &info, nil
}

func (r memoryRestaurant) Update(_ context.Context, info *domain.Restaurant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	info.UpdatedAt = time.Now()
	stored := *info
	stored.Hours = append([]string{}, info.Hours...)
	r.s.restaurant = stored
	return nil
}

type memoryImages struct{ s *MemoryStore }

func (r memoryImages) Create(_ context.Context, image *domain.Image) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	image.CreatedAt = time.Now()
	r.s.images = append([]domain.Image{*image}, r.s.images...)
	return nil
}

func (r memoryImages) List(context.Context) ([]domain.Image, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.Image{}, r.s.images...), nil
}
