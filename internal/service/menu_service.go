package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-site/internal/cache"
	"github.com/spec-kit/restaurant-site/internal/domain"
	"github.com/spec-kit/restaurant-site/internal/events"
	"github.com/spec-kit/restaurant-site/internal/repository"
	apperrors "github.com/spec-kit/restaurant-site/pkg/util/errorutil"
)

// MenuService coordinates category and item workflows.
type MenuService struct {
	categories repository.CategoryRepository
	items      repository.ItemRepository
	cache      *cache.ReadCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// MenuDependencies bundles collaborators for the menu service.
type MenuDependencies struct {
	CategoryRepo repository.CategoryRepository
	ItemRepo     repository.ItemRepository
	Cache        *cache.ReadCache
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewMenuService constructs the service.
func NewMenuService(deps MenuDependencies) *MenuService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MenuService{
		categories: deps.CategoryRepo,
		items:      deps.ItemRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// PublicCategories returns visible categories holding only available items.
func (s *MenuService) PublicCategories(ctx context.Context) ([]domain.Category, error) {
	load := func(ctx context.Context) ([]domain.Category, error) {
		all, err := s.categories.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Category, 0, len(all))
		for _, c := range all {
			if view, ok := c.PublicView(); ok {
				out = append(out, view)
			}
		}
		return out, nil
	}
	if s.cache == nil {
		return load(ctx)
	}
	return cache.Fetch(ctx, s.cache, cache.KeyPublicCategories, load)
}

// AdminCategories returns every category with all items in display order.
func (s *MenuService) AdminCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

// CreateCategory validates and stores a new category.
func (s *MenuService) CreateCategory(ctx context.Context, adminID string, category *domain.Category) (*domain.Category, error) {
	if problems := category.Validate(); problems != nil {
		return nil, apperrors.NewValidationError("invalid category", problems)
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	category.Items = []domain.Item{}
	s.publish(ctx, events.EventCategoryChanged, adminID, category.ID, nil)
	return category, nil
}

// UpdateCategory overwrites the editable fields of an existing category.
func (s *MenuService) UpdateCategory(ctx context.Context, adminID, id string, input *domain.Category) (*domain.Category, error) {
	if problems := input.Validate(); problems != nil {
		return nil, apperrors.NewValidationError("invalid category", problems)
	}
	existing, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	existing.Name = input.Name
	existing.ColorTag = input.ColorTag
	existing.IconGlyph = input.IconGlyph
	existing.SortOrder = input.SortOrder
	existing.IsVisible = input.IsVisible
	existing.ImageURL = input.ImageURL
	if err := s.categories.Update(ctx, existing); err != nil {
		return nil, notFound(err, "category")
	}
	s.publish(ctx, events.EventCategoryChanged, adminID, id, nil)
	return existing, nil
}

// DeleteCategory removes a category and its items.
func (s *MenuService) DeleteCategory(ctx context.Context, adminID, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return notFound(err, "category")
	}
	s.publish(ctx, events.EventCategoryDeleted, adminID, id, nil)
	return nil
}

// CreateItem appends a new item to the end of the category.
func (s *MenuService) CreateItem(ctx context.Context, adminID, categoryID string, item *domain.Item) (*domain.Item, error) {
	if problems := item.Validate(); problems != nil {
		return nil, apperrors.NewValidationError("invalid item", problems)
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, notFound(err, "category")
	}
	item.CategoryID = categoryID
	if err := s.items.Create(ctx, item); err != nil {
		return nil, duplicateName(err, item.Name)
	}
	s.publish(ctx, events.EventItemsChanged, adminID, categoryID, events.ItemChangedPayload{ItemName: item.Name})
	return item, nil
}

// UpdateItem overwrites the item currently named name.
func (s *MenuService) UpdateItem(ctx context.Context, adminID, categoryID, name string, item *domain.Item) (*domain.Item, error) {
	if problems := item.Validate(); problems != nil {
		return nil, apperrors.NewValidationError("invalid item", problems)
	}
	if err := s.items.Update(ctx, categoryID, name, item); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("item", map[string]any{"name": name})
		}
		return nil, duplicateName(err, item.Name)
	}
	s.publish(ctx, events.EventItemsChanged, adminID, categoryID, events.ItemChangedPayload{ItemName: item.Name})
	return item, nil
}

// DeleteItem removes the item named name from the category.
func (s *MenuService) DeleteItem(ctx context.Context, adminID, categoryID, name string) error {
	if err := s.items.Delete(ctx, categoryID, name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("item", map[string]any{"name": name})
		}
		return err
	}
	s.publish(ctx, events.EventItemsChanged, adminID, categoryID, events.ItemChangedPayload{ItemName: name, Deleted: true})
	return nil
}

// ReorderItems persists a new display order. names must be a permutation of the category's
// current item names.
func (s *MenuService) ReorderItems(ctx context.Context, adminID, categoryID string, names []string) error {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return notFound(err, "category")
	}
	current := category.ItemNames()
	if !isPermutation(current, names) {
		return apperrors.NewValidationError("itemNamesInOrder must list every item of the category exactly once",
			map[string]any{"expected": current, "received": names})
	}
	if err := s.items.Reorder(ctx, categoryID, names); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// an item was renamed or deleted between the check and the write
			return apperrors.NewConflict("category items changed during reorder", nil)
		}
		return err
	}
	s.publish(ctx, events.EventItemsReordered, adminID, categoryID, events.ItemsReorderedPayload{ItemNamesInOrder: names})
	return nil
}

func (s *MenuService) publish(ctx context.Context, t events.EventType, adminID, categoryID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:         uuid.NewString(),
		Type:       t,
		CategoryID: categoryID,
		AdminID:    adminID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event", string(t)), zap.Error(err))
	}
}

func isPermutation(current, proposed []string) bool {
	if len(current) != len(proposed) {
		return false
	}
	remaining := make(map[string]int, len(current))
	for _, name := range current {
		remaining[name]++
	}
	for _, name := range proposed {
		if remaining[name] == 0 {
			return false
		}
		remaining[name]--
	}
	return true
}

func notFound(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

func duplicateName(err error, name string) error {
	if apperrors.IsUniqueViolation(err) {
		return apperrors.NewConflict("an item with this name already exists in the category", map[string]any{"name": name})
	}
	return err
}
