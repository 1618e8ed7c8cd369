package service

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/spec-kit/restaurant-site/internal/domain"
	"github.com/spec-kit/restaurant-site/internal/events"
	"github.com/spec-kit/restaurant-site/internal/repository"
	apperrors "github.com/spec-kit/restaurant-site/pkg/util/errorutil"
)

func newMenuService(t *testing.T) (*MenuService, *repository.MemoryStore, *[]events.Event) {
	t.Helper()
	store := repository.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()
	published := &[]events.Event{}
	record := func(_ context.Context, e events.Event) error {
		*published = append(*published, e)
		return nil
	}
	for _, et := range []events.EventType{
		events.EventCategoryChanged, events.EventCategoryDeleted,
		events.EventItemsChanged, events.EventItemsReordered,
	} {
		dispatcher.Subscribe(et, record)
	}
	svc := NewMenuService(MenuDependencies{
		CategoryRepo: store.Categories(),
		ItemRepo:     store.Items(),
		Dispatcher:   dispatcher,
	})
	return svc, store, published
}

// seed creates a category holding the named items without recording events.
func seed(t *testing.T, store *repository.MemoryStore, name string, sortOrder int, visible bool, items ...domain.Item) string {
	t.Helper()
	ctx := context.Background()
	category := &domain.Category{Name: name, SortOrder: sortOrder, IsVisible: visible}
	if err := store.Categories().Create(ctx, category); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	for i := range items {
		items[i].CategoryID = category.ID
		if err := store.Items().Create(ctx, &items[i]); err != nil {
			t.Fatalf("seed item: %v", err)
		}
	}
	return category.ID
}

func statusOf(err error) int {
	return apperrors.ToDomainError(err).HTTPStatus
}

func TestPublicCategories_FiltersHiddenAndUnavailable(t *testing.T) {
	svc, store, _ := newMenuService(t)
	seed(t, store, "Mains", 1, true,
		domain.Item{Name: "Ramen", IsAvailable: true},
		domain.Item{Name: "Udon", IsAvailable: false},
	)
	seed(t, store, "Secret", 2, false, domain.Item{Name: "Omakase", IsAvailable: true})

	got, err := svc.PublicCategories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Mains" {
		t.Fatalf("expected only Mains, got %+v", got)
	}
	if names := got[0].ItemNames(); !reflect.DeepEqual(names, []string{"Ramen"}) {
		t.Errorf("expected only available items, got %v", names)
	}
}

func TestReorderItems(t *testing.T) {
	svc, store, published := newMenuService(t)
	id := seed(t, store, "Mains", 1, true,
		domain.Item{Name: "A"}, domain.Item{Name: "B"}, domain.Item{Name: "C"},
	)
	ctx := context.Background()

	if err := svc.ReorderItems(ctx, "admin-1", id, []string{"C", "A", "B"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, _ := store.Categories().GetByID(ctx, id)
	if names := c.ItemNames(); !reflect.DeepEqual(names, []string{"C", "A", "B"}) {
		t.Errorf("expected stored order C,A,B, got %v", names)
	}
	if len(*published) != 1 || (*published)[0].Type != events.EventItemsReordered {
		t.Errorf("expected one reorder event, got %+v", *published)
	}

	tests := []struct {
		name  string
		names []string
	}{
		{"missing item", []string{"C", "A"}},
		{"duplicate item", []string{"C", "C", "A"}},
		{"unknown item", []string{"C", "A", "Z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ReorderItems(ctx, "admin-1", id, tt.names)
			if statusOf(err) != http.StatusBadRequest {
				t.Errorf("expected 400, got %v", err)
			}
		})
	}

	if err := svc.ReorderItems(ctx, "admin-1", "missing", []string{}); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404 for unknown category, got %v", err)
	}
	c, _ = store.Categories().GetByID(ctx, id)
	if names := c.ItemNames(); !reflect.DeepEqual(names, []string{"C", "A", "B"}) {
		t.Errorf("rejected reorders must not touch storage, got %v", names)
	}
}

func TestItemLifecycle(t *testing.T) {
	svc, store, published := newMenuService(t)
	id := seed(t, store, "Drinks", 1, true)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, "admin-1", id, &domain.Item{Name: "Tea", Price: 3.5, IsAvailable: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID == "" {
		t.Error("expected an assigned id")
	}

	if _, err := svc.CreateItem(ctx, "admin-1", id, &domain.Item{Name: "Tea", Price: 1}); statusOf(err) != http.StatusConflict {
		t.Errorf("expected 409 for duplicate name, got %v", err)
	}
	if _, err := svc.CreateItem(ctx, "admin-1", id, &domain.Item{Name: "Cola", Price: -1}); statusOf(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for negative price, got %v", err)
	}
	if _, err := svc.CreateItem(ctx, "admin-1", "nope", &domain.Item{Name: "Cola"}); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404 for unknown category, got %v", err)
	}

	updated, err := svc.UpdateItem(ctx, "admin-1", id, "Tea", &domain.Item{Name: "Green Tea", Price: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ID != item.ID {
		t.Error("rename must keep the item id")
	}

	if err := svc.DeleteItem(ctx, "admin-1", id, "Tea"); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404 for old name, got %v", err)
	}
	if err := svc.DeleteItem(ctx, "admin-1", id, "Green Tea"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(*published) != 3 {
		t.Errorf("expected create, update and delete events, got %d", len(*published))
	}
}

func TestCategoryLifecycle(t *testing.T) {
	svc, _, _ := newMenuService(t)
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, "admin-1", &domain.Category{}); statusOf(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for empty name, got %v", err)
	}

	created, err := svc.CreateCategory(ctx, "admin-1", &domain.Category{Name: "Desserts", ColorTag: "pink", IsVisible: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, err := svc.UpdateCategory(ctx, "admin-1", created.ID, &domain.Category{Name: "Sweets", SortOrder: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Sweets" || updated.SortOrder != 4 || updated.IsVisible {
		t.Errorf("unexpected update result %+v", updated)
	}

	if err := svc.DeleteCategory(ctx, "admin-1", created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = svc.DeleteCategory(ctx, "admin-1", created.ID)
	var de *apperrors.DomainError
	if !errors.As(err, &de) || de.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND on second delete, got %v", err)
	}
}

func TestIsPermutation(t *testing.T) {
	if !isPermutation([]string{}, []string{}) {
		t.Error("empty lists are permutations of each other")
	}
	if !isPermutation([]string{"a", "b"}, []string{"b", "a"}) {
		t.Error("expected permutation")
	}
	if isPermutation([]string{"a", "b"}, []string{"a", "a"}) {
		t.Error("duplicates are not a permutation")
	}
}
