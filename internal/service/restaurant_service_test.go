package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/spec-kit/restaurant-site/internal/domain"
	"github.com/spec-kit/restaurant-site/internal/events"
	"github.com/spec-kit/restaurant-site/internal/repository"
)

func TestRestaurantService(t *testing.T) {
	repo := repository.NewMemoryStore().Restaurant()
	dispatcher := events.NewInMemoryDispatcher()
	changed := 0
	dispatcher.Subscribe(events.EventRestaurantChanged, func(context.Context, events.Event) error {
		changed++
		return nil
	})
	svc := NewRestaurantService(repo, nil, dispatcher, nil)
	ctx := context.Background()

	if _, err := svc.Update(ctx, "admin-1", &domain.Restaurant{}); statusOf(err) != http.StatusBadRequest {
		t.Errorf("expected 400 without a name, got %v", err)
	}

	if _, err := svc.Update(ctx, "admin-1", &domain.Restaurant{Name: "Kumo", Hours: []string{"Mon-Fri 11-22"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := svc.Public(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Kumo" || len(got.Hours) != 1 {
		t.Errorf("unexpected restaurant %+v", got)
	}
	if changed != 1 {
		t.Errorf("expected one change event, got %d", changed)
	}
}
