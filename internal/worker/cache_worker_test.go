package worker

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-site/internal/cache"
	"github.com/spec-kit/restaurant-site/internal/events"
)

type recordingInvalidator struct {
	keys []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, keys ...string) error {
	r.keys = append(r.keys, keys...)
	return nil
}

func TestCacheInvalidationWorker(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	inv := &recordingInvalidator{}
	StartCacheInvalidationWorker(d, inv, zap.NewNop())

	ctx := context.Background()
	_ = d.Publish(ctx, events.Event{Type: events.EventItemsReordered, CategoryID: "c1"})
	_ = d.Publish(ctx, events.Event{Type: events.EventRestaurantChanged})

	if len(inv.keys) != 2 {
		t.Fatalf("expected 2 invalidations, got %v", inv.keys)
	}
	if inv.keys[0] != cache.KeyPublicCategories || inv.keys[1] != cache.KeyRestaurant {
		t.Errorf("unexpected keys %v", inv.keys)
	}
}
