package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcher_DeliversToAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string
	boom := errors.New("boom")

	d.Subscribe(EventItemsReordered, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.CategoryID)
		return boom
	})
	d.Subscribe(EventItemsReordered, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.CategoryID)
		return nil
	})
	d.Subscribe(EventRestaurantChanged, func(context.Context, Event) error {
		t.Error("unrelated handler must not run")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventItemsReordered, CategoryID: "c1"})
	if !errors.Is(err, boom) {
		t.Errorf("expected joined handler error, got %v", err)
	}
	if len(got) != 2 || got[0] != "first:c1" || got[1] != "second:c1" {
		t.Errorf("unexpected deliveries %v", got)
	}
}

func TestDispatcher_NoHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	if err := d.Publish(context.Background(), Event{Type: EventCategoryDeleted}); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
