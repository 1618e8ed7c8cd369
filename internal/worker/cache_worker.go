package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-site/internal/cache"
	"github.com/spec-kit/restaurant-site/internal/events"
)

// Invalidator is the part of the read cache the worker needs.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// StartCacheInvalidationWorker drops public read models whenever the menu or restaurant changes.
func StartCacheInvalidationWorker(dispatcher events.Dispatcher, readCache Invalidator, logger *zap.Logger) {
	if dispatcher == nil || readCache == nil {
		return
	}

	menu := func(ctx context.Context, e events.Event) error {
		if err := readCache.Invalidate(ctx, cache.KeyPublicCategories); err != nil {
			logger.Warn("menu cache invalidation failed", zap.String("event", string(e.Type)), zap.Error(err))
			return err
		}
		logger.Debug("menu cache invalidated", zap.String("event", string(e.Type)), zap.String("category_id", e.CategoryID))
		return nil
	}
	for _, t := range []events.EventType{
		events.EventCategoryChanged,
		events.EventCategoryDeleted,
		events.EventItemsChanged,
		events.EventItemsReordered,
	} {
		dispatcher.Subscribe(t, menu)
	}

	dispatcher.Subscribe(events.EventRestaurantChanged, func(ctx context.Context, e events.Event) error {
		if err := readCache.Invalidate(ctx, cache.KeyRestaurant); err != nil {
			logger.Warn("restaurant cache invalidation failed", zap.Error(err))
			return err
		}
		return nil
	})
}
