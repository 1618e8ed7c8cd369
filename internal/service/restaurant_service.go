package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-site/internal/cache"
	"github.com/spec-kit/restaurant-site/internal/domain"
	"github.com/spec-kit/restaurant-site/internal/events"
	"github.com/spec-kit/restaurant-site/internal/repository"
	apperrors "github.com/spec-kit/restaurant-site/pkg/util/errorutil"
)

// RestaurantService serves and edits the restaurant metadata.
type RestaurantService struct {
	repo       repository.RestaurantRepository
	cache      *cache.ReadCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewRestaurantService constructs the service.
func NewRestaurantService(repo repository.RestaurantRepository, readCache *cache.ReadCache, dispatcher events.Dispatcher, logger *zap.Logger) *RestaurantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RestaurantService{repo: repo, cache: readCache, dispatcher: dispatcher, logger: logger}
}

// Public returns the cached restaurant metadata.
func (s *RestaurantService) Public(ctx context.Context) (*domain.Restaurant, error) {
	if s.cache == nil {
		return s.Get(ctx)
	}
	return cache.Fetch(ctx, s.cache, cache.KeyRestaurant, s.Get)
}

// Get reads the restaurant metadata from storage.
func (s *RestaurantService) Get(ctx context.Context) (*domain.Restaurant, error) {
	info, err := s.repo.Get(ctx)
	if err != nil {
		return nil, notFound(err, "restaurant")
	}
	if info.Hours == nil {
		info.Hours = []string{}
	}
	return info, nil
}

// Update replaces the restaurant metadata.
func (s *RestaurantService) Update(ctx context.Context, adminID string, info *domain.Restaurant) (*domain.Restaurant, error) {
	if strings.TrimSpace(info.Name) == "" {
		return nil, apperrors.NewValidationError("invalid restaurant", map[string]any{"name": "required"})
	}
	if err := s.repo.Update(ctx, info); err != nil {
		return nil, err
	}
	if s.dispatcher != nil {
		event := events.Event{ID: uuid.NewString(), Type: events.EventRestaurantChanged, AdminID: adminID, Timestamp: time.Now().UTC()}
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handlers failed", zap.String("event", string(event.Type)), zap.Error(err))
		}
	}
	return info, nil
}
