package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/restaurant-site/internal/api/http"
	"github.com/spec-kit/restaurant-site/internal/api/http/handlers"
	"github.com/spec-kit/restaurant-site/internal/auth"
	"github.com/spec-kit/restaurant-site/internal/cache"
	"github.com/spec-kit/restaurant-site/internal/config"
	"github.com/spec-kit/restaurant-site/internal/events"
	"github.com/spec-kit/restaurant-site/internal/observability"
	"github.com/spec-kit/restaurant-site/internal/persistence"
	"github.com/spec-kit/restaurant-site/internal/repository"
	"github.com/spec-kit/restaurant-site/internal/service"
	"github.com/spec-kit/restaurant-site/internal/worker"
)

type repositories struct {
	admins     repository.AdminRepository
	categories repository.CategoryRepository
	items      repository.ItemRepository
	restaurant repository.RestaurantRepository
	images     repository.ImageRepository
	ready      handlers.Pinger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg, logger)
	metrics := observability.NewMetrics()
	readCache := cache.NewReadCache(redis.Handle(), cfg.Cache.KeyPrefix, cfg.Cache.TTL(), logger)
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartCacheInvalidationWorker(dispatcher, readCache, logger)

	revocations := auth.NewRedisRevocations(redis.Handle(), cfg.Cache.KeyPrefix)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AdminRepo:   repos.admins,
		Revocations: revocations,
	})
	if cfg.Admin.Email != "" {
		if _, err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			logger.Fatal("failed to seed admin", zap.Error(err))
		}
		logger.Info("admin account ensured", zap.String("email", cfg.Admin.Email))
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.admins, revocations, logger)

	menuService := service.NewMenuService(service.MenuDependencies{
		CategoryRepo: repos.categories,
		ItemRepo:     repos.items,
		Cache:        readCache,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	restaurantService := service.NewRestaurantService(repos.restaurant, readCache, dispatcher, logger)
	imageService := service.NewImageService(repos.images, cfg.Uploads, cfg.App.PublicBaseURL)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Uploads.MaxSizeBytes) + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, repos.ready, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Menu:           handlers.NewMenuHandler(menuService),
		Restaurant:     handlers.NewRestaurantHandler(restaurantService),
		Images:         handlers.NewImageHandler(imageService),
		AuthMiddleware: authMiddleware,
		UploadsDir:     imageService.Dir(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// buildRepositories falls back to process memory when no database is configured.
func buildRepositories(pg *persistence.Postgres, logger *zap.Logger) repositories {
	pool := pg.PoolHandle()
	if pool == nil {
		logger.Warn("using in-memory storage; data is lost on restart")
		store := repository.NewMemoryStore()
		return repositories{
			admins:     store.Admins(),
			categories: store.Categories(),
			items:      store.Items(),
			restaurant: store.Restaurant(),
			images:     store.Images(),
			ready:      handlers.PingerFunc(func(context.Context) error { return nil }),
		}
	}
	return repositories{
		admins:     repository.NewAdminRepository(pool),
		categories: repository.NewCategoryRepository(pool),
		items:      repository.NewItemRepository(pool),
		restaurant: repository.NewRestaurantRepository(pool),
		images:     repository.NewImageRepository(pool),
		ready:      pg,
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
