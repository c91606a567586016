// Package app assembles the server from configuration
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/calorietracker/backend/config"
	httpDelivery "github.com/calorietracker/backend/internal/delivery/http"
	"github.com/calorietracker/backend/internal/domain"
	"github.com/calorietracker/backend/internal/infrastructure/cache"
	"github.com/calorietracker/backend/internal/infrastructure/classifier"
	"github.com/calorietracker/backend/internal/infrastructure/storage"
	"github.com/calorietracker/backend/internal/infrastructure/usda"
	"github.com/calorietracker/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// App owns every long-lived dependency of the server
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Router *gin.Engine

	Nutrition *usecase.NutritionService
	Profiles  *usecase.ProfileService
	Journal   *usecase.JournalService

	cache  Cache
	store  *storage.SQLiteStorage
	server *http.Server
}

// Cache is a CacheRepository that holds resources until closed
type Cache interface {
	domain.CacheRepository
	Close() error
}

// NewLogger builds a production JSON logger or a development console logger
// at the given level.
func NewLogger(environment, level string) (*zap.Logger, error) {
	var zcfg zap.Config
	if environment == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	return zcfg.Build()
}

// NewCache returns the cache selected by cfg.Type
func NewCache(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Type {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case "memory", "":
		return cache.NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}

// NewNutritionService wires the USDA client and cache into a resolver.
// The returned closer releases the cache.
func NewNutritionService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*usecase.NutritionService, func() error, error) {
	c, err := NewCache(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("cache: %w", err)
	}

	return newNutritionService(cfg, c, logger), c.Close, nil
}

func newNutritionService(cfg *config.Config, c domain.CacheRepository, logger *zap.Logger) *usecase.NutritionService {
	lookup := usda.NewClient(usda.Config{
		APIKey:          cfg.USDA.APIKey,
		BaseURL:         cfg.USDA.BaseURL,
		RequestsPerHour: cfg.RateLimit.USDA,
		Timeout:         cfg.USDA.Timeout,
	}, logger)

	return usecase.NewNutritionService(lookup, c, usecase.NutritionServiceConfig{
		CacheTTL: cfg.Cache.TTL,
	}, logger)
}

// New wires configuration into a ready-to-serve App. Close must be called
// to release the cache and the record store.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c, err := NewCache(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	logger.Info("cache ready", zap.String("type", cfg.Cache.Type), zap.Duration("ttl", cfg.Cache.TTL))

	store, err := storage.NewSQLiteStorage(cfg.Storage.Path, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}
	logger.Info("record store ready", zap.String("path", cfg.Storage.Path))

	nutrition := newNutritionService(cfg, c, logger)

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Nutrition: nutrition,
		Profiles:  usecase.NewProfileService(store, logger),
		Journal:   usecase.NewJournalService(store, nutrition, logger),
		cache:     c,
		store:     store,
	}

	services := httpDelivery.Services{
		Nutrition: nutrition,
		Profiles:  a.Profiles,
		Journal:   a.Journal,
	}

	if cfg.Classifier.URL != "" {
		photo, err := classifier.NewClient(classifier.Config{
			URL:     cfg.Classifier.URL,
			APIKey:  cfg.Classifier.APIKey,
			Timeout: cfg.Classifier.Timeout,
		}, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("classifier: %w", err)
		}
		services.Recognizer = usecase.NewRecognitionService(photo, nutrition, cfg.Classifier.MinConfidence, logger)
		logger.Info("photo recognition enabled", zap.Float64("min_confidence", cfg.Classifier.MinConfidence))
	} else {
		logger.Warn("classifier url not set, photo recognition disabled")
	}

	handler := httpDelivery.NewHandler(services, logger)
	a.Router = httpDelivery.SetupRouter(cfg, handler, logger)
	a.server = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.String("environment", a.Config.Server.Environment))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Close releases the cache and the record store
func (a *App) Close() error {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}
