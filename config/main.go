package config

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/akeren/levelup-fit/config/router"
	"github.com/akeren/levelup-fit/internal/log"
	"github.com/akeren/levelup-fit/internal/models"
	"gorm.io/gorm"
)

// ApplicationConfig holds the process-wide dependencies the domains are
// wired against.
type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Settings        *Settings
	Waitlist        *WaitlistConfig
	TracingShutdown func(context.Context) error

	mu            sync.Mutex
	shutdownHooks []func(context.Context) error
}

// OnShutdown registers work that must finish after the HTTP server stops
// accepting requests and before connections are closed.
func (ac *ApplicationConfig) OnShutdown(hook func(context.Context) error) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.shutdownHooks = append(ac.shutdownHooks, hook)
}

// Drain runs the shutdown hooks in registration order.
func (ac *ApplicationConfig) Drain(ctx context.Context) error {
	ac.mu.Lock()
	hooks := append([]func(context.Context) error(nil), ac.shutdownHooks...)
	ac.mu.Unlock()

	var errs []error
	for _, hook := range hooks {
		if err := hook(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	CloseDatabase(ac.DB, ac.Logger)

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	_ = CloseCache(ac.Cache, ac.Logger)

	ac.Logger.Info("Application cleanup completed")
}

// LoadApplicationConfiguration connects the backends the settings ask for
// and builds the router. The database is opened only when the waitlist
// stores entries there or autoMigrate is requested.
func LoadApplicationConfiguration(logger *log.Logger, settings *Settings, autoMigrate bool) (*ApplicationConfig, error) {
	if autoMigrate {
		if err := ValidateAutoMigrateAllowed(settings.Environment); err != nil {
			return nil, err
		}
		if settings.Environment == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	tracingShutdown, err := SetupTracing(logger, settings.Tracing)
	if err != nil {
		return nil, err
	}

	waitlistConfig := settings.Waitlist

	var db *gorm.DB
	if waitlistConfig.UsesDatabase() || autoMigrate {
		db, err = NewDatabase(logger, settings.Database)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Info("Database not required by the waitlist registrar; skipping connection", "registrar", waitlistConfig.Registrar)
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			CloseDatabase(db, logger)
			return nil, err
		}
	}

	cache := settings.Cache.NewCacheOrNil(logger)
	routerService := router.CreateRouterService(logger, cache, &settings.HTTP)

	logger.Info("Application configuration loaded", "environment", settings.Environment)

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Settings:        settings,
		Waitlist:        &waitlistConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}
