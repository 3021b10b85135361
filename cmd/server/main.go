package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/akeren/levelup-fit/config"
	"github.com/akeren/levelup-fit/domain"
	"github.com/akeren/levelup-fit/internal/log"
)

const shutdownGrace = 30 * time.Second

func main() {
	bootstrap := log.NewLoggerWithJSONOutput()
	config.InitializeEnvFile(bootstrap)

	settings, err := config.LoadSettings()
	if err != nil {
		bootstrap.Error("Invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	logger := log.New(settings.Log, os.Stdout)
	logger.Info("LevelUp Fit server starting", "environment", settings.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, settings, wantsAutoMigrate(os.Args[1:])); err != nil {
		logger.Error("Server exited with error", "error", err.Error())
		stop()
		os.Exit(1)
	}
	logger.Info("Graceful shutdown completed")
}

func wantsAutoMigrate(args []string) bool {
	return slices.ContainsFunc(args, func(arg string) bool {
		arg = strings.ToLower(arg)
		return arg == "--auto-migrate" || arg == "-m"
	})
}

// run serves until ctx is cancelled, then drains in-flight submissions
// before releasing backends.
func run(ctx context.Context, logger *log.Logger, settings *config.Settings, autoMigrate bool) error {
	appConfig, err := config.LoadApplicationConfiguration(logger, settings, autoMigrate)
	if err != nil {
		return fmt.Errorf("load application configuration: %w", err)
	}
	defer appConfig.Cleanup()

	if err := domain.SetupCoreDomain(appConfig); err != nil {
		return fmt.Errorf("set up domain: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- appConfig.RouterService.RunHTTPServer()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received, shutting down gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	var errs []error
	if err := appConfig.RouterService.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := appConfig.Drain(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("drain submissions: %w", err))
	}
	return errors.Join(errs...)
}
