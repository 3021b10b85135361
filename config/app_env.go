package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/akeren/levelup-fit/internal/log"
	"github.com/joho/godotenv"
)

const AppEnvKey = "APP_ENV"

// InitializeEnvFile loads .env into the process environment. Variables
// already set win over the file.
func InitializeEnvFile(logger *log.Logger, files ...string) {
	if os.Getenv("SKIP_DOTENV") == "true" {
		logger.Info("Skipping .env file load (SKIP_DOTENV=true)")
		return
	}

	if err := godotenv.Load(files...); err != nil {
		logger.Warn("No .env file found or failed to load it", "error", err.Error())
		return
	}

	logger.Info("Environment variables loaded from .env file")
}

// ValidateAutoMigrateAllowed keeps --auto-migrate away from shared
// environments, where schema changes go through the migrate command.
func ValidateAutoMigrateAllowed(appEnv string) error {
	switch env := strings.ToLower(strings.TrimSpace(appEnv)); env {
	case "", "dev", "development", "local", "test", "testing":
		return nil
	default:
		return fmt.Errorf("--auto-migrate is not allowed when %s=%q (allowed: \"\", dev, development, local, test, testing)", AppEnvKey, env)
	}
}
