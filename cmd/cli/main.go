package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/akeren/levelup-fit/config"
	"github.com/akeren/levelup-fit/internal/log"
)

type command struct {
	usage string
	run   func(logger *log.Logger, settings *config.Settings, args []string) error
}

var commands = map[string]command{
	"migrate": {
		usage: "migrate [up|down]              Apply (default) or revert database migrations and exit",
		run:   migrateCommand,
	},
	"render": {
		usage: "render [light|neural] [file]   Write the landing page as static HTML (stdout when no file is given)",
		run: func(_ *log.Logger, _ *config.Settings, args []string) error {
			return RenderPage(args, os.Stdout)
		},
	},
}

func main() {
	bootstrap := log.NewLoggerWithJSONOutput()
	config.InitializeEnvFile(bootstrap)

	settings, err := config.LoadSettings()
	if err != nil {
		bootstrap.Error("Invalid configuration", "error", err.Error())
		os.Exit(1)
	}
	logger := log.New(settings.Log, os.Stdout)

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "help", "-h", "--help":
		printUsage()
		return
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err := cmd.run(logger, settings, args[1:]); err != nil {
		logger.Error("Command failed", "command", args[0], "error", err.Error())
		os.Exit(1)
	}
}

func migrateCommand(logger *log.Logger, settings *config.Settings, args []string) error {
	db, err := config.NewDatabase(logger, settings.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close SQL DB after migration", "error", err.Error())
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := runMigrations(ctx, sqlDB, args, migrationConfig(logger, settings.MigrationsDir)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	logger.Info("Database migrations completed")
	return nil
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	for _, name := range []string{"migrate", "render"} {
		fmt.Println("  " + commands[name].usage)
	}
}
