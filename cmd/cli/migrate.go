package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akeren/levelup-fit/internal/log"
	schema "github.com/akeren/levelup-fit/migrations"
	"github.com/akeren/levelup-fit/pkg/migrations"
)

// migrationConfig uses the embedded schema unless dir points at a
// directory on disk.
func migrationConfig(logger *log.Logger, dir string) migrations.Config {
	cfg := migrations.Config{Logger: logger}
	if dir != "" {
		cfg.Dir = dir
	} else {
		cfg.FS = schema.FS
	}
	return cfg
}

func runMigrations(ctx context.Context, db *sql.DB, args []string, cfg migrations.Config) error {
	direction := "up"
	if len(args) > 0 {
		direction = args[0]
	}
	if len(args) > 1 {
		return fmt.Errorf("migrate takes at most one argument")
	}

	switch direction {
	case "up":
		return migrations.Up(ctx, db, cfg)
	case "down":
		return migrations.Down(ctx, db, cfg)
	default:
		return fmt.Errorf("unknown migrate direction %q (want up or down)", direction)
	}
}
