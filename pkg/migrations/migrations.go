package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

type migrator interface {
	Up() error
	Down() error
	Close() (sourceErr error, databaseErr error)
}

// source is either a file:// URL or an embedded filesystem.
type source struct {
	URL string
	FS  fs.FS
}

func (s source) String() string {
	if s.FS != nil {
		return "embedded"
	}
	return s.URL
}

var driverFactory = func(db *sql.DB, cfg Config) (database.Driver, error) {
	return postgres.WithInstance(db, &postgres.Config{MigrationsTable: cfg.MigrationsTable})
}

var migratorFactory = func(src source, driver database.Driver) (migrator, error) {
	if src.FS != nil {
		d, err := iofs.New(src.FS, ".")
		if err != nil {
			return nil, err
		}
		return migrate.NewWithInstance("iofs", d, "postgres", driver)
	}
	return migrate.NewWithDatabaseInstance(src.URL, "postgres", driver)
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config selects where migrations come from. FS takes precedence over Dir;
// with neither set, Dir defaults to "migrations".
type Config struct {
	Dir             string
	FS              fs.FS
	MigrationsTable string
	Logger          Logger
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, cfg Config) error {
	return run(ctx, db, cfg, "up", migrator.Up)
}

// Down reverts every applied migration.
func Down(ctx context.Context, db *sql.DB, cfg Config) error {
	return run(ctx, db, cfg, "down", migrator.Down)
}

func run(ctx context.Context, db *sql.DB, cfg Config, direction string, step func(migrator) error) error {
	if db == nil {
		return fmt.Errorf("migrations: db is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.MigrationsTable) == "" {
		cfg.MigrationsTable = "schema_migrations"
	}

	src, err := resolveSource(cfg)
	if err != nil {
		return err
	}

	driver, err := driverFactory(db, cfg)
	if err != nil {
		return fmt.Errorf("migrations: postgres driver: %w", err)
	}

	m, err := migratorFactory(src, driver)
	if err != nil {
		return fmt.Errorf("migrations: init: %w", err)
	}

	closeOnce := sync.Once{}
	closeMigrator := func() {
		closeOnce.Do(func() {
			srcErr, dbErr := m.Close()
			if cfg.Logger != nil {
				if srcErr != nil {
					cfg.Logger.Warn("Migrations source close error", "error", srcErr)
				}
				if dbErr != nil {
					cfg.Logger.Warn("Migrations db close error", "error", dbErr)
				}
			}
		})
	}
	defer closeMigrator()

	if cfg.Logger != nil {
		cfg.Logger.Info("Running SQL migrations", "direction", direction, "source", src.String(), "table", cfg.MigrationsTable)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- step(m)
	}()

	select {
	case <-ctx.Done():
		// migrate takes no context; closing is the only way to interrupt it.
		closeMigrator()
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, migrate.ErrNoChange) {
			if cfg.Logger != nil {
				cfg.Logger.Info("No migrations to apply", "direction", direction)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("migrations: %s: %w", direction, err)
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("Migrations applied successfully", "direction", direction)
	}
	return nil
}

func resolveSource(cfg Config) (source, error) {
	if cfg.FS != nil {
		return source{FS: cfg.FS}, nil
	}

	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		dir = "migrations"
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return source{}, fmt.Errorf("migrations: resolve dir: %w", err)
	}

	// ToSlash keeps Windows paths valid inside a file:// URL.
	return source{URL: (&url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absDir),
	}).String()}, nil
}
