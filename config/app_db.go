package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akeren/levelup-fit/internal/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DBConfig describes the Postgres connection. URL, when set, replaces the
// individual POSTGRES_* fields.
type DBConfig struct {
	URL      string `env:"APP_DATABASE_URL"`
	Host     string `env:"POSTGRES_HOST"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	Name     string `env:"POSTGRES_DB_NAME"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"require"`

	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1m"`
}

func (c *DBConfig) sanitize() {
	c.URL = sanitizeEnv(c.URL)
	c.Host = sanitizeEnv(c.Host)
	c.User = sanitizeEnv(c.User)
	c.Password = sanitizeEnv(c.Password)
	c.Name = sanitizeEnv(c.Name)
	c.SSLMode = sanitizeEnv(c.SSLMode)
}

// DSN builds the connection string, reporting every missing field at once.
func (c DBConfig) DSN() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}

	var missing []string
	if c.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if c.Port <= 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if c.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if c.Name == "" {
		missing = append(missing, "POSTGRES_DB_NAME")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing required database env vars: %s", strings.Join(missing, ", "))
	}

	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, sslMode), nil
}

func NewDatabase(logger *log.Logger, cfg DBConfig) (*gorm.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		logger.Error("Invalid database configuration", "error", err)
		return nil, err
	}

	if cfg.URL != "" {
		logger.Info("Using APP_DATABASE_URL for database connection")
	} else {
		logger.Info("Connecting to database", "host", cfg.Host, "port", cfg.Port, "user", cfg.User, "dbname", cfg.Name, "sslmode", cfg.SSLMode)
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		logger.Error("Database ping failed", "error", err)
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established")
	return gdb, nil
}

// sanitizeEnv strips whitespace and one pair of matching quotes, which
// some secret stores leave around values.
func sanitizeEnv(v string) string {
	s := strings.TrimSpace(v)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return s
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...any) error {
	if db == nil {
		return errors.New("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database schema auto-migrated")
	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
		return
	}
	logger.Info("Database closed")
}
