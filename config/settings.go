package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akeren/levelup-fit/config/router"
	"github.com/akeren/levelup-fit/internal/log"
	"github.com/caarlos0/env/v11"
)

// Settings is every tunable of the process, read once at startup. A value
// that does not parse is a startup error rather than a silent default.
type Settings struct {
	Environment   string `env:"APP_ENV"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	Log      log.Config
	HTTP     router.RouterConfig
	Tracing  TracingConfig
	Database DBConfig
	Cache    CacheConfig
	Waitlist WaitlistConfig
}

type TracingConfig struct {
	Enabled     bool   `env:"OTEL_TRACES_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"levelup-fit"`
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"http://localhost:4318"`
	// SampleRatio is the fraction of root spans kept, in [0, 1].
	SampleRatio float64 `env:"OTEL_TRACES_SAMPLER_ARG" envDefault:"1"`
}

type WaitlistConfig struct {
	// Registrar is one of simulated, database or webhook.
	Registrar      string        `env:"WAITLIST_REGISTRAR" envDefault:"simulated"`
	SimulatedDelay time.Duration `env:"WAITLIST_SIMULATED_DELAY" envDefault:"1s"`
	WebhookURL     string        `env:"WAITLIST_WEBHOOK_URL"`
	SessionTTL     time.Duration `env:"WAITLIST_SESSION_TTL" envDefault:"30m"`
	ToastRetention time.Duration `env:"TOAST_RETENTION" envDefault:"30s"`
}

// LoadSettings reads the process environment. Call InitializeEnvFile first
// so values from .env are visible.
func LoadSettings() (*Settings, error) {
	return parseSettings(env.Options{})
}

// DefaultWaitlistConfig returns the waitlist defaults without consulting
// the environment.
func DefaultWaitlistConfig() *WaitlistConfig {
	cfg := &WaitlistConfig{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("config: invalid waitlist defaults: %v", err))
	}
	return cfg
}

func parseSettings(opts env.Options) (*Settings, error) {
	settings := &Settings{}
	if err := env.ParseWithOptions(settings, opts); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	settings.Environment = strings.ToLower(strings.TrimSpace(settings.Environment))
	settings.MigrationsDir = strings.TrimSpace(settings.MigrationsDir)
	settings.Database.sanitize()
	settings.Waitlist.normalize()

	if err := settings.HTTP.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := settings.Waitlist.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if r := settings.Tracing.SampleRatio; r < 0 || r > 1 {
		return nil, fmt.Errorf("config: OTEL_TRACES_SAMPLER_ARG must be between 0 and 1, got %v", r)
	}
	if settings.Tracing.Enabled {
		settings.HTTP.TracingServiceName = settings.Tracing.ServiceName
	}
	return settings, nil
}

func (wc *WaitlistConfig) normalize() {
	wc.Registrar = strings.ToLower(strings.TrimSpace(wc.Registrar))
	wc.WebhookURL = sanitizeEnv(wc.WebhookURL)
}

func (wc *WaitlistConfig) Validate() error {
	var errs []error
	switch wc.Registrar {
	case "", "simulated", "database":
	case "webhook":
		if wc.WebhookURL == "" {
			errs = append(errs, errors.New("WAITLIST_WEBHOOK_URL is required when WAITLIST_REGISTRAR=webhook"))
		}
	default:
		errs = append(errs, fmt.Errorf("WAITLIST_REGISTRAR must be simulated, database or webhook, got %q", wc.Registrar))
	}
	if wc.SimulatedDelay < 0 {
		errs = append(errs, fmt.Errorf("WAITLIST_SIMULATED_DELAY must not be negative, got %s", wc.SimulatedDelay))
	}
	if wc.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("WAITLIST_SESSION_TTL must be positive, got %s", wc.SessionTTL))
	}
	if wc.ToastRetention <= 0 {
		errs = append(errs, fmt.Errorf("TOAST_RETENTION must be positive, got %s", wc.ToastRetention))
	}
	return errors.Join(errs...)
}

// UsesDatabase reports whether submissions are stored in Postgres.
func (wc *WaitlistConfig) UsesDatabase() bool {
	return wc.Registrar == "database"
}
