package router

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultMaxBodyBytes = 1 << 20

// RouterConfig is the HTTP surface configuration. The config package
// fills it from the environment; tests build it with DefaultConfig.
type RouterConfig struct {
	Environment       string        `env:"APP_ENV"`
	Port              string        `env:"APP_PORT" envDefault:"8080"`
	GinMode           string        `env:"GIN_MODE"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	MaxBodyBytes      int64         `env:"MAX_REQUEST_BODY_BYTES" envDefault:"1048576"`
	TrustedProxies    []string      `env:"TRUSTED_PROXIES"`
	AllowedOrigins    []string      `env:"CORS_ALLOWED_ORIGIN"`
	MetricsEnabled    bool          `env:"METRICS_ENABLED" envDefault:"true"`
	HSTS              HSTSConfig

	// TracingServiceName turns on otelgin when set. It is copied from the
	// tracing settings rather than parsed here.
	TracingServiceName string
}

type HSTSConfig struct {
	// Enabled is "true", "false" or empty. Empty enables HSTS only in
	// production.
	Enabled           string `env:"HSTS_ENABLED"`
	MaxAge            int64  `env:"HSTS_MAX_AGE" envDefault:"31536000"`
	IncludeSubdomains bool   `env:"HSTS_INCLUDE_SUBDOMAINS" envDefault:"true"`
}

// DefaultConfig returns the built-in defaults, ignoring the process
// environment.
func DefaultConfig() *RouterConfig {
	cfg := &RouterConfig{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("router: invalid default config: %v", err))
	}
	return cfg
}

// Validate normalises list values and rejects settings the server cannot
// run with.
func (c *RouterConfig) Validate() error {
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimitRequests)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
	if strings.TrimSpace(c.Port) == "" {
		c.Port = "8080"
	}
	if raw := strings.TrimSpace(c.HSTS.Enabled); raw != "" {
		if _, err := strconv.ParseBool(raw); err != nil {
			return fmt.Errorf("HSTS_ENABLED must be a boolean, got %q", raw)
		}
	}

	c.TrustedProxies = trimmed(c.TrustedProxies)
	c.AllowedOrigins = trimmed(c.AllowedOrigins)
	return nil
}

func (c *RouterConfig) Addr() string {
	return ":" + strings.TrimSpace(c.Port)
}

func (c *RouterConfig) isProduction() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "production", "prod":
		return true
	}
	return false
}

func (c *RouterConfig) hstsEnabled() bool {
	if raw := strings.TrimSpace(c.HSTS.Enabled); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		return err == nil && enabled
	}
	return c.isProduction()
}

func (c *RouterConfig) hstsValue() string {
	maxAge := c.HSTS.MaxAge
	if maxAge <= 0 {
		maxAge = 31536000
	}

	value := fmt.Sprintf("max-age=%d", maxAge)
	if c.HSTS.IncludeSubdomains {
		value += "; includeSubDomains"
	}
	return value
}

// trustedProxyList maps "*" to every address; nil disables proxy trust so
// ClientIP uses RemoteAddr.
func (c *RouterConfig) trustedProxyList() []string {
	if len(c.TrustedProxies) == 1 && c.TrustedProxies[0] == "*" {
		return []string{"0.0.0.0/0", "::/0"}
	}
	return c.TrustedProxies
}

func trimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
