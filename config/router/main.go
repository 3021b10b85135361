package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/akeren/levelup-fit/internal/log"
	"github.com/akeren/levelup-fit/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Cache interface {
	Ping(ctx context.Context) error
}

// RedisClientProvider is implemented by caches backed by Redis so rate
// limiting can share the connection.
type RedisClientProvider interface {
	GetClient() *redis.Client
}

type RouterService struct {
	engine          *gin.Engine
	server          *http.Server
	logger          *log.Logger
	config          *RouterConfig
	rateLimiter     ratelimit.RateLimiter
	redisClient     *redis.Client
	metricsRegistry *prometheus.Registry

	handlerToControllerMap map[string]*RESTController
	rateLimitOverrides     map[string]ratelimit.RateLimiter
}

// CreateRouterService builds the gin engine with the shared middleware
// chain. A nil routerConfig means DefaultConfig.
func CreateRouterService(logger *log.Logger, cache Cache, routerConfig *RouterConfig) *RouterService {
	if routerConfig == nil {
		routerConfig = DefaultConfig()
	}
	if err := routerConfig.Validate(); err != nil {
		logger.Warn("Invalid router configuration; using defaults", "error", err)
		routerConfig = DefaultConfig()
	}

	if routerConfig.GinMode != "" {
		logger.Info("Setting Gin mode", "mode", routerConfig.GinMode)
		gin.SetMode(routerConfig.GinMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	if routerConfig.TracingServiceName != "" {
		engine.Use(otelgin.Middleware(routerConfig.TracingServiceName))
		logger.Info("Tracing middleware enabled", "service", routerConfig.TracingServiceName)
	}

	// Gin trusts every proxy by default, which lets clients spoof ClientIP
	// through X-Forwarded-For.
	if err := engine.SetTrustedProxies(routerConfig.trustedProxyList()); err != nil {
		logger.Error("Invalid TRUSTED_PROXIES; disabling trusted proxies", "error", err)
		_ = engine.SetTrustedProxies(nil)
	} else if len(routerConfig.TrustedProxies) == 0 {
		logger.Info("Trusted proxies disabled (TRUSTED_PROXIES not set)")
	}

	var redisClient *redis.Client
	if provider, ok := cache.(RedisClientProvider); ok {
		redisClient = provider.GetClient()
	}

	rs := &RouterService{
		engine:                 engine,
		logger:                 logger,
		config:                 routerConfig,
		redisClient:            redisClient,
		rateLimitOverrides:     make(map[string]ratelimit.RateLimiter),
		handlerToControllerMap: make(map[string]*RESTController),
	}

	rs.initRateLimiting()

	// /metrics is registered ahead of the rate limiter so scrapes never need
	// a controller mapping.
	rs.mountMetrics()

	engine.Use(rs.securityHeadersMiddleware())
	engine.Use(rs.maxBodySizeMiddleware())
	if corsHandler := rs.corsMiddleware(); corsHandler != nil {
		engine.Use(corsHandler)
	}
	engine.Use(rs.rateLimitMiddleware())
	engine.Use(rs.timeoutMiddleware())

	engine.Use(rs.correlationIDMiddleware())
	engine.Use(rs.loggerInjectionMiddleware())
	engine.Use(rs.requestLoggingMiddleware())

	engine.HandleMethodNotAllowed = true
	engine.RedirectTrailingSlash = true

	engine.NoRoute(func(c *gin.Context) {
		logger.WithCorrelationID(c.Request.Context()).Warn("Route not found", "path", c.Request.URL.Path)
		c.JSON(http.StatusNotFound, NotFoundResult("Route not found").ToJSON())
	})

	engine.NoMethod(func(c *gin.Context) {
		logger.WithCorrelationID(c.Request.Context()).Warn("Method not allowed", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.JSON(http.StatusMethodNotAllowed, ErrorResult(http.StatusMethodNotAllowed, "Method not allowed", nil).ToJSON())
	})

	// Gin's Context is not goroutine-safe, so request time limits are
	// enforced by the server rather than by running handlers off-thread.
	rs.server = &http.Server{
		Addr:              routerConfig.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       routerConfig.RequestTimeout,
		WriteTimeout:      routerConfig.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Router service initialized", "addr", rs.server.Addr)
	return rs
}

func (routerService *RouterService) initRateLimiting() {
	requests := routerService.config.RateLimitRequests
	window := routerService.config.RateLimitWindow

	if routerService.redisClient != nil {
		if err := routerService.redisClient.Ping(context.Background()).Err(); err != nil {
			routerService.logger.Warn("Failed to connect to Redis for rate limiting, falling back to in-memory", "error", err)
			routerService.redisClient = nil
		}
	}

	routerService.rateLimiter = routerService.NewScopedRateLimiter(requests, window)

	backend := "in-memory"
	if routerService.redisClient != nil {
		backend = "redis"
	}
	routerService.logger.Info("Rate limiting initialized", "backend", backend, "requests", requests, "window", window)
}

// NewScopedRateLimiter builds a limiter for a single controller or handler.
// It shares the Redis backend of the global limiter when one is connected.
func (routerService *RouterService) NewScopedRateLimiter(requests int, window time.Duration) ratelimit.RateLimiter {
	return ratelimit.NewRateLimiter(&ratelimit.RateLimitConfig{
		Requests: requests,
		Window:   window,
		Redis:    routerService.redisClient,
		Logger:   routerService.logger,
	})
}

// MetricsRegisterer returns the registry served on /metrics, or nil when
// metrics are disabled.
func (routerService *RouterService) MetricsRegisterer() prometheus.Registerer {
	if routerService.metricsRegistry == nil {
		return nil
	}
	return routerService.metricsRegistry
}

func (routerService *RouterService) GetEngine() *gin.Engine {
	return routerService.engine
}

func (routerService *RouterService) GetLogger(c *RequestContext) *log.Logger {
	return routerService.logger.WithCorrelationID(c.Request.Context())
}

func (routerService *RouterService) Cleanup() {
	closed := map[ratelimit.RateLimiter]bool{}
	closeLimiter := func(limiter ratelimit.RateLimiter) {
		if limiter == nil || closed[limiter] {
			return
		}
		closed[limiter] = true
		if err := limiter.Close(); err != nil {
			routerService.logger.Error("Failed to close rate limiter", "error", err)
		}
	}

	closeLimiter(routerService.rateLimiter)
	for _, limiter := range routerService.rateLimitOverrides {
		closeLimiter(limiter)
	}

	routerService.logger.Info("Router service cleanup completed")
}

func (routerService *RouterService) MountController(controller *RESTController) {
	routerService.logger.Info("Mounting controller",
		"name", controller.name,
		"path", controller.mountPoint,
		"version", controller.version,
	)

	controller.prepare(routerService, controller)

	routerService.logger.Info("Controller mounted",
		"name", controller.name,
		"handlers", controller.handlerCount,
	)
}

func (routerService *RouterService) RunHTTPServer() error {
	routerService.logger.Info("Starting HTTP server", "addr", routerService.server.Addr)

	if err := routerService.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		routerService.logger.Error("Failed to start HTTP server", "error", err)
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

func (routerService *RouterService) Shutdown(ctx context.Context) error {
	routerService.logger.Info("Shutting down HTTP server gracefully...")
	return routerService.server.Shutdown(ctx)
}
