package monitoring

import (
	"context"
	"time"

	"github.com/akeren/levelup-fit/config/router"
	"github.com/akeren/levelup-fit/internal/log"
	"gorm.io/gorm"
)

const (
	monitoringRequestsPerMinute = 10
	probeTimeout                = 2 * time.Second
)

type Cache interface {
	Ping(ctx context.Context) error
}

// HealthStatus reports 1 for a reachable dependency and 0 for one that is
// down or not configured.
type HealthStatus struct {
	Database  int    `json:"database"`
	Cache     int    `json:"cache"`
	Registrar string `json:"registrar"`
	Uptime    int    `json:"uptime"`
}

// Dependencies are the collaborators the health check probes. DB and
// Cache are optional.
type Dependencies struct {
	DB        *gorm.DB
	Cache     Cache
	Registrar string
}

type MonitoringController struct {
	deps      Dependencies
	startTime time.Time
}

type probe struct {
	name   string
	target *int
	ping   func(context.Context) error
}

func NewMonitoringController(deps Dependencies) *router.RESTController {
	ctrl := &MonitoringController{deps: deps, startTime: time.Now()}

	return router.NewRESTController(
		"MonitoringController",
		"/",
		func(rs *router.RouterService, c *router.RESTController) {
			limiter := rs.NewScopedRateLimiter(monitoringRequestsPerMinute, time.Minute)
			rs.AddGetHandler(c, limiter, "health", ctrl.health)
		},
	)
}

func (ctrl *MonitoringController) health(c *router.RequestContext) *router.ServiceResult {
	status := ctrl.check(c.Request.Context(), router.GetLogger(c))
	return router.OKResult(status, "LevelUp Fit health check completed")
}

func (ctrl *MonitoringController) check(ctx context.Context, logger *log.Logger) HealthStatus {
	status := HealthStatus{
		Registrar: ctrl.deps.Registrar,
		Uptime:    int(time.Since(ctrl.startTime).Seconds()),
	}

	for _, p := range ctrl.probes(&status) {
		if p.ping == nil {
			logger.Debug("Health probe skipped; dependency not configured", "dependency", p.name)
			continue
		}

		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := p.ping(probeCtx)
		cancel()

		if err != nil {
			logger.Error("Health probe failed", "dependency", p.name, "error", err)
			continue
		}
		*p.target = 1
	}

	return status
}

func (ctrl *MonitoringController) probes(status *HealthStatus) []probe {
	database := probe{name: "database", target: &status.Database}
	if ctrl.deps.DB != nil {
		database.ping = func(ctx context.Context) error {
			sqlDB, err := ctrl.deps.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}

	cache := probe{name: "cache", target: &status.Cache}
	if ctrl.deps.Cache != nil {
		cache.ping = ctrl.deps.Cache.Ping
	}

	return []probe{database, cache}
}
