package monitoring

import (
	"github.com/akeren/levelup-fit/config/router"
	"github.com/akeren/levelup-fit/internal/log"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	logger *log.Logger
	deps   Dependencies
}

func NewMonitoringControllerFactory(logger *log.Logger, deps Dependencies) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		logger: logger,
		deps:   deps,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	f.logger.Info("Health checks configured",
		"database", f.deps.DB != nil,
		"cache", f.deps.Cache != nil,
		"registrar", f.deps.Registrar,
	)
	return NewMonitoringController(f.deps)
}
