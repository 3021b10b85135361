package domain

import (
	"fmt"

	"github.com/akeren/levelup-fit/config"
	"github.com/akeren/levelup-fit/domain/landing"
	"github.com/akeren/levelup-fit/domain/monitoring"
	"github.com/akeren/levelup-fit/domain/waitlist"
	"github.com/akeren/levelup-fit/internal/notify"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) error {
	waitlistCfg := appConfig.Waitlist
	if waitlistCfg == nil {
		waitlistCfg = config.DefaultWaitlistConfig()
	}

	registrar, err := waitlist.NewRegistrar(appConfig.Logger, waitlist.RegistrarOptions{
		Kind:           waitlistCfg.Registrar,
		SimulatedDelay: waitlistCfg.SimulatedDelay,
		WebhookURL:     waitlistCfg.WebhookURL,
		DB:             appConfig.DB,
	})
	if err != nil {
		return fmt.Errorf("setup waitlist registrar: %w", err)
	}

	registrarKind, _ := waitlist.ParseRegistrarKind(waitlistCfg.Registrar)
	appConfig.Logger.Info("Waitlist registrar configured", "registrar", registrarKind)

	toasts := notify.NewCenter(waitlistCfg.ToastRetention)
	metrics := waitlist.NewMetrics(appConfig.RouterService.MetricsRegisterer())
	waitlistFactory := waitlist.NewWaitlistServiceFactory(appConfig.Logger, registrar, toasts, metrics, waitlistCfg.SessionTTL)

	monitoringFactory := monitoring.NewMonitoringControllerFactory(appConfig.Logger, monitoring.Dependencies{
		DB:        appConfig.DB,
		Cache:     appConfig.Cache,
		Registrar: registrarKind,
	})

	appConfig.RouterService.MountController(monitoringFactory.CreateController())
	appConfig.RouterService.MountController(landing.NewLandingController())
	appConfig.RouterService.MountController(waitlistFactory.CreateController())

	appConfig.OnShutdown(waitlistFactory.CreateService().Wait)

	return nil
}
