package waitlist

import (
	"sync"
	"time"

	"github.com/akeren/levelup-fit/config/router"
	"github.com/akeren/levelup-fit/internal/log"
	"github.com/akeren/levelup-fit/internal/notify"
	apperrors "github.com/akeren/levelup-fit/pkg/errors"
	"gorm.io/gorm"
)

type RegistrarOptions struct {
	Kind           string
	SimulatedDelay time.Duration
	WebhookURL     string
	DB             *gorm.DB
}

func NewRegistrar(logger *log.Logger, opts RegistrarOptions) (Registrar, error) {
	kind, err := ParseRegistrarKind(opts.Kind)
	if err != nil {
		return nil, apperrors.NewInvalidRequestError(err.Error(), err)
	}

	switch kind {
	case RegistrarDatabase:
		if opts.DB == nil {
			return nil, apperrors.NewInvalidRequestError("database registrar requires a database connection", nil)
		}
		return NewDatabaseRegistrar(logger, NewEntryRepository(opts.DB)), nil
	case RegistrarWebhook:
		registrar, err := NewWebhookRegistrar(logger, WebhookConfig{URL: opts.WebhookURL})
		if err != nil {
			return nil, err
		}
		return registrar, nil
	default:
		return NewSimulatedRegistrar(opts.SimulatedDelay), nil
	}
}

type WaitlistServiceFactory interface {
	CreateService() WaitlistService
	CreateController() *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	logger     *log.Logger
	registrar  Registrar
	toasts     *notify.Center
	metrics    *Metrics
	sessionTTL time.Duration

	once    sync.Once
	service WaitlistService
}

func NewWaitlistServiceFactory(
	logger *log.Logger,
	registrar Registrar,
	toasts *notify.Center,
	metrics *Metrics,
	sessionTTL time.Duration,
) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		logger:     logger,
		registrar:  registrar,
		toasts:     toasts,
		metrics:    metrics,
		sessionTTL: sessionTTL,
	}
}

// CreateService always returns the same service: forms and in-flight
// submissions must be shared by every handler.
func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	f.once.Do(func() {
		f.service = NewWaitlistService(f.logger, f.registrar, f.toasts, f.metrics, f.sessionTTL)
	})
	return f.service
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.CreateService(), f.sessionTTL)
}
