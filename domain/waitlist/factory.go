package waitlist

import (
	"github.com/akeren/jobtracker-api/config/router"
	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/pkg/spamcheck"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type WaitlistServiceFactory interface {
	CreateService() WaitlistService
	CreateControllers() []*router.RESTController
}

type FactoryDeps struct {
	DB       *gorm.DB
	Logger   *log.Logger
	Policy   *spamcheck.Policy
	Notifier SignupEnqueuer
	Cache    StatsCache
	Metrics  prometheus.Registerer
}

type DefaultWaitlistServiceFactory struct {
	deps    FactoryDeps
	service WaitlistService
}

func NewWaitlistServiceFactory(deps FactoryDeps) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{deps: deps}
}

// CreateService builds the service once; later calls return the same instance so the gate
// metrics are registered a single time.
func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	if f.service != nil {
		return f.service
	}

	repository := NewWaitlistRepository(f.deps.DB)
	attempts := NewBlockedAttemptRepository(f.deps.DB)
	ledger := NewAttemptLedger(attempts, f.deps.Logger)

	gate := NewAdmissionGate(repository, repository, ledger, f.deps.Policy, f.deps.Logger,
		WithMetrics(NewGateMetrics(f.deps.Metrics)),
	)

	f.service = NewWaitlistService(f.deps.Logger, ServiceDeps{
		Repository: repository,
		Attempts:   attempts,
		Gate:       gate,
		Notifier:   f.deps.Notifier,
		Cache:      f.deps.Cache,
	})
	return f.service
}

func (f *DefaultWaitlistServiceFactory) CreateControllers() []*router.RESTController {
	service := f.CreateService()
	return []*router.RESTController{
		NewWaitlistController(service),
		NewWaitlistAdminController(service),
	}
}
