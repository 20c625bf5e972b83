package domain

import (
	"github.com/akeren/jobtracker-api/config"
	"github.com/akeren/jobtracker-api/domain/customer"
	"github.com/akeren/jobtracker-api/domain/job"
	"github.com/akeren/jobtracker-api/domain/monitoring"
	"github.com/akeren/jobtracker-api/domain/waitlist"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	rs := appConfig.RouterService

	var cache monitoring.Cache
	var statsCache waitlist.StatsCache
	if appConfig.Cache != nil {
		cache = appConfig.Cache
		statsCache = appConfig.Cache
	}

	var queue monitoring.NotificationQueue
	var enqueuer waitlist.SignupEnqueuer
	if appConfig.Notifier != nil {
		queue = appConfig.Notifier
		enqueuer = appConfig.Notifier
	}

	rs.MountController(monitoring.NewMonitoringControllerFactory(appConfig.DB, appConfig.Logger, cache, queue).CreateController())

	waitlistFactory := waitlist.NewWaitlistServiceFactory(waitlist.FactoryDeps{
		DB:       appConfig.DB,
		Logger:   appConfig.Logger,
		Policy:   appConfig.Policy,
		Notifier: enqueuer,
		Cache:    statsCache,
		Metrics:  rs.MetricsRegistry(),
	})
	for _, controller := range waitlistFactory.CreateControllers() {
		rs.MountController(controller)
	}

	rs.MountController(customer.NewCustomerServiceFactory(appConfig.DB, appConfig.Logger).CreateController())
	rs.MountController(job.NewJobServiceFactory(appConfig.DB, appConfig.Logger).CreateController())
}
