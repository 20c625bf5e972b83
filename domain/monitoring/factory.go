package monitoring

import (
	"github.com/akeren/jobtracker-api/config/router"
	"github.com/akeren/jobtracker-api/internal/log"
	"gorm.io/gorm"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	db     *gorm.DB
	logger *log.Logger
	cache  Cache
	queue  NotificationQueue
}

// NewMonitoringControllerFactory accepts nil cache and queue; their checks then report 0.
func NewMonitoringControllerFactory(db *gorm.DB, logger *log.Logger, cache Cache, queue NotificationQueue) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		db:     db,
		logger: logger,
		cache:  cache,
		queue:  queue,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.db, f.logger, f.cache, f.queue)
}
