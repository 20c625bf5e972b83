package job

import (
	"github.com/akeren/jobtracker-api/config/router"
	"github.com/akeren/jobtracker-api/internal/log"
	"gorm.io/gorm"
)

type JobServiceFactory interface {
	CreateService() JobService
	CreateController() *router.RESTController
}

type DefaultJobServiceFactory struct {
	db     *gorm.DB
	logger *log.Logger
}

func NewJobServiceFactory(db *gorm.DB, logger *log.Logger) JobServiceFactory {
	return &DefaultJobServiceFactory{db: db, logger: logger}
}

func (f *DefaultJobServiceFactory) CreateService() JobService {
	return NewJobService(f.logger, NewJobRepository(f.db))
}

func (f *DefaultJobServiceFactory) CreateController() *router.RESTController {
	return NewJobController(f.CreateService())
}
