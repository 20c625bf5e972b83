package customer

import (
	"github.com/akeren/jobtracker-api/config/router"
	"github.com/akeren/jobtracker-api/internal/log"
	"gorm.io/gorm"
)

type CustomerServiceFactory interface {
	CreateService() CustomerService
	CreateController() *router.RESTController
}

type DefaultCustomerServiceFactory struct {
	db     *gorm.DB
	logger *log.Logger
}

func NewCustomerServiceFactory(db *gorm.DB, logger *log.Logger) CustomerServiceFactory {
	return &DefaultCustomerServiceFactory{db: db, logger: logger}
}

func (f *DefaultCustomerServiceFactory) CreateService() CustomerService {
	return NewCustomerService(f.logger, NewCustomerRepository(f.db))
}

func (f *DefaultCustomerServiceFactory) CreateController() *router.RESTController {
	return NewCustomerController(f.CreateService())
}
