package customer

import (
	"context"
	"strings"
	"time"

	"github.com/akeren/jobtracker-api/internal/log"
	apperrors "github.com/akeren/jobtracker-api/pkg/errors"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req *CustomerRequest) (*CustomerResponse, error)
	FindCustomerByID(ctx context.Context, id uint) (*CustomerResponse, error)
	ListCustomers(ctx context.Context, search string, page, pageSize int) ([]CustomerResponse, int64, error)
	UpdateCustomer(ctx context.Context, id uint, req *CustomerRequest) (*CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id uint) error
}

type customerService struct {
	logger     *log.Logger
	repository CustomerRepository
	now        func() time.Time
}

func NewCustomerService(logger *log.Logger, repository CustomerRepository) CustomerService {
	return &customerService{logger: logger, repository: repository, now: time.Now}
}

func (s *customerService) CreateCustomer(ctx context.Context, req *CustomerRequest) (*CustomerResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewInvalidRequestError("customer name is required", nil)
	}

	customer, err := s.repository.CreateCustomer(ctx, ToCustomerModel(req))
	if err != nil {
		logger.Error("Failed to create customer", "error", err)
		return nil, err
	}

	logger.Info("Customer created", "id", customer.ID)
	response := ToCustomerResponse(customer)
	return &response, nil
}

func (s *customerService) FindCustomerByID(ctx context.Context, id uint) (*CustomerResponse, error) {
	customer, err := s.repository.FindCustomerByID(ctx, id)
	if err != nil {
		log.GetLoggerInstanceFromContext(ctx, s.logger).Error("Failed to find customer", "id", id, "error", err)
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

func (s *customerService) ListCustomers(ctx context.Context, search string, page, pageSize int) ([]CustomerResponse, int64, error) {
	customers, total, err := s.repository.ListCustomers(ctx, ListFilter{
		Search: search,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		log.GetLoggerInstanceFromContext(ctx, s.logger).Error("Failed to list customers", "error", err)
		return nil, 0, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		responses = append(responses, ToCustomerResponse(customer))
	}

	return responses, total, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uint, req *CustomerRequest) (*CustomerResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewInvalidRequestError("customer name is required", nil)
	}

	existing, err := s.repository.FindCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := ToCustomerModel(req)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now().UTC()

	if err := s.repository.UpdateCustomer(ctx, updated); err != nil {
		logger.Error("Failed to update customer", "id", id, "error", err)
		return nil, err
	}

	response := ToCustomerResponse(updated)
	return &response, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id uint) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if err := s.repository.DeleteCustomer(ctx, id); err != nil {
		logger.Error("Failed to delete customer", "id", id, "error", err)
		return err
	}

	logger.Info("Customer deleted", "id", id)
	return nil
}
