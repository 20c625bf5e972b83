package customer

import (
	"context"
	"strings"

	"github.com/akeren/jobtracker-api/internal/models"
	apperrors "github.com/akeren/jobtracker-api/pkg/errors"
	"gorm.io/gorm"
)

var ErrDuplicateEmail = apperrors.NewConflictError("customer with this email already exists", nil)

type ListFilter struct {
	Search string
	Offset int
	Limit  int
}

type CustomerRepository interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindCustomerByID(ctx context.Context, id uint) (*models.Customer, error)
	ListCustomers(ctx context.Context, filter ListFilter) ([]*models.Customer, int64, error)
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	// DeleteCustomer refuses to remove a customer that still has jobs.
	DeleteCustomer(ctx context.Context, id uint) error
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		if apperrors.IsDuplicateKeyError(err) {
			return nil, apperrors.NewConflictError(ErrDuplicateEmail.Message, err)
		}
		return nil, apperrors.NewDatabaseError("unable to create customer", err)
	}

	return customer, nil
}

func (r *customerRepository) FindCustomerByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer

	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("customer not found", err)
		}
		return nil, apperrors.NewDatabaseError("failed to fetch customer", err)
	}

	return &customer, nil
}

func (r *customerRepository) filtered(ctx context.Context, search string) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Customer{})

	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		pattern := "%" + term + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(email, '')) LIKE ?", pattern, pattern)
	}

	return query
}

func (r *customerRepository) ListCustomers(ctx context.Context, filter ListFilter) ([]*models.Customer, int64, error) {
	var (
		customers []*models.Customer
		total     int64
	)

	if err := r.filtered(ctx, filter.Search).Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabaseError("unable to count customers", err)
	}

	err := r.filtered(ctx, filter.Search).
		Order("name ASC, id ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&customers).Error
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError("unable to fetch customers", err)
	}

	return customers, total, nil
}

func (r *customerRepository) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	result := r.db.WithContext(ctx).
		Model(&models.Customer{ID: customer.ID}).
		Select("name", "email", "phone", "address", "notes", "updated_at").
		Updates(customer)

	if result.Error != nil {
		if apperrors.IsDuplicateKeyError(result.Error) {
			return apperrors.NewConflictError(ErrDuplicateEmail.Message, result.Error)
		}
		return apperrors.NewDatabaseError("unable to update customer", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("customer not found", nil)
	}

	return nil
}

func (r *customerRepository) DeleteCustomer(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var jobs int64
		if err := tx.Model(&models.Job{}).Where("customer_id = ?", id).Count(&jobs).Error; err != nil {
			return apperrors.NewDatabaseError("unable to check customer jobs", err)
		}
		if jobs > 0 {
			return apperrors.NewConflictError("customer still has jobs; delete or reassign them first", nil)
		}

		result := tx.Delete(&models.Customer{}, id)
		if result.Error != nil {
			return apperrors.NewDatabaseError("unable to delete customer", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NewNotFoundError("customer not found", nil)
		}
		return nil
	})
}
