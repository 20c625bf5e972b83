package customer

import (
	"strings"

	"github.com/akeren/jobtracker-api/internal/models"
	"github.com/akeren/jobtracker-api/pkg/constants"
)

// CustomerRequest is used for both create and full update.
type CustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Email   string `json:"email" binding:"omitempty,email,max=255"`
	Phone   string `json:"phone" binding:"omitempty,max=50"`
	Address string `json:"address" binding:"omitempty,max=500"`
	Notes   string `json:"notes" binding:"omitempty,max=2000"`
}

type CustomerResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Email     *string `json:"email"`
	Phone     string  `json:"phone"`
	Address   string  `json:"address"`
	Notes     string  `json:"notes"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func ToCustomerModel(req *CustomerRequest) *models.Customer {
	customer := &models.Customer{
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
		Notes:   strings.TrimSpace(req.Notes),
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		customer.Email = &email
	}
	return customer
}

func ToCustomerResponse(customer *models.Customer) CustomerResponse {
	if customer == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		Address:   customer.Address,
		Notes:     customer.Notes,
		CreatedAt: customer.CreatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
		UpdatedAt: customer.UpdatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
	}
}
