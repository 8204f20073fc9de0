package plan

import (
	"time"

	"github.com/cmlabs-hris/billing-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const maxNameLength = 255

// ==================== Request DTOs ====================

// CreatePlanRequest represents a request to create a plan
type CreatePlanRequest struct {
	Name      string     `json:"name"`
	Price     *int64     `json:"price"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (r *CreatePlanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > maxNameLength {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 255 characters"})
	}

	if r.Price == nil {
		errs = append(errs, validator.ValidationError{Field: "price", Message: "price is required"})
	} else if *r.Price < 0 {
		errs = append(errs, validator.ValidationError{Field: "price", Message: "price must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdatePlanRequest represents a request to update a plan. Nil fields are left unchanged.
type UpdatePlanRequest struct {
	Name      *string    `json:"name,omitempty"`
	Price     *int64     `json:"price,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (r *UpdatePlanRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name == nil && r.Price == nil {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name or price must be provided"})
	}
	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
		} else if len(*r.Name) > maxNameLength {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 255 characters"})
		}
	}
	if r.Price != nil && *r.Price < 0 {
		errs = append(errs, validator.ValidationError{Field: "price", Message: "price must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpgradePriceRequest asks for the prorated price of moving between two plans.
// Plan ids are not validated here: ids that resolve to no plan fail with ErrInvalidPlan.
type UpgradePriceRequest struct {
	CurrentPlanID int64  `json:"current_plan_id"`
	NewPlanID     int64  `json:"new_plan_id"`
	UpgradeDate   string `json:"upgrade_date"` // YYYY-MM-DD
}

func (r *UpgradePriceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UpgradeDate) {
		errs = append(errs, validator.ValidationError{Field: "upgrade_date", Message: "upgrade_date is required"})
	} else if _, ok := validator.IsValidDate(r.UpgradeDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "upgrade_date", Message: "upgrade_date must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Date returns the parsed upgrade date. Call Validate first.
func (r *UpgradePriceRequest) Date() time.Time {
	d, _ := validator.IsValidDate(r.UpgradeDate)
	return d
}

// ==================== Response DTOs ====================

// PlanResponse represents a plan in API responses
type PlanResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Price     int64   `json:"price"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

// UpgradePriceResponse carries both the exact prorated amount and the amount rounded
// to the configured number of decimal places
type UpgradePriceResponse struct {
	CurrentPlanID int64           `json:"current_plan_id"`
	NewPlanID     int64           `json:"new_plan_id"`
	UpgradeDate   string          `json:"upgrade_date"`
	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	AmountDue     decimal.Decimal `json:"amount_due"`
}

// ToResponse converts a Plan entity to PlanResponse
func (p *Plan) ToResponse() PlanResponse {
	resp := PlanResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.UpdatedAt != nil {
		t := p.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &t
	}
	return resp
}
