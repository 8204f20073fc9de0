package plan

import "context"

// PlanService handles plan catalog and upgrade pricing
type PlanService interface {
	// GetPlans retrieves every plan
	GetPlans(ctx context.Context) ([]PlanResponse, error)

	// GetPlanByID retrieves a specific plan
	GetPlanByID(ctx context.Context, id int64) (PlanResponse, error)

	// CreatePlan creates a plan. Callers must enforce admin access.
	CreatePlan(ctx context.Context, req CreatePlanRequest) (PlanResponse, error)

	// UpdatePlan changes the name and/or price of a plan. Callers must enforce admin access.
	UpdatePlan(ctx context.Context, id int64, req UpdatePlanRequest) (PlanResponse, error)

	// UpgradePrice returns the prorated amount owed for switching plans mid-month
	UpgradePrice(ctx context.Context, req UpgradePriceRequest) (UpgradePriceResponse, error)
}
