package plan

import "context"

// PlanRepository handles plan data operations
type PlanRepository interface {
	// GetByID retrieves a plan by its ID
	GetByID(ctx context.Context, id int64) (Plan, error)

	// List retrieves all plans ordered by ID
	List(ctx context.Context) ([]Plan, error)

	// Create inserts a new plan
	Create(ctx context.Context, newPlan Plan) (Plan, error)

	// Update applies the non-nil fields of req and returns the stored plan
	Update(ctx context.Context, id int64, req UpdatePlanRequest) (Plan, error)
}
