package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/billing-backend-go/internal/domain/plan"
	"github.com/cmlabs-hris/billing-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type planRepositoryImpl struct {
	db *database.DB
}

func NewPlanRepository(db *database.DB) plan.PlanRepository {
	return &planRepositoryImpl{db: db}
}

func scanPlan(row pgx.Row) (plan.Plan, error) {
	var p plan.Plan
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return plan.Plan{}, err
	}
	return p, nil
}

// GetByID implements plan.PlanRepository.
func (r *planRepositoryImpl) GetByID(ctx context.Context, id int64) (plan.Plan, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT id, name, price, created_at, updated_at FROM plans WHERE id = $1`
	return scanPlan(q.QueryRow(ctx, query, id))
}

// List implements plan.PlanRepository.
func (r *planRepositoryImpl) List(ctx context.Context) ([]plan.Plan, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, price, created_at, updated_at FROM plans ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]plan.Plan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// Create implements plan.PlanRepository. A zero CreatedAt falls back to NOW().
func (r *planRepositoryImpl) Create(ctx context.Context, newPlan plan.Plan) (plan.Plan, error) {
	q := GetQuerier(ctx, r.db)

	var createdAt *time.Time
	if !newPlan.CreatedAt.IsZero() {
		createdAt = &newPlan.CreatedAt
	}

	query := `
		INSERT INTO plans (name, price, created_at)
		VALUES ($1, $2, COALESCE($3::timestamptz, NOW()))
		RETURNING id, name, price, created_at, updated_at
	`
	return scanPlan(q.QueryRow(ctx, query, newPlan.Name, newPlan.Price, createdAt))
}

// Update implements plan.PlanRepository. Missing rows surface as pgx.ErrNoRows.
func (r *planRepositoryImpl) Update(ctx context.Context, id int64, req plan.UpdatePlanRequest) (plan.Plan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE plans
		SET name = COALESCE($2, name),
			price = COALESCE($3, price),
			updated_at = COALESCE($4::timestamptz, NOW())
		WHERE id = $1
		RETURNING id, name, price, created_at, updated_at
	`
	return scanPlan(q.QueryRow(ctx, query, id, req.Name, req.Price, req.UpdatedAt))
}
