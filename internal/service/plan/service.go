package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/billing-backend-go/internal/domain/plan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// UpgradePricer computes the exact prorated upgrade amount
type UpgradePricer interface {
	ComputeUpgradePrice(ctx context.Context, currentPlanID, newPlanID int64, upgradeDate, asOf time.Time) (decimal.Decimal, error)
}

type PlanServiceImpl struct {
	planRepo       plan.PlanRepository
	pricer         UpgradePricer
	currency       string
	roundingPlaces int32
	now            func() time.Time
}

func NewPlanService(planRepo plan.PlanRepository, pricer UpgradePricer, currency string, roundingPlaces int32) *PlanServiceImpl {
	return &PlanServiceImpl{
		planRepo:       planRepo,
		pricer:         pricer,
		currency:       currency,
		roundingPlaces: roundingPlaces,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// GetPlans implements plan.PlanService.
func (s *PlanServiceImpl) GetPlans(ctx context.Context) ([]plan.PlanResponse, error) {
	plans, err := s.planRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	responses := make([]plan.PlanResponse, 0, len(plans))
	for _, p := range plans {
		responses = append(responses, p.ToResponse())
	}
	return responses, nil
}

// GetPlanByID implements plan.PlanService.
func (s *PlanServiceImpl) GetPlanByID(ctx context.Context, id int64) (plan.PlanResponse, error) {
	p, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return plan.PlanResponse{}, plan.ErrPlanNotFound
		}
		return plan.PlanResponse{}, fmt.Errorf("failed to get plan: %w", err)
	}
	return p.ToResponse(), nil
}

// CreatePlan implements plan.PlanService.
func (s *PlanServiceImpl) CreatePlan(ctx context.Context, req plan.CreatePlanRequest) (plan.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return plan.PlanResponse{}, err
	}

	newPlan := plan.Plan{
		Name:      req.Name,
		Price:     *req.Price,
		CreatedAt: s.now(),
	}
	if req.CreatedAt != nil {
		newPlan.CreatedAt = *req.CreatedAt
	}

	created, err := s.planRepo.Create(ctx, newPlan)
	if err != nil {
		return plan.PlanResponse{}, fmt.Errorf("failed to create plan: %w", err)
	}
	return created.ToResponse(), nil
}

// UpdatePlan implements plan.PlanService.
func (s *PlanServiceImpl) UpdatePlan(ctx context.Context, id int64, req plan.UpdatePlanRequest) (plan.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return plan.PlanResponse{}, err
	}
	if req.UpdatedAt == nil {
		now := s.now()
		req.UpdatedAt = &now
	}

	updated, err := s.planRepo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return plan.PlanResponse{}, plan.ErrPlanNotFound
		}
		return plan.PlanResponse{}, fmt.Errorf("failed to update plan: %w", err)
	}
	return updated.ToResponse(), nil
}

// UpgradePrice implements plan.PlanService.
func (s *PlanServiceImpl) UpgradePrice(ctx context.Context, req plan.UpgradePriceRequest) (plan.UpgradePriceResponse, error) {
	if err := req.Validate(); err != nil {
		return plan.UpgradePriceResponse{}, err
	}

	amount, err := s.pricer.ComputeUpgradePrice(ctx, req.CurrentPlanID, req.NewPlanID, req.Date(), s.now())
	if err != nil {
		return plan.UpgradePriceResponse{}, err
	}

	return plan.UpgradePriceResponse{
		CurrentPlanID: req.CurrentPlanID,
		NewPlanID:     req.NewPlanID,
		UpgradeDate:   req.UpgradeDate,
		Currency:      s.currency,
		Amount:        amount,
		AmountDue:     amount.RoundBank(s.roundingPlaces),
	}, nil
}
