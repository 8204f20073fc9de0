package proration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/billing-backend-go/internal/domain/plan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// PlanLookup resolves a plan identifier to a plan
type PlanLookup interface {
	GetByID(ctx context.Context, id int64) (plan.Plan, error)
}

// Calculator prices mid-month plan upgrades. It holds no state besides the lookup.
type Calculator struct {
	plans PlanLookup
}

func NewCalculator(plans PlanLookup) *Calculator {
	return &Calculator{plans: plans}
}

// ComputeUpgradePrice returns the amount owed for moving from currentPlanID to newPlanID
// on upgradeDate. asOf is the evaluation instant used for the future-month check.
// The result is exact; callers round for display.
func (c *Calculator) ComputeUpgradePrice(ctx context.Context, currentPlanID, newPlanID int64, upgradeDate, asOf time.Time) (decimal.Decimal, error) {
	var current, next plan.Plan

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.lookup(gctx, currentPlanID)
		current = p
		return err
	})
	g.Go(func() error {
		p, err := c.lookup(gctx, newPlanID)
		next = p
		return err
	})
	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}

	if !current.IsUpgradeTo(next) {
		return decimal.Zero, plan.ErrDowngradeNotSupported
	}

	if isFutureMonth(upgradeDate, asOf) {
		return decimal.Zero, plan.ErrFutureDate
	}

	return ProratedUpgradePrice(current.Price, next.Price, upgradeDate), nil
}

func (c *Calculator) lookup(ctx context.Context, id int64) (plan.Plan, error) {
	if id <= 0 {
		return plan.Plan{}, plan.ErrInvalidPlan
	}
	p, err := c.plans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, plan.ErrPlanNotFound) {
			return plan.Plan{}, plan.ErrInvalidPlan
		}
		return plan.Plan{}, fmt.Errorf("failed to get plan %d: %w", id, err)
	}
	return p, nil
}

// ProratedUpgradePrice charges the price difference for the days left in the month of
// upgradeDate, the upgrade day included. An upgrade on the 1st costs the full new price.
func ProratedUpgradePrice(currentPrice, newPrice int64, upgradeDate time.Time) decimal.Decimal {
	days := DaysInMonth(upgradeDate)
	remaining := RemainingDaysInMonth(upgradeDate)

	if remaining == days {
		return decimal.NewFromInt(newPrice)
	}

	// Multiply before dividing so repeating fractions are only cut once.
	diff := decimal.NewFromInt(newPrice - currentPrice)
	return diff.Mul(decimal.NewFromInt(int64(remaining))).Div(decimal.NewFromInt(int64(days)))
}

// DaysInMonth returns the number of days in the month of t
func DaysInMonth(t time.Time) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// RemainingDaysInMonth counts the days from t through the end of its month, inclusive
func RemainingDaysInMonth(t time.Time) int {
	return DaysInMonth(t) - t.Day() + 1
}

func isFutureMonth(upgradeDate, asOf time.Time) bool {
	asOf = asOf.In(upgradeDate.Location())
	if upgradeDate.Year() != asOf.Year() {
		return upgradeDate.Year() > asOf.Year()
	}
	return upgradeDate.Month() > asOf.Month()
}
