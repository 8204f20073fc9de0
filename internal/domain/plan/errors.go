package plan

import "errors"

var (
	ErrPlanNotFound = errors.New("plan not found")

	// Upgrade price errors
	ErrInvalidPlan           = errors.New("current plan or new plan is invalid")
	ErrDowngradeNotSupported = errors.New("downgrades are not supported through this method")
	ErrFutureDate            = errors.New("upgrade date cannot be in a future month")
)
