package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/billing-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/billing-backend-go/internal/domain/plan"
	"github.com/cmlabs-hris/billing-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/billing-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrRefreshTokenCookieNotFound), errors.Is(err, auth.ErrRefreshTokenCookieEmpty):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrEmailAlreadyExists), errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, auth.ErrStateCookieEmpty),
		errors.Is(err, auth.ErrStateParamEmpty),
		errors.Is(err, auth.ErrStateMismatch),
		errors.Is(err, auth.ErrCodeValueEmpty),
		errors.Is(err, auth.ErrGoogleAccessDeniedByUser):
		BadRequest(w, err.Error(), nil)

	// User domain errors
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserIDRequired):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Plan domain errors
	case errors.Is(err, plan.ErrPlanNotFound):
		NotFound(w, "Plan not found")
	case errors.Is(err, plan.ErrInvalidPlan):
		BadRequest(w, "Current plan or new plan is invalid", nil)
	case errors.Is(err, plan.ErrFutureDate):
		BadRequest(w, "Upgrade date cannot be in a future month", nil)
	case errors.Is(err, plan.ErrDowngradeNotSupported):
		Forbidden(w, "Downgrading plans is not supported")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
