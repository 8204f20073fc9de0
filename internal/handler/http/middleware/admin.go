package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/billing-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/billing-backend-go/internal/handler/http/response"
)

// AdminChecker reports whether a user currently holds admin rights
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

type AdminMiddleware struct {
	checker AdminChecker
}

func NewAdminMiddleware(checker AdminChecker) *AdminMiddleware {
	return &AdminMiddleware{checker: checker}
}

// AdminOnly looks the caller up in storage instead of trusting the is_admin claim,
// so revoked rights apply immediately. Run it after AuthRequired.
func (m *AdminMiddleware) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		isAdmin, err := m.checker.IsAdmin(r.Context(), userID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				response.HandleError(w, user.ErrAdminPrivilegeRequired)
				return
			}
			slog.Error("failed to check admin privilege", "user_id", userID, "error", err)
			response.HandleError(w, err)
			return
		}
		if !isAdmin {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
