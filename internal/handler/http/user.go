package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/billing-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/billing-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/billing-backend-go/internal/handler/http/response"
)

type UserHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

// Me returns the caller's profile and teams
// GET /api/v1/users/me - Authenticated
func (h *userHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	me, err := h.userService.GetMe(r.Context(), userID)
	if err != nil {
		slog.Error("GetMe service error", "user_id", userID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, me)
}
