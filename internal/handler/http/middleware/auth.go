package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/billing-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/billing-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/billing-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/billing-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type userIDKey struct{}

// AuthRequired rejects requests without a verified access token and stores the
// caller's user id in the request context. Run it after jwtauth.Verifier.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != jwt.TokenTypeAccess {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			userID, err := jwt.UserIDFromClaims(claims)
			if err != nil || userID <= 0 {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
		}
		return http.HandlerFunc(hfn)
	}
}

// UserIDFromContext returns the id stored by AuthRequired
func UserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDKey{}).(int64)
	if !ok || userID <= 0 {
		return 0, user.ErrUserIDRequired
	}
	return userID, nil
}

func withUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}
