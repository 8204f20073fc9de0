package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/billing-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/billing-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/billing-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the request-independent settings of the router
type RouterOptions struct {
	AllowedOrigins []string
	// GoogleLogin registers the Google OAuth routes
	GoogleLogin bool
}

func NewRouter(
	logger *slog.Logger,
	opts RouterOptions,
	jwtService jwt.Service,
	adminMiddleware *middleware.AdminMiddleware,
	authHandler AuthHandler,
	planHandler PlanHandler,
	userHandler UserHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)

			r.Route("/login", func(r chi.Router) {
				r.Post("/", authHandler.Login)
				if opts.GoogleLogin {
					r.Get("/oauth/google", authHandler.LoginWithGoogle)
				}
			})
			if opts.GoogleLogin {
				r.Get("/oauth/callback/google", authHandler.OAuthCallbackGoogle)
			}
		})

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", planHandler.List)
			r.Get("/{id}", planHandler.GetByID)

			// Requires authentication
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

				r.Post("/upgrade", planHandler.UpgradePrice)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(adminMiddleware.AdminOnly)
					r.Post("/", planHandler.Create)
					r.Put("/{id}", planHandler.Update)
				})
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Get("/me", userHandler.Me)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
