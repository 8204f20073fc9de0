package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/billing-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/billing-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/billing-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/billing-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/billing-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/billing-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/billing-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/billing-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/billing-backend-go/internal/service/auth"
	servicePlan "github.com/cmlabs-hris/billing-backend-go/internal/service/plan"
	"github.com/cmlabs-hris/billing-backend-go/internal/service/proration"
	serviceUser "github.com/cmlabs-hris/billing-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
)

const (
	appName         = "billing-backend"
	appVersion      = "v1.0.0"
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	// Repositories
	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	teamRepo := postgresql.NewTeamRepository(db)
	planRepo := postgresql.NewPlanRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)

	// Services
	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}
	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	authService := serviceAuth.NewAuthService(transactor, userRepo, teamRepo, jwtService, refreshTokenRepo)
	calculator := proration.NewCalculator(planRepo)
	planService := servicePlan.NewPlanService(planRepo, calculator, cfg.Billing.Currency, cfg.Billing.RoundingPlaces)
	userService := serviceUser.NewUserService(userRepo, teamRepo)

	// Handlers
	authHandler := appHTTP.NewAuthHandler(jwtService, authService, googleService, cfg.App.FrontendURL, cfg.IsProduction())
	planHandler := appHTTP.NewPlanHandler(planService)
	userHandler := appHTTP.NewUserHandler(userService)

	router := appHTTP.NewRouter(
		logger,
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.App.AllowedOrigins,
			GoogleLogin:    cfg.OAuth2Google.Enabled(),
		},
		jwtService,
		middleware.NewAdminMiddleware(authService),
		authHandler,
		planHandler,
		userHandler,
	)

	// Background jobs
	scheduler := cron.NewScheduler(logger)
	if err := cron.NewTokenJobs(authService, logger).RegisterJobs(scheduler, cfg.Billing.TokenPurgeSchedule); err != nil {
		return err
	}
	// Tokens that expired while the service was down are purged before serving.
	scheduler.RunOnce(ctx)
	scheduler.Start()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	scheduler.Stop(shutdownCtx)

	logger.Info("Server stopped")
	return nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
	return logger, nil
}
