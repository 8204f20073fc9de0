package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/billing-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/billing-backend-go/internal/domain/team"
	"github.com/cmlabs-hris/billing-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/billing-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/billing-backend-go/internal/pkg/jwt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultLocale  = "en"
	providerGoogle = "google"
)

type AuthServiceImpl struct {
	tx           database.Transactor
	users        user.UserRepository
	teams        team.TeamRepository
	tokens       jwt.Service
	refreshStore auth.RefreshTokenRepository
	bcryptCost   int
	now          func() time.Time
}

func NewAuthService(tx database.Transactor, userRepository user.UserRepository, teamRepository team.TeamRepository, jwtService jwt.Service, refreshTokenRepository auth.RefreshTokenRepository) *AuthServiceImpl {
	return &AuthServiceImpl{
		tx:           tx,
		users:        userRepository,
		teams:        teamRepository,
		tokens:       jwtService,
		refreshStore: refreshTokenRepository,
		bcryptCost:   bcrypt.DefaultCost,
		now:          time.Now,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// issueTokens mints an access/refresh pair and stores the refresh token hash.
// Must run inside a.tx so a failed insert discards the pair.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var resp auth.TokenResponse
	var err error

	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.tokens.GenerateAccessToken(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshTokenExpiresIn, err = a.tokens.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := a.refreshStore.CreateRefreshToken(ctx, u.ID, resp.RefreshToken, resp.RefreshTokenExpiresIn, session); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}
	return resp, nil
}

// createUserWithTeam inserts the user and its personal team
func (a *AuthServiceImpl) createUserWithTeam(ctx context.Context, newUser user.User) (user.User, error) {
	created, err := a.users.Create(ctx, newUser)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return user.User{}, auth.ErrEmailAlreadyExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := a.teams.Create(ctx, team.Team{
		Name:       team.PersonalTeamName(created.Name),
		IsPersonal: true,
		UserID:     created.ID,
	}); err != nil {
		return user.User{}, fmt.Errorf("failed to create personal team: %w", err)
	}
	return created, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var resp auth.TokenResponse

	_, err := a.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return auth.TokenResponse{}, auth.ErrEmailAlreadyExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
	}

	hashedPassword, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err := a.createUserWithTeam(txCtx, user.User{
			Email:        req.Email,
			Name:         req.Name,
			PasswordHash: &hashedPassword,
			Locale:       req.Locale,
			Timezone:     req.Timezone,
		})
		if err != nil {
			return err
		}

		resp, err = a.issueTokens(txCtx, created, session)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return resp, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var resp auth.TokenResponse

	userData, err := a.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Google-only accounts have no password
	if !userData.HasPassword() {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		resp, err = a.issueTokens(txCtx, userData, session)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return resp, nil
}

// LoginWithGoogle implements auth.AuthService. Unknown emails get a new account,
// known emails get the Google identity linked.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, profile auth.GoogleProfile, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var resp auth.TokenResponse

	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		userData, err := a.users.GetByEmail(txCtx, profile.Email)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			name := profile.Name
			if name == "" {
				name = profile.Email
			}
			locale := profile.Locale
			if locale == "" {
				locale = defaultLocale
			}
			provider := providerGoogle
			googleID := profile.GoogleID

			userData, err = a.createUserWithTeam(txCtx, user.User{
				Email:           profile.Email,
				Name:            name,
				EmailVerified:   true,
				Locale:          locale,
				OAuthProvider:   &provider,
				OAuthProviderID: &googleID,
			})
			if err != nil {
				return err
			}
		case err != nil:
			return fmt.Errorf("failed to get user data by email: %w", err)
		case !userData.IsLinkedTo(providerGoogle):
			userData, err = a.users.LinkGoogleAccount(txCtx, profile.GoogleID, userData.Email)
			if err != nil {
				return fmt.Errorf("failed to link google account: %w", err)
			}
		}

		resp, err = a.issueTokens(txCtx, userData, session)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return resp, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	var resp auth.AccessTokenResponse

	// Signature, expiry and token type
	if _, err := a.tokens.ParseRefreshToken(req.RefreshToken); err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// Stored state wins over the claims
	userID, isRevoked, err := a.refreshStore.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	userData, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.AccessTokenResponse{}, auth.ErrUserNotFound
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.tokens.GenerateAccessToken(userData.ID, userData.Email, userData.IsAdmin)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return resp, nil
}

// Logout implements auth.AuthService. Unknown or already revoked tokens are a no-op.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	return a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, isRevoked, err := a.refreshStore.IsRefreshTokenRevoked(txCtx, token)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
		}
		if isRevoked {
			return nil
		}
		if err := a.refreshStore.RevokeRefreshToken(txCtx, token); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
		return nil
	})
}

// IsAdmin implements auth.AuthService.
func (a *AuthServiceImpl) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	isAdmin, err := a.users.IsAdmin(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, user.ErrUserNotFound
		}
		return false, fmt.Errorf("failed to read admin flag: %w", err)
	}
	return isAdmin, nil
}

// PurgeRefreshTokens implements auth.AuthService.
func (a *AuthServiceImpl) PurgeRefreshTokens(ctx context.Context) (int64, error) {
	deleted, err := a.refreshStore.DeleteStale(ctx, a.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	return deleted, nil
}
