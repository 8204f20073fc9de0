package auth

import (
	"context"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest, session SessionTrackingRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	LoginWithGoogle(ctx context.Context, profile GoogleProfile, session SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error

	// IsAdmin reads the admin flag from storage so that revoked privileges apply
	// before the access token expires.
	IsAdmin(ctx context.Context, userID int64) (bool, error)

	// PurgeRefreshTokens deletes refresh tokens that expired or were revoked
	PurgeRefreshTokens(ctx context.Context) (int64, error)
}
