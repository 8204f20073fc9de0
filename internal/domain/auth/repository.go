package auth

import (
	"context"
	"time"
)

// RefreshTokenRepository stores hashes of issued refresh tokens
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID int64, token string, expiresAt int64, session SessionTrackingRequest) error

	// IsRefreshTokenRevoked returns the owner of the token and whether it is revoked or expired
	IsRefreshTokenRevoked(ctx context.Context, token string) (userID int64, revoked bool, err error)
	RevokeRefreshToken(ctx context.Context, token string) error

	// DeleteStale removes tokens that expired or were revoked before cutoff
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}
