package user

import "context"

// UserService exposes read access to the signed-in user's account
type UserService interface {
	// GetMe returns the user's profile and teams
	GetMe(ctx context.Context, userID int64) (MeResponse, error)
}
