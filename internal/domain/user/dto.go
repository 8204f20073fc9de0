package user

import (
	"time"

	"github.com/cmlabs-hris/billing-backend-go/internal/domain/team"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID            int64   `json:"id"`
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	Locale        string  `json:"locale"`
	Timezone      *string `json:"timezone,omitempty"`
	IsAdmin       bool    `json:"is_admin"`
	OAuthProvider *string `json:"oauth_provider,omitempty"`
	EmailVerified bool    `json:"email_verified"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// MeResponse is the authenticated user's profile together with their teams
type MeResponse struct {
	User  UserResponse        `json:"user"`
	Teams []team.TeamResponse `json:"teams"`
}

// ToResponse converts a User entity to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Locale:        u.Locale,
		Timezone:      u.Timezone,
		IsAdmin:       u.IsAdmin,
		OAuthProvider: u.OAuthProvider,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     u.UpdatedAt.Format(time.RFC3339),
	}
}
