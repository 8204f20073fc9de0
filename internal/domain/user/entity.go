package user

import "time"

type User struct {
	ID              int64
	Email           string
	Name            string
	PasswordHash    *string
	EmailVerified   bool
	Locale          string
	Timezone        *string
	IsAdmin         bool
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasPassword reports whether the user can sign in with a password
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// IsLinkedTo reports whether the user already has the given OAuth provider linked
func (u *User) IsLinkedTo(provider string) bool {
	return u.OAuthProvider != nil && *u.OAuthProvider == provider && u.OAuthProviderID != nil
}
