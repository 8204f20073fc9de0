package team

import "time"

// Team groups users under a subscription. Every user gets a personal team on sign-up.
type Team struct {
	ID         int64
	Name       string
	IsPersonal bool
	UserID     int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PersonalTeamName returns the default name of a user's personal team
func PersonalTeamName(userName string) string {
	return userName + "'s Team"
}
