package team

import "context"

type TeamRepository interface {
	Create(ctx context.Context, newTeam Team) (Team, error)
	ListByUserID(ctx context.Context, userID int64) ([]Team, error)
}
