package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/billing-backend-go/internal/domain/team"
	"github.com/cmlabs-hris/billing-backend-go/internal/domain/user"
	"github.com/jackc/pgx/v5"
)

type UserServiceImpl struct {
	userRepo user.UserRepository
	teamRepo team.TeamRepository
}

func NewUserService(userRepo user.UserRepository, teamRepo team.TeamRepository) *UserServiceImpl {
	return &UserServiceImpl{userRepo: userRepo, teamRepo: teamRepo}
}

// GetMe implements user.UserService.
func (s *UserServiceImpl) GetMe(ctx context.Context, userID int64) (user.MeResponse, error) {
	if userID <= 0 {
		return user.MeResponse{}, user.ErrUserIDRequired
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.MeResponse{}, user.ErrUserNotFound
		}
		return user.MeResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	teams, err := s.teamRepo.ListByUserID(ctx, userID)
	if err != nil {
		return user.MeResponse{}, fmt.Errorf("failed to list teams: %w", err)
	}

	resp := user.MeResponse{
		User:  u.ToResponse(),
		Teams: make([]team.TeamResponse, 0, len(teams)),
	}
	for _, t := range teams {
		resp.Teams = append(resp.Teams, t.ToResponse())
	}
	return resp, nil
}
