package postgresql

import (
	"context"

	"github.com/cmlabs-hris/billing-backend-go/internal/domain/team"
	"github.com/cmlabs-hris/billing-backend-go/internal/pkg/database"
)

type teamRepositoryImpl struct {
	db *database.DB
}

func NewTeamRepository(db *database.DB) team.TeamRepository {
	return &teamRepositoryImpl{db: db}
}

// Create implements team.TeamRepository.
func (r *teamRepositoryImpl) Create(ctx context.Context, newTeam team.Team) (team.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO teams (name, is_personal, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, is_personal, user_id, created_at, updated_at
	`

	var created team.Team
	err := q.QueryRow(ctx, query, newTeam.Name, newTeam.IsPersonal, newTeam.UserID).Scan(
		&created.ID,
		&created.Name,
		&created.IsPersonal,
		&created.UserID,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return team.Team{}, err
	}
	return created, nil
}

// ListByUserID implements team.TeamRepository.
func (r *teamRepositoryImpl) ListByUserID(ctx context.Context, userID int64) ([]team.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, is_personal, user_id, created_at, updated_at
		FROM teams
		WHERE user_id = $1
		ORDER BY is_personal DESC, id
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]team.Team, 0)
	for rows.Next() {
		var t team.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.IsPersonal, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}
