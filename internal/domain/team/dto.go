package team

import "time"

type TeamResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	IsPersonal bool   `json:"is_personal"`
	CreatedAt  string `json:"created_at"`
}

func (t *Team) ToResponse() TeamResponse {
	return TeamResponse{
		ID:         t.ID,
		Name:       t.Name,
		IsPersonal: t.IsPersonal,
		CreatedAt:  t.CreatedAt.Format(time.RFC3339),
	}
}
