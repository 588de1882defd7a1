package teamrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"docflow/internal/models"

	"github.com/jmoiron/sqlx"
)

const pkg = "teamRepo/"

// repository reads team membership. Membership management itself lives in an
// external service; the engine only resolves members for the share fan-out.
type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) TeamByID(ctx context.Context, teamID string) (*models.Team, error) {
	op := pkg + "TeamByID"

	var raw struct {
		ID        string `db:"id"`
		Name      string `db:"name"`
		IsDeleted bool   `db:"is_deleted"`
	}

	err := r.db.GetContext(ctx, &raw,
		`SELECT t.id AS id, t.name AS name, t.is_deleted AS is_deleted
		FROM teams t
		WHERE t.id = $1`,
		teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrTeamNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	members := make([]string, 0)

	err = r.db.SelectContext(ctx, &members,
		`SELECT m.user_id FROM team_members m WHERE m.team_id = $1`,
		teamID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Team{
		ID:        raw.ID,
		Name:      raw.Name,
		IsDeleted: raw.IsDeleted,
		Members:   members,
	}, nil
}
