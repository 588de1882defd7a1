package notificationrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"docflow/internal/entities"
	"docflow/internal/models"

	"github.com/jmoiron/sqlx"
)

const pkg = "notificationRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, n *models.Notification) error {
	op := pkg + "Insert"

	var data any

	if len(n.Data) > 0 {
		raw, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		data = raw
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, type, message, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.UserID, n.Type, n.Message, data, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	op := pkg + "ListByUser"

	rawNotifs := make([]entities.Notification, 0)

	err := r.db.SelectContext(ctx, &rawNotifs,
		`SELECT
			n.id AS id,
			n.user_id AS user_id,
			n.type AS type,
			n.message AS message,
			n.data AS data,
			n.created_at AS created_at
		FROM notifications n
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	notifs := make([]*models.Notification, 0, len(rawNotifs))

	for _, raw := range rawNotifs {
		n := &models.Notification{
			ID:        raw.ID,
			UserID:    raw.UserID,
			Type:      raw.Type,
			Message:   raw.Message,
			CreatedAt: raw.CreatedAt,
		}

		if len(raw.Data) > 0 {
			if err := json.Unmarshal(raw.Data, &n.Data); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}

		notifs = append(notifs, n)
	}

	return notifs, nil
}
