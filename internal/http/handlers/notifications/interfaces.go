package notifications

import (
	"context"

	"docflow/internal/models"
)

const pkg = "notificationsHandler/"

type NotificationProvider interface {
	ListByUser(ctx context.Context, userID string) ([]*models.Notification, error)
}
