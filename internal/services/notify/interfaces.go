package notifyservice

import (
	"context"

	"docflow/internal/models"
	cacherepo "docflow/internal/repositories/cache"
)

type NotificationRepository interface {
	Insert(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
}

type Publisher interface {
	Publish(ctx context.Context, channel string, payload interface{}) cacherepo.CacheResponse[int64]
}

type FailureCounter interface {
	DependencyFailure(component string)
}
