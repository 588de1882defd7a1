package notifyservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"docflow/internal/models"

	uuid "github.com/satori/go.uuid"
)

const pkg = "notifyService/"

const listLimit = 50

// Service is the notification sink. Delivery is fire-and-forget: a failed
// insert or push is logged and counted but never surfaced to the caller, so a
// state transition can't be failed by its own notification.
type Service struct {
	log      *slog.Logger
	repo     NotificationRepository
	pub      Publisher
	failures FailureCounter
}

func New(log *slog.Logger, repo NotificationRepository, pub Publisher, failures FailureCounter) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		pub:      pub,
		failures: failures,
	}
}

func (s *Service) Notify(ctx context.Context, userID string, eventType string, message string, data map[string]string) {
	op := pkg + "Notify"

	log := s.log.With(slog.String("op", op))

	n := &models.Notification{
		ID:        uuid.NewV4().String(),
		UserID:    userID,
		Type:      eventType,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, n); err != nil {
		log.Error("failed to store notification",
			slog.String("user_id", userID),
			slog.String("type", eventType),
			slog.String("error", err.Error()))
		s.failures.DependencyFailure("notification_store")
		return
	}

	payload, err := json.Marshal(n)
	if err != nil {
		log.Error("failed to marshal notification", slog.String("error", err.Error()))
		s.failures.DependencyFailure("notification_push")
		return
	}

	// Best-effort live push; nobody listening is not an error.
	if err := s.pub.Publish(ctx, fmt.Sprintf("notify:%s", userID), payload).Err(); err != nil {
		log.Warn("failed to push notification",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		s.failures.DependencyFailure("notification_push")
	}

	log.Debug("notification emitted",
		slog.String("user_id", userID),
		slog.String("type", eventType))
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	op := pkg + "ListByUser"

	log := s.log.With(slog.String("op", op))

	notifs, err := s.repo.ListByUser(ctx, userID, listLimit)
	if err != nil {
		log.Error("failed to list notifications", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	return notifs, nil
}
