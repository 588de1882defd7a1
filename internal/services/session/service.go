package sessionservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"docflow/internal/models"
)

const pkg = "sessionService/"

type SessionStorer interface {
	ActorByToken(ctx context.Context, token string) (string, error)
}

// Service resolves bearer tokens to actors. Tokens are issued by the external
// auth service; the engine only consumes the resolved {actorId, role} pair.
// The admin token is a deployment-level override for operational access.
type Service struct {
	log        *slog.Logger
	sessions   SessionStorer
	adminToken string
}

func New(log *slog.Logger, sessions SessionStorer, adminToken string) *Service {
	return &Service{
		log:        log,
		sessions:   sessions,
		adminToken: adminToken,
	}
}

func (s *Service) ActorByToken(ctx context.Context, token string) (*models.User, error) {
	op := pkg + "ActorByToken"

	log := s.log.With(slog.String("op", op))

	if token == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrSessionNotFound)
	}

	if s.adminToken != "" && token == s.adminToken {
		return &models.User{ID: "admin", Login: "admin", Role: models.RoleAdmin}, nil
	}

	actorJSON, err := s.sessions.ActorByToken(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			log.Warn("session not found")
			return nil, fmt.Errorf("%s: %w", op, models.ErrSessionNotFound)
		}
		log.Error("failed to resolve session", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	var actor models.User

	if err := json.Unmarshal([]byte(actorJSON), &actor); err != nil {
		log.Error("failed to decode actor", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return &actor, nil
}
