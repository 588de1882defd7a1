package middleware

import (
	"context"

	"docflow/internal/models"
)

const pkg = "middleware/"

type ActorResolver interface {
	ActorByToken(ctx context.Context, token string) (*models.User, error)
}
