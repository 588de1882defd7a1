package cachesessionrepo

import (
	"context"

	"docflow/internal/models"
	cacherepo "docflow/internal/repositories/cache"
)

type repository struct {
	cache cacherepo.Cache
}

func New(cache cacherepo.Cache) *repository {
	return &repository{
		cache: cache,
	}
}

// ActorByToken returns the JSON-encoded actor stored for a session token.
// Session issuance belongs to the external auth service; this repo only reads.
func (r *repository) ActorByToken(ctx context.Context, token string) (string, error) {
	actorJSON, err := r.cache.Get(ctx, "session:"+token).Result()
	if err != nil {
		return "", err
	}

	if actorJSON == "" {
		return "", models.ErrSessionNotFound
	}

	return actorJSON, nil
}
