package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"
)

func Auth(log *slog.Logger, resolver ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := pkg + "Auth"

			log = log.With(slog.String("op", op))

			token := r.URL.Query().Get("token")

			actor, err := resolver.ActorByToken(r.Context(), token)
			if err != nil {
				log.Warn("failed to resolve actor by token", slog.String("error", err.Error()))
				utils.WriteJSONError(w, http.StatusForbidden, "token is invalid")
				return
			}

			ctx := context.WithValue(r.Context(), models.UserContextKey, actor)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
