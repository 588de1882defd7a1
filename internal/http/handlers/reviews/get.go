package reviews

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"docflow/internal/dto"
	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"
)

func Pending(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, pp PendingProvider) {
	op := pkg + "Pending"

	log = log.With(slog.String("op", op))

	actor, ok := ctx.Value(models.UserContextKey).(*models.User)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	pending, err := pp.ListPendingReviews(ctx, actor)
	if err != nil {
		log.Warn("failed to list pending reviews", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"data": dto.FromPendingReviews(pending)}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
