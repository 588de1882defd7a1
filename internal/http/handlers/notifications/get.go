package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"
)

func List(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, np NotificationProvider) {
	op := pkg + "List"

	log = log.With(slog.String("op", op))

	actor, ok := ctx.Value(models.UserContextKey).(*models.User)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	notes, err := np.ListByUser(ctx, actor.ID)
	if err != nil {
		log.Warn("failed to list notifications", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"data": notes}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
