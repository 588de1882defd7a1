package docs

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"
)

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, dd DocumentDeleter) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	actor, ok := ctx.Value(models.UserContextKey).(*models.User)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	var err error

	if r.URL.Query().Get("permanent") == "true" {
		err = dd.HardDelete(ctx, docID, actor)
	} else {
		err = dd.SoftDelete(ctx, docID, actor)
	}

	if err != nil {
		log.Warn("failed to delete document", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"deleted": true}}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
