package docs

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"docflow/internal/dto"
	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"
)

func Share(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, ds DocumentSharer) {
	op := pkg + "Share"

	log = log.With(slog.String("op", op))

	actor, ok := ctx.Value(models.UserContextKey).(*models.User)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	var req dto.ShareRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode share request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if (req.UserID == "") == (req.TeamID == "") {
		utils.WriteJSONError(w, http.StatusBadRequest, "exactly one of user_id or team_id is required")
		return
	}

	var err error

	if req.UserID != "" {
		err = ds.ShareWithUser(ctx, docID, req.UserID, actor, req.RequestSignature)
	} else {
		err = ds.ShareWithTeam(ctx, docID, req.TeamID, actor, req.RequestSignature)
	}

	if err != nil {
		log.Warn("failed to share document", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"shared": true}}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
