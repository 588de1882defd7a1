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

func Search(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, ds DocumentSearcher) {
	op := pkg + "Search"

	log = log.With(slog.String("op", op))

	actor, ok := ctx.Value(models.UserContextKey).(*models.User)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	term := r.URL.Query().Get("term")

	docs, err := ds.SearchAccessible(ctx, actor, term)
	if err != nil {
		log.Warn("failed to search documents", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"data": dto.FromDocuments(docs)}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func DownloadURL(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, ds DocumentSearcher) {
	op := pkg + "DownloadURL"

	log = log.With(slog.String("op", op))

	actor, ok := ctx.Value(models.UserContextKey).(*models.User)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	url, ttl, err := ds.DownloadURL(ctx, docID, actor)
	if err != nil {
		log.Warn("failed to presign download url", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"data": dto.DownloadURLResponse{URL: url, ExpiresIn: int(ttl.Seconds())},
	}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
