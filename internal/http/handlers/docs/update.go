package docs

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"docflow/internal/dto"
	"docflow/internal/models"
	lifecycleservice "docflow/internal/services/lifecycle"
	utils "docflow/internal/utils/http_errors"
)

func Update(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, du DocumentUpdater) {
	op := pkg + "Update"

	log = log.With(slog.String("op", op))

	actor, ok := ctx.Value(models.UserContextKey).(*models.User)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Warn("failed to parse multipart form", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	var meta dto.UploadMeta

	if metaPart := r.FormValue("meta"); metaPart != "" {
		if err := json.Unmarshal([]byte(metaPart), &meta); err != nil {
			log.Warn("failed to unmarshal meta", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusBadRequest, "invalid meta json")
			return
		}
	}

	params := lifecycleservice.UpdateParams{
		NewFilename: meta.Filename,
		NewDocType:  meta.DocType,
		Mime:        meta.Mime,
	}

	var content io.ReadCloser

	if file, header, err := r.FormFile("file"); err == nil {
		content = file
		params.NewContent = file
		params.Size = header.Size

		defer content.Close()
	}

	if err := du.UpdateDocument(ctx, docID, actor, params); err != nil {
		log.Warn("failed to update document", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"updated": true}}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
