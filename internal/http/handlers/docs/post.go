package docs

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"docflow/internal/dto"
	"docflow/internal/models"
	lifecycleservice "docflow/internal/services/lifecycle"
	utils "docflow/internal/utils/http_errors"
)

const maxUploadBytes = 32 << 20

func Upload(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, dc DocumentCreator) {
	op := pkg + "Upload"

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

	if err := json.Unmarshal([]byte(r.FormValue("meta")), &meta); err != nil {
		log.Warn("failed to unmarshal meta", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, "invalid meta json")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	if meta.Filename == "" {
		meta.Filename = header.Filename
	}

	doc, err := dc.CreateDocument(ctx, actor, lifecycleservice.CreateParams{
		Filename:         meta.Filename,
		DocType:          meta.DocType,
		Mime:             meta.Mime,
		Size:             header.Size,
		RequireSignature: meta.RequireSignature,
		Signers:          meta.Signers,
	}, file)
	if err != nil {
		log.Error("failed to create document", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]any{"data": dto.FromDocument(doc)}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
