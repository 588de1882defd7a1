package reviews

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"docflow/internal/dto"
	"docflow/internal/models"
	reviewservice "docflow/internal/services/review"
	utils "docflow/internal/utils/http_errors"
)

const maxEditBytes = 32 << 20

func SaveEdit(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, es EditSaver) {
	op := pkg + "SaveEdit"

	log = log.With(slog.String("op", op))

	actor, ok := ctx.Value(models.UserContextKey).(*models.User)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	if err := r.ParseMultipartForm(maxEditBytes); err != nil {
		log.Warn("failed to parse multipart form", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	var meta dto.SaveEditMeta

	if metaPart := r.FormValue("meta"); metaPart != "" {
		if err := json.Unmarshal([]byte(metaPart), &meta); err != nil {
			log.Warn("failed to unmarshal meta", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusBadRequest, "invalid meta json")
			return
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	rev, err := es.SaveEdit(ctx, docID, actor, reviewservice.SaveEditParams{
		Content:     file,
		Size:        header.Size,
		Mime:        meta.Mime,
		Annotations: meta.Annotations,
		Comments:    meta.Comments,
	})
	if err != nil {
		log.Warn("failed to save edit", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]any{"data": dto.FromRevision(rev)}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func Submit(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, revID string, rs RevisionSubmitter) {
	op := pkg + "Submit"

	log = log.With(slog.String("op", op))

	actor, ok := ctx.Value(models.UserContextKey).(*models.User)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	var req dto.SubmitRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode submit request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if err := rs.Submit(ctx, docID, revID, actor, req.Message); err != nil {
		log.Warn("failed to submit revision", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"submitted": true}}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func Review(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, revID string, rv Reviewer) {
	op := pkg + "Review"

	log = log.With(slog.String("op", op))

	actor, ok := ctx.Value(models.UserContextKey).(*models.User)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	var req dto.ReviewRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode review request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if err := rv.Review(ctx, docID, revID, actor, req.Action, req.Comments); err != nil {
		log.Warn("failed to review revision", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"reviewed": true, "action": req.Action}}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
