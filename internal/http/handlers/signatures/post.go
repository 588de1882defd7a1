package signatures

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"docflow/internal/dto"
	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"
)

const maxSignatureBytes = 5 << 20

func Request(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, sr SignatureRequester) {
	op := pkg + "Request"

	log = log.With(slog.String("op", op))

	actor, ok := ctx.Value(models.UserContextKey).(*models.User)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	var req dto.RequestSignaturesRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	if err := sr.RequestSignatures(ctx, docID, actor, req.Signers); err != nil {
		log.Warn("failed to request signatures", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"requested": true}}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

// Sign accepts an optional multipart "signature" part carrying a drawn
// signature image.
func Sign(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, s Signer) {
	op := pkg + "Sign"

	log = log.With(slog.String("op", op))

	actor, ok := ctx.Value(models.UserContextKey).(*models.User)
	if !ok {
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	var (
		attachment io.Reader
		size       int64
		mime       string
	)

	if err := r.ParseMultipartForm(maxSignatureBytes); err == nil {
		var meta dto.SignMeta
		if metaPart := r.FormValue("meta"); metaPart != "" {
			if err := json.Unmarshal([]byte(metaPart), &meta); err != nil {
				log.Warn("failed to unmarshal meta", slog.String("error", err.Error()))
				utils.WriteJSONError(w, http.StatusBadRequest, "invalid meta json")
				return
			}
		}

		if file, header, err := r.FormFile("signature"); err == nil {
			defer file.Close()

			attachment = file
			size = header.Size
			mime = meta.Mime
		}
	}

	status, err := s.Sign(ctx, docID, actor, attachment, size, mime)
	if err != nil {
		log.Warn("failed to sign document", slog.String("error", err.Error()))
		utils.WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]any{"signed": true, "signing_status": status},
	}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
