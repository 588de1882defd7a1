package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"docflow/internal/models"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

func WriteJSONError(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: status, Text: text}})
}

// WriteServiceError maps the engine's error taxonomy onto HTTP statuses.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrDocumentNotFound),
		errors.Is(err, models.ErrRevisionNotFound),
		errors.Is(err, models.ErrTeamNotFound):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
	case errors.Is(err, models.ErrConflict):
		WriteJSONError(w, http.StatusConflict, models.ErrConflict.Error())
	case errors.Is(err, models.ErrInvalidParams), errors.Is(err, models.ErrNoMembers):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrDependencyFailed):
		WriteJSONError(w, http.StatusBadGateway, models.ErrDependencyFailed.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
	}
}
