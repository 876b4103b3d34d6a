package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"chessbook-sync/internal/model"
	"chessbook-sync/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto the flat {"error": ...} body the
// browser client expects. Services classify failures as apierror.APIError;
// anything else becomes a generic 500 and internal detail never reaches
// the caller.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		message = apiErr.Message
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, model.ErrorResponse{Error: message})
}
