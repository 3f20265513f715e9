package api

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/odvcencio/sketchd/pkg/errors"
)

// respondJSON sends a JSON response with appropriate headers.
func respondJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

// respondError sends a structured JSON error response with an explicit status.
func respondError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	response := struct {
		Error     string `json:"error"`
		Status    int    `json:"status"`
		Code      string `json:"code,omitempty"`
		Detail    string `json:"detail"`
		Timestamp string `json:"timestamp"`
	}{
		Status:    status,
		Detail:    http.StatusText(status),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	var appErr *apperrors.Error
	if err != nil {
		response.Detail = err.Error()
		if ok := asAppError(err, &appErr); ok {
			response.Code = string(appErr.Code)
			response.Detail = appErr.Message
		}
	}
	response.Error = response.Detail

	_ = json.NewEncoder(w).Encode(response)
}

// respondAppError maps a structured error to its transport status. Error kind
// to status translation happens only here, at the boundary.
func respondAppError(w http.ResponseWriter, err error) {
	respondError(w, apperrors.StatusForError(err), err)
}

func asAppError(err error, target **apperrors.Error) bool {
	appErr, ok := err.(*apperrors.Error)
	if !ok {
		return false
	}
	*target = appErr
	return true
}
