package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aether-player/media-kit/pkg/backend/middleware"
	"github.com/aether-player/media-kit/pkg/backendtypes"
)

// SendSuccess sends a successful JSON response with data
func SendSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	writeJSON(w, http.StatusOK, backendtypes.APIResponse{
		Success:   true,
		Data:      data,
		RequestID: middleware.GetRequestID(r.Context()),
		Timestamp: time.Now(),
	})
}

// SendError sends an error JSON response with APIError
func SendError(w http.ResponseWriter, r *http.Request, code string, message string, statusCode int) {
	writeJSON(w, statusCode, backendtypes.APIResponse{
		Success: false,
		Error: &backendtypes.APIError{
			Code:    code,
			Message: message,
		},
		RequestID: middleware.GetRequestID(r.Context()),
		Timestamp: time.Now(),
	})
}

// SendResult writes an operation result (an envelope or aggregate) with status 200
func SendResult(w http.ResponseWriter, result interface{}) {
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// RequireQuery returns the named query parameter. A missing parameter is
// answered with 400 MISSING_PARAMETER and ok=false. A present but blank value
// is passed through; the operation reports it as a failure envelope.
func RequireQuery(w http.ResponseWriter, r *http.Request, name string) (value string, ok bool) {
	query := r.URL.Query()
	if !query.Has(name) {
		SendError(w, r, backendtypes.ErrCodeMissingParameter,
			"query parameter "+name+" is required", http.StatusBadRequest)
		return "", false
	}
	return query.Get(name), true
}
