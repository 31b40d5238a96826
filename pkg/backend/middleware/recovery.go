package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/aether-player/media-kit/pkg/backendtypes"
)

// Recovery turns a handler panic into a 500 INTERNAL_ERROR response
func Recovery(logger *log.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					requestID := GetRequestID(r.Context())
					logger.Printf("[%s] PANIC: %v\n%s", requestID, err, debug.Stack())

					writeError(w, r, http.StatusInternalServerError,
						backendtypes.ErrCodeInternal, "An internal error occurred")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// writeError writes the bridge error shape. The handlers package has its own
// SendError; middleware cannot import it without a cycle.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(backendtypes.APIResponse{
		Success: false,
		Error: &backendtypes.APIError{
			Code:    code,
			Message: message,
		},
		RequestID: GetRequestID(r.Context()),
		Timestamp: time.Now(),
	})
}
