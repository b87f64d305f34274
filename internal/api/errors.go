package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/blackwell-systems/cardctl/internal/logging"
)

var (
	errNotFound        = errors.New("not found")
	errBadID           = errors.New("card id must be an integer")
	errUpdatesDisabled = errors.New("updates are not enabled on this server")
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// respondError logs err through the request logger and writes it as JSON.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
	)
	requestID := middleware.GetReqID(r.Context())
	respondJSON(w, statusCode, ErrorResponse{Error: err.Error(), RequestID: requestID})
}

func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
