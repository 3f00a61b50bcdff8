package api

import (
	"encoding/json"
	"net/http"

	"github.com/compose-network/da-oracle/server/api/middleware"
)

// Error envelope types live with the middleware so panics recovered there
// share the shape of handler errors.
type (
	ErrorBody   = middleware.ErrorBody
	ErrorDetail = middleware.ErrorDetail
)

// WriteError writes a standardized error response with request tracking.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	middleware.WriteError(w, r, status, code, message, details)
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
