// Handler helper functions: JSON writing and retrieval error mapping.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adityabhaskar/nyaya/internal/domain/retrieval"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(payload); encodeErr != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeRetrievalError maps retrieval pipeline failures to HTTP statuses:
// invalid query 400, embedding model unavailable 503, generative service
// failure 502, anything else 500.
func writeRetrievalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, retrieval.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, "query text is required")
	case errors.Is(err, retrieval.ErrEncoding), errors.Is(err, retrieval.ErrDimensionMismatch):
		writeError(w, http.StatusServiceUnavailable, "embedding model unavailable")
	case errors.Is(err, retrieval.ErrExternalService):
		writeError(w, http.StatusBadGateway, "AI service failed to respond")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
