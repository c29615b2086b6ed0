// HTTP handler for historical case matching.
// POST /api/v1/fir/similar — ranks the queried description against all filed
// FIR records, fetched fresh per request.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adityabhaskar/nyaya/internal/domain/retrieval"
)

// SimilarCasesHandler handles case-similarity requests.
type SimilarCasesHandler struct {
	retrieval *retrieval.Service
}

// NewSimilarCasesHandler creates a SimilarCasesHandler.
func NewSimilarCasesHandler(svc *retrieval.Service) *SimilarCasesHandler {
	return &SimilarCasesHandler{retrieval: svc}
}

// similarRequest is the JSON request body.
type similarRequest struct {
	CaseDescription string `json:"case_description"`
	TopN            int    `json:"top_n,omitempty"`
}

// Similar handles POST /api/v1/fir/similar.
func (h *SimilarCasesHandler) Similar(w http.ResponseWriter, r *http.Request) {
	var req similarRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.retrieval.FindSimilarCases(r.Context(), req.CaseDescription, req.TopN)
	if err != nil {
		writeRetrievalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
