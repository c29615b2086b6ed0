// HTTP handler for penal-code section suggestion.
// POST /api/v1/fir/suggest-sections — keyword table, then semantic ranking,
// then generative fallback.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adityabhaskar/nyaya/internal/domain/retrieval"
)

// SuggestSectionsHandler handles section suggestion requests.
type SuggestSectionsHandler struct {
	retrieval *retrieval.Service
}

// NewSuggestSectionsHandler creates a SuggestSectionsHandler.
func NewSuggestSectionsHandler(svc *retrieval.Service) *SuggestSectionsHandler {
	return &SuggestSectionsHandler{retrieval: svc}
}

// suggestRequest is the JSON request body.
type suggestRequest struct {
	IncidentDescription string `json:"incident_description"`
}

// Suggest handles POST /api/v1/fir/suggest-sections.
func (h *SuggestSectionsHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.retrieval.SuggestSections(r.Context(), req.IncidentDescription)
	if err != nil {
		writeRetrievalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
