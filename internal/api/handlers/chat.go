// HTTP handler for free-text legal Q&A.
// POST /api/v1/chat — direct section lookup, knowledge-base retrieval, then
// the gated generative fallback.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adityabhaskar/nyaya/internal/domain/retrieval"
)

// ChatHandler handles legal Q&A requests.
type ChatHandler struct {
	retrieval *retrieval.Service
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(svc *retrieval.Service) *ChatHandler {
	return &ChatHandler{retrieval: svc}
}

// chatRequest is the JSON request body.
type chatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /api/v1/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := h.retrieval.AnswerFreeText(r.Context(), req.Message)
	if err != nil {
		writeRetrievalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}
