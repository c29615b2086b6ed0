// Health endpoint: reports service status, model availability and loaded
// corpus sizes.
package handlers

import (
	"net/http"

	"github.com/adityabhaskar/nyaya/internal/domain/retrieval"
	"github.com/adityabhaskar/nyaya/internal/infra/llm"
)

// HealthHandler reports readiness of the retrieval core and its models.
type HealthHandler struct {
	retrieval *retrieval.Service
	encoder   llm.LLMProvider
	generator llm.LLMProvider
}

// NewHealthHandler creates a HealthHandler probing the given providers.
func NewHealthHandler(svc *retrieval.Service, encoder, generator llm.LLMProvider) *HealthHandler {
	return &HealthHandler{retrieval: svc, encoder: encoder, generator: generator}
}

type healthResponse struct {
	Status         string `json:"status"`
	Encoder        string `json:"encoder"`
	Generator      string `json:"generator"`
	SectionViews   int    `json:"section_views"`
	KnowledgeViews int    `json:"knowledge_views"`
}

// Health handles GET /health. Probes are bounded by the request context.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	sections, knowledge := h.retrieval.CorpusSizes()
	encoder := probeStatus(h.encoder.HealthCheck(r.Context()))
	generator := probeStatus(h.generator.HealthCheck(r.Context()))

	status := "ok"
	if sections == 0 || knowledge == 0 || encoder != "ok" || generator != "ok" {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         status,
		Encoder:        encoder,
		Generator:      generator,
		SectionViews:   sections,
		KnowledgeViews: knowledge,
	})
}

func probeStatus(err error) string {
	if err != nil {
		return "unavailable"
	}
	return "ok"
}
