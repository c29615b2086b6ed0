// Route registration and go-chi router setup.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/adityabhaskar/nyaya/internal/api/handlers"
	"github.com/adityabhaskar/nyaya/internal/domain/legal"
	"github.com/adityabhaskar/nyaya/internal/domain/retrieval"
	"github.com/adityabhaskar/nyaya/internal/infra/llm"
)

// Deps carries the wired domain services the routes dispatch to. Encoder and
// Generator are the LLM providers behind the retrieval service, probed by the
// health endpoint.
type Deps struct {
	Retrieval *retrieval.Service
	FIR       *legal.FIRService
	Encoder   llm.LLMProvider
	Generator llm.LLMProvider
}

// NewRouter creates and configures the chi router with all routes.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	healthHandler := handlers.NewHealthHandler(deps.Retrieval, deps.Encoder, deps.Generator)
	r.Get("/health", healthHandler.Health)

	suggestHandler := handlers.NewSuggestSectionsHandler(deps.Retrieval)
	similarHandler := handlers.NewSimilarCasesHandler(deps.Retrieval)
	chatHandler := handlers.NewChatHandler(deps.Retrieval)
	firHandler := handlers.NewFIRHandler(deps.FIR)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/fir", func(r chi.Router) {
			r.Post("/", firHandler.Create)                   // POST /api/v1/fir
			r.Get("/", firHandler.List)                      // GET /api/v1/fir
			r.Post("/suggest-sections", suggestHandler.Suggest) // POST /api/v1/fir/suggest-sections
			r.Post("/similar", similarHandler.Similar)       // POST /api/v1/fir/similar
		})
		r.Post("/chat", chatHandler.Chat) // POST /api/v1/chat
	})

	return r
}
