// LLM provider router.
// Router selects a LLMProvider by role at startup: the embedding model and
// the generative fallback model may live behind different providers
// (e.g. local Ollama embeddings + hosted chat).
package llm

import "fmt"

// Router holds the registered providers keyed by name.
type Router struct {
	providers map[string]LLMProvider
}

// NewRouter creates a Router with an initial set of providers.
func NewRouter(providers map[string]LLMProvider) *Router {
	// defensive copy so the caller cannot mutate the internal map.
	ps := make(map[string]LLMProvider, len(providers))
	for k, v := range providers {
		ps[k] = v
	}
	return &Router{providers: ps}
}

// Register adds (or replaces) a provider under the given key.
// Useful for dynamic reconfiguration or tests.
func (r *Router) Register(key string, p LLMProvider) {
	r.providers[key] = p
}

// Route returns the provider registered under key.
func (r *Router) Route(key string) (LLMProvider, error) {
	p, ok := r.providers[key]
	if !ok {
		return nil, fmt.Errorf("llm router: provider %q not registered (available: %v)", key, r.keys())
	}
	return p, nil
}

// keys returns the registered provider names (for error messages).
func (r *Router) keys() []string {
	out := make([]string, 0, len(r.providers))
	for k := range r.providers {
		out = append(out, k)
	}
	return out
}
