// FallbackGate: decides whether local retrieval output is good enough to
// return, and otherwise delegates to the external generative model. Strictly
// sequential: the external call is a last resort, a single attempt per
// query, never run in parallel with local retrieval.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/adityabhaskar/nyaya/internal/infra/llm"
)

// Gate wraps the generative model used when retrieval confidence is
// insufficient.
type Gate struct {
	provider llm.LLMProvider
	model    string // overrides the provider default when non-empty
	cfg      Config
}

// NewGate creates a Gate over the given chat provider. model may be empty to
// use the provider's default.
func NewGate(provider llm.LLMProvider, model string, cfg Config) *Gate {
	return &Gate{provider: provider, model: model, cfg: cfg}
}

// ModelID identifies the generative model behind the gate.
func (g *Gate) ModelID() string {
	if g.model != "" {
		return g.model
	}
	return g.provider.ModelInfo().ID
}

// AnswerIsValid applies the validity heuristic to a candidate local answer:
// reject empty text, text shorter than the configured minimum, and text
// containing any hedging/negative marker. These indicate the retrieval
// produced a non-answer rather than content.
func (g *Gate) AnswerIsValid(text string) bool {
	s := strings.ToLower(strings.TrimSpace(text))
	if len(s) < g.cfg.MinAnswerLength {
		return false
	}
	for _, marker := range g.cfg.InvalidMarkers {
		if strings.Contains(s, marker) {
			return false
		}
	}
	return true
}

// SuggestSections asks the generative model to name 2-5 relevant penal-code
// sections for an incident description.
func (g *Gate) SuggestSections(ctx context.Context, description string) (string, error) {
	prompt := fmt.Sprintf(`You are a legal expert. Based on this incident description, suggest appropriate IPC sections:

Incident: %s

Provide response in this format:
Section XXXX: [Title] - [Brief explanation why it applies]

Suggest 2-5 most relevant sections. Be concise and accurate.`, description)

	return g.generate(ctx, prompt, 0.2)
}

// Answer asks the generative model to answer a free-text query, embedding the
// best-available local context (possibly empty). The prompt instructs the
// model to emit the configured sentinel for out-of-domain queries; when that
// sentinel is detected the second return value is true and the text is the
// canned off-topic reply.
func (g *Gate) Answer(ctx context.Context, query, localContext string) (string, bool, error) {
	prompt := fmt.Sprintf(`You are a legal AI assistant for Indian police and legal professionals.

1. If the user's question is NOT about law, legal procedure, IPC sections, evidence, FIR, bail, or court process (general chit-chat, emotional, non-law topic), reply EXACTLY with this token: %s

2. Otherwise answer factually and concisely, using the context below (it may be empty) together with your own legal knowledge, referencing relevant IPC sections or legal procedures.

Context:
%s

User question: "%s"`, g.cfg.Sentinel, localContext, query)

	text, err := g.generate(ctx, prompt, 0.3)
	if err != nil {
		return "", false, err
	}
	if strings.Contains(text, g.cfg.Sentinel) {
		return g.cfg.OffTopicReply, true, nil
	}
	return text, false, nil
}

// generate performs the single best-effort call to the generative model.
// A transport failure or an empty reply wraps ErrExternalService; the caller
// surfaces it, never retries.
func (g *Gate) generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := g.provider.ChatCompletion(ctx, llm.ChatRequest{
		Model:       g.model,
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty reply", ErrExternalService)
	}
	return text, nil
}
