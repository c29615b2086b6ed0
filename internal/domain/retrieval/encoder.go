// TextEncoder: wraps the sentence-embedding model behind llm.LLMProvider.
// Vectors are L2-normalized float32; for a fixed model version the same text
// always yields the same vector.
package retrieval

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/adityabhaskar/nyaya/internal/infra/llm"
)

// Encoder maps text to fixed-dimension dense vectors.
type Encoder struct {
	provider llm.LLMProvider
}

// NewEncoder creates an Encoder over the given provider.
func NewEncoder(provider llm.LLMProvider) *Encoder {
	return &Encoder{provider: provider}
}

// ModelID identifies the underlying embedding model. Corpus caches are keyed
// by it so a model change invalidates them.
func (e *Encoder) ModelID() string {
	return e.provider.ModelInfo().ID
}

// Encode returns the embedding for a single text.
// Empty or whitespace-only input, and any provider failure, wrap ErrEncoding.
func (e *Encoder) Encode(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EncodeBatch returns embeddings for all texts in one provider call.
// vecs[i] corresponds to texts[i].
func (e *Encoder) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			return nil, fmt.Errorf("%w: empty input at index %d", ErrEncoding, i)
		}
	}

	resp, err := e.provider.Embed(ctx, llm.EmbedRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEncoding, len(resp.Embeddings), len(texts))
	}

	dim := 0
	out := make([][]float32, len(resp.Embeddings))
	for i, raw := range resp.Embeddings {
		if len(raw) == 0 {
			return nil, fmt.Errorf("%w: empty vector at index %d", ErrEncoding, i)
		}
		if dim == 0 {
			dim = len(raw)
		} else if len(raw) != dim {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrDimensionMismatch, i, len(raw), dim)
		}
		vec := make([]float32, len(raw))
		copy(vec, raw)
		l2Normalize(vec)
		out[i] = vec
	}
	return out, nil
}

// l2Normalize scales v to unit length in place. Zero vectors are left as-is
// so the cosine zero-norm guard still applies downstream.
func l2Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
