// Package retrieval implements the semantic retrieval core of the
// legal-assistance backend: embedding-based nearest-neighbor search over
// small in-memory corpora, a curated keyword short-circuit, and a gated
// fallback to an external generative model when local confidence is low.
//
// The three public operations live on Service: SuggestSections (penal-code
// sections for an incident description), FindSimilarCases (match against
// historical FIR records) and AnswerFreeText (legal Q&A over the mixed
// knowledge base).
package retrieval

import "errors"

// Sentinel errors for the retrieval pipeline. Callers classify failures with
// errors.Is and map them to transport-level responses.
var (
	// ErrInvalidQuery is returned for empty or missing query text,
	// rejected before any encoding work.
	ErrInvalidQuery = errors.New("retrieval: empty query")

	// ErrEncoding is returned when the embedding model is unavailable or
	// was given invalid input. Fatal for the current query, never retried.
	ErrEncoding = errors.New("retrieval: encoding failed")

	// ErrCacheMiss is returned by LoadCache when no usable cached corpus
	// exists. Non-fatal: the caller falls back to a full rebuild.
	ErrCacheMiss = errors.New("retrieval: corpus cache miss")

	// ErrDimensionMismatch indicates an embedding whose dimension does not
	// match the corpus. A mismatch discovered after startup is a bug.
	ErrDimensionMismatch = errors.New("retrieval: embedding dimension mismatch")

	// ErrExternalService is returned when the generative fallback call
	// failed or produced an empty reply. Single attempt, no automatic retry.
	ErrExternalService = errors.New("retrieval: external AI service failed")
)

// CorpusItem is one retrievable view of a source row. A single source row may
// yield multiple views emphasizing different field combinations (all sharing
// the same ID), which broadens recall; the ranker deduplicates by ID.
type CorpusItem struct {
	ID     string            // stable identifier: section number, FIR number, KB key
	Kind   string            // "section" | "fir" | "act" | "legal_term" | "faq" | "procedure"
	Title  string            // display title
	Text   string            // the embeddable text for this view
	Fields map[string]string // display fields carried through to result payloads
}

// RankedResult is a single scored retrieval hit. Ephemeral: produced per
// query, never persisted.
type RankedResult struct {
	ID    string
	Score float64 // raw cosine similarity
	Item  CorpusItem
}

// Result sources reported to API consumers. The generative source keeps the
// literal value the original clients already consume.
const (
	SourceKeyword    = "keyword"
	SourceRAG        = "rag"
	SourceGenerative = "gemini"
	SourceFiltered   = "gemini_filter"
	SourceDirect     = "kb"
)

// SectionSuggestion is one suggested penal-code section.
type SectionSuggestion struct {
	SectionNumber string  `json:"section_number"`
	SectionTitle  string  `json:"section_title"`
	Description   string  `json:"description"`
	Punishment    string  `json:"punishment"`
	Confidence    float64 `json:"confidence"`
}

// SuggestResult is the response of SuggestSections. When retrieval found
// nothing, Suggestions is empty and Fallback carries the generative answer.
type SuggestResult struct {
	Suggestions []SectionSuggestion `json:"suggestions"`
	Source      string              `json:"source"`
	Fallback    string              `json:"fallback,omitempty"`
}

// CaseMatch is one historical FIR record similar to the queried description.
// Similarity is a 0-100 percentage rounded to 2 decimal places.
type CaseMatch struct {
	FIRNumber        string  `json:"fir_number"`
	IncidentType     string  `json:"incident_type"`
	IncidentLocation string  `json:"incident_location"`
	Status           string  `json:"status"`
	Similarity       float64 `json:"similarity"`
}

// NoRecordsMessage is the literal payload message when the case corpus is
// empty. An empty corpus is a valid state, not an error.
const NoRecordsMessage = "No FIR records found."

// CaseMatches is the response of FindSimilarCases.
type CaseMatches struct {
	Matches []CaseMatch `json:"matches"`
	Message string      `json:"message,omitempty"`
}

// Answer is the response of AnswerFreeText.
type Answer struct {
	Text   string `json:"response"`
	Source string `json:"source"`
}
