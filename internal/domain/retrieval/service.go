// RetrievalService: composes encoder, corpus snapshots, keyword table,
// ranker and fallback gate into the three public operations. Shared state is
// read-only corpus snapshots behind atomic pointers; concurrent requests need
// no coordination, and rebuilds swap a fresh snapshot in one store.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync/atomic"
)

// Corpus names, also used as cache keys.
const (
	corpusSections  = "sections"
	corpusKnowledge = "knowledge"
	corpusCases     = "cases"
)

// CorpusSource fetches all current item views for a corpus from the backing
// store. Implemented by the legal row services.
type CorpusSource interface {
	CorpusItems(ctx context.Context) ([]CorpusItem, error)
}

// Service is the retrieval orchestrator.
type Service struct {
	encoder  *Encoder
	gate     *Gate
	keywords *KeywordTable
	cfg      Config

	sections  CorpusSource
	knowledge CorpusSource
	cases     CorpusSource

	sectionCorpus   atomic.Pointer[Corpus]
	knowledgeCorpus atomic.Pointer[Corpus]
	caseIndex       atomic.Pointer[Corpus]
}

// NewService wires the retrieval pipeline. All collaborators are injected so
// tests can swap in deterministic encoders and stub generative providers.
func NewService(enc *Encoder, gate *Gate, keywords *KeywordTable, cfg Config, sections, knowledge, cases CorpusSource) *Service {
	return &Service{
		encoder:   enc,
		gate:      gate,
		keywords:  keywords,
		cfg:       cfg,
		sections:  sections,
		knowledge: knowledge,
		cases:     cases,
	}
}

// LoadCorpora initializes the section and knowledge corpora: load from the
// durable cache when it matches the current encoder, otherwise rebuild from
// source rows and persist. Cache write failures are logged, not fatal.
func (s *Service) LoadCorpora(ctx context.Context, cacheDir string) error {
	sec, err := s.loadOrBuild(ctx, cacheDir, corpusSections, s.sections)
	if err != nil {
		return err
	}
	s.sectionCorpus.Store(sec)

	kb, err := s.loadOrBuild(ctx, cacheDir, corpusKnowledge, s.knowledge)
	if err != nil {
		return err
	}
	s.knowledgeCorpus.Store(kb)
	return nil
}

// RebuildCorpora re-derives both cached corpora from source rows and swaps
// the snapshots. In-flight readers keep the snapshot they loaded.
func (s *Service) RebuildCorpora(ctx context.Context, cacheDir string) error {
	sec, err := s.buildAndSave(ctx, cacheDir, corpusSections, s.sections)
	if err != nil {
		return err
	}
	s.sectionCorpus.Store(sec)

	kb, err := s.buildAndSave(ctx, cacheDir, corpusKnowledge, s.knowledge)
	if err != nil {
		return err
	}
	s.knowledgeCorpus.Store(kb)
	return nil
}

func (s *Service) loadOrBuild(ctx context.Context, cacheDir, name string, source CorpusSource) (*Corpus, error) {
	path := CachePath(cacheDir, name, s.encoder.ModelID())
	cached, err := LoadCache(path, s.encoder.ModelID())
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return nil, err
	}
	return s.buildAndSave(ctx, cacheDir, name, source)
}

func (s *Service) buildAndSave(ctx context.Context, cacheDir, name string, source CorpusSource) (*Corpus, error) {
	items, err := source.CorpusItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s rows: %w", name, err)
	}
	c, err := BuildCorpus(ctx, s.encoder, name, items)
	if err != nil {
		return nil, err
	}
	if saveErr := c.SaveCache(CachePath(cacheDir, name, s.encoder.ModelID())); saveErr != nil {
		log.Printf("warn: %v", saveErr)
	}
	return c, nil
}

// CorpusSizes reports the number of views in the cached corpora (health/ops).
func (s *Service) CorpusSizes() (sections, knowledge int) {
	return s.sectionCorpus.Load().Len(), s.knowledgeCorpus.Load().Len()
}

// ─── suggest sections ───────────────────────────────────────────────────────

// SuggestSections suggests penal-code sections for an incident description.
// Precedence: curated keyword table (no encoding work) → semantic ranking
// over the section corpus → generative fallback.
func (s *Service) SuggestSections(ctx context.Context, description string) (*SuggestResult, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrInvalidQuery
	}

	if hits := s.keywords.Match(description); len(hits) > 0 {
		return &SuggestResult{
			Suggestions: s.resolveKeywordHits(hits),
			Source:      SourceKeyword,
		}, nil
	}

	qvec, err := s.encoder.Encode(ctx, description)
	if err != nil {
		return nil, err
	}

	corpus := s.sectionCorpus.Load()
	results := Rank(qvec, corpus, s.cfg.SectionTopK, s.cfg.SectionThreshold)
	if len(results) > 0 {
		suggestions := make([]SectionSuggestion, 0, len(results))
		for _, r := range results {
			suggestions = append(suggestions, sectionSuggestion(r.Item, r.Score))
		}
		return &SuggestResult{Suggestions: suggestions, Source: SourceRAG}, nil
	}

	text, fbErr := s.gate.SuggestSections(ctx, description)
	if fbErr != nil {
		// Best-effort: the caller still gets a usable payload.
		return &SuggestResult{
			Suggestions: []SectionSuggestion{},
			Source:      SourceGenerative,
			Fallback:    s.cfg.UnavailableReply,
		}, nil
	}
	return &SuggestResult{
		Suggestions: []SectionSuggestion{},
		Source:      SourceGenerative,
		Fallback:    text,
	}, nil
}

// resolveKeywordHits maps curated section ids to full suggestions using the
// section corpus metadata. Ids missing from the corpus are skipped.
func (s *Service) resolveKeywordHits(hits []KeywordHit) []SectionSuggestion {
	corpus := s.sectionCorpus.Load()
	suggestions := make([]SectionSuggestion, 0, len(hits))
	for _, hit := range hits {
		item := corpus.LookupByID(hit.SectionID)
		if item == nil {
			continue
		}
		suggestions = append(suggestions, sectionSuggestion(*item, hit.Confidence))
	}
	return suggestions
}

func sectionSuggestion(item CorpusItem, confidence float64) SectionSuggestion {
	return SectionSuggestion{
		SectionNumber: item.ID,
		SectionTitle:  item.Fields["section_title"],
		Description:   item.Fields["description"],
		Punishment:    item.Fields["punishment"],
		Confidence:    confidence,
	}
}

// ─── find similar cases ─────────────────────────────────────────────────────

// FindSimilarCases matches a case description against historical FIR records.
// Records are fetched fresh every query (the corpus grows as cases are
// filed) but embeddings of unchanged records are reused from the last
// snapshot, so only new or edited records are re-encoded. Results below the
// display threshold are dropped, not sent to fallback: zero matches is a
// valid outcome.
func (s *Service) FindSimilarCases(ctx context.Context, description string, topN int) (*CaseMatches, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrInvalidQuery
	}
	if topN <= 0 {
		topN = 5
	}

	items, err := s.cases.CorpusItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch case records: %w", err)
	}
	if len(items) == 0 {
		return &CaseMatches{Matches: []CaseMatch{}, Message: NoRecordsMessage}, nil
	}

	corpus, err := s.caseCorpus(ctx, items)
	if err != nil {
		return nil, err
	}

	qvec, err := s.encoder.Encode(ctx, description)
	if err != nil {
		return nil, err
	}

	// Rank everything (threshold below any cosine), then apply the display
	// cut on the percentage form.
	results := Rank(qvec, corpus, topN+len(items), -1.1)
	matches := make([]CaseMatch, 0, topN)
	for _, r := range results {
		pct := Percent(r.Score)
		if pct < s.cfg.CaseDisplayThreshold {
			continue
		}
		matches = append(matches, CaseMatch{
			FIRNumber:        r.Item.Fields["fir_number"],
			IncidentType:     r.Item.Fields["incident_type"],
			IncidentLocation: r.Item.Fields["incident_location"],
			Status:           r.Item.Fields["status"],
			Similarity:       pct,
		})
		if len(matches) >= topN {
			break
		}
	}
	return &CaseMatches{Matches: matches}, nil
}

// caseCorpus assembles the per-query case corpus, reusing snapshot vectors
// for records whose composed text is unchanged and batch-encoding the rest.
// The assembled corpus becomes the new snapshot (copy-on-write swap).
func (s *Service) caseCorpus(ctx context.Context, items []CorpusItem) (*Corpus, error) {
	snap := s.caseIndex.Load()
	known := make(map[string]int)
	if snap != nil {
		for i := range snap.Items {
			if _, ok := known[snap.Items[i].ID]; !ok {
				known[snap.Items[i].ID] = i
			}
		}
	}

	vectors := make([][]float32, len(items))
	var missingIdx []int
	var missingTexts []string
	for i, item := range items {
		if j, ok := known[item.ID]; ok && snap.Items[j].Text == item.Text {
			vectors[i] = snap.Vectors[j]
			continue
		}
		missingIdx = append(missingIdx, i)
		missingTexts = append(missingTexts, item.Text)
	}

	if len(missingTexts) > 0 {
		encoded, err := s.encoder.EncodeBatch(ctx, missingTexts)
		if err != nil {
			return nil, err
		}
		for k, i := range missingIdx {
			vectors[i] = encoded[k]
		}
	}

	corpus := &Corpus{
		Name:      corpusCases,
		Model:     s.encoder.ModelID(),
		Dimension: len(vectors[0]),
		Items:     items,
		Vectors:   vectors,
	}
	s.caseIndex.Store(corpus)
	return corpus, nil
}

// AppendCaseRecord re-embeds one newly filed record and swaps an appended
// case snapshot, so the record participates in ranking without a full
// rebuild. Records already present are left to the per-query reconciliation.
func (s *Service) AppendCaseRecord(ctx context.Context, item CorpusItem) error {
	vec, err := s.encoder.Encode(ctx, item.Text)
	if err != nil {
		return err
	}

	snap := s.caseIndex.Load()
	if snap == nil {
		s.caseIndex.Store(&Corpus{
			Name:      corpusCases,
			Model:     s.encoder.ModelID(),
			Dimension: len(vec),
			Items:     []CorpusItem{item},
			Vectors:   [][]float32{vec},
		})
		return nil
	}
	if snap.LookupByID(item.ID) != nil {
		return nil
	}

	next, err := snap.WithAppended(item, vec)
	if err != nil {
		return err
	}
	s.caseIndex.Store(next)
	return nil
}

// ─── answer free text ───────────────────────────────────────────────────────

// sectionRefPattern recognizes queries naming an explicit section identifier
// ("IPC 302", "section 66c"); such queries bypass embedding entirely.
var sectionRefPattern = regexp.MustCompile(`(?i)\b(?:ipc|section)\s*(\d+[a-z]*)`)

// AnswerFreeText answers a free-text legal question: direct identifier
// lookup, then semantic retrieval over the mixed knowledge corpus, then the
// gated generative fallback.
func (s *Service) AnswerFreeText(ctx context.Context, query string) (*Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidQuery
	}

	corpus := s.knowledgeCorpus.Load()

	if m := sectionRefPattern.FindStringSubmatch(query); m != nil {
		if text := renderItems(corpus.ItemsByID(strings.ToUpper(m[1]))); text != "" {
			return &Answer{Text: text, Source: SourceDirect}, nil
		}
	}

	qvec, err := s.encoder.Encode(ctx, query)
	if err != nil {
		return nil, err
	}

	results := Rank(qvec, corpus, s.cfg.AnswerTopK, -1.1)
	localAnswer := renderResults(results)
	if len(results) > 0 && results[0].Score >= s.cfg.AnswerThreshold && s.gate.AnswerIsValid(localAnswer) {
		return &Answer{Text: localAnswer, Source: SourceRAG}, nil
	}

	text, offTopic, fbErr := s.gate.Answer(ctx, query, localAnswer)
	if fbErr != nil {
		return nil, fbErr
	}
	if offTopic {
		return &Answer{Text: text, Source: SourceFiltered}, nil
	}
	return &Answer{Text: text, Source: SourceGenerative}, nil
}

// renderItems renders corpus entries as "Title - Content" blocks.
func renderItems(items []CorpusItem) string {
	var blocks []string
	for _, item := range items {
		blocks = append(blocks, item.Title+" - "+item.Fields["content"])
	}
	return strings.Join(blocks, "\n\n")
}

// renderResults renders ranked hits the same way, best first.
func renderResults(results []RankedResult) string {
	items := make([]CorpusItem, 0, len(results))
	for _, r := range results {
		items = append(items, r.Item)
	}
	return renderItems(items)
}
