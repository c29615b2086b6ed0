// KeywordShortCircuit: a curated table mapping literal crime keywords to
// known penal-code sections. Consulted before any embedding work; a hit is a
// precedence rule, not a scoring boost: the ranker is never invoked for
// that query. This guarantees deterministic, legally-vetted answers for
// well-known mappings, independent of embedding drift or corpus gaps.
package retrieval

import "strings"

// KeywordHit is one curated match with its fixed confidence.
type KeywordHit struct {
	SectionID  string
	Confidence float64
}

// KeywordTable holds the ordered keyword entries. Table order decides result
// order (ties broken by table order, not alphabetically).
type KeywordTable struct {
	entries    []KeywordEntry
	confidence float64
}

// NewKeywordTable builds a table from config entries. Keywords are matched
// case-insensitively; confidence is the fixed score attached to every hit.
func NewKeywordTable(entries []KeywordEntry, confidence float64) *KeywordTable {
	return &KeywordTable{entries: entries, confidence: confidence}
}

// Len returns the number of configured keywords.
func (t *KeywordTable) Len() int {
	return len(t.entries)
}

// Match returns the curated hits for query: every section id associated with
// a keyword contained in the lowercased query, in table iteration order,
// deduplicated by id (first occurrence wins). Possibly empty.
func (t *KeywordTable) Match(query string) []KeywordHit {
	q := strings.ToLower(query)

	var hits []KeywordHit
	seen := make(map[string]bool)
	for _, entry := range t.entries {
		if !strings.Contains(q, strings.ToLower(entry.Keyword)) {
			continue
		}
		for _, id := range entry.Sections {
			if seen[id] {
				continue
			}
			seen[id] = true
			hits = append(hits, KeywordHit{SectionID: id, Confidence: t.confidence})
		}
	}
	return hits
}
