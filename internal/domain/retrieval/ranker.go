// SimilarityRanker: cosine similarity of the query vector against every
// corpus embedding, thresholded, deduplicated by item id and truncated to
// top-k. Pure functions over an immutable corpus snapshot.
package retrieval

import (
	"math"
	"sort"
)

// CosineSimilarity computes cosine similarity between two float32 vectors.
// Returns 0 when the vectors differ in length or either has zero magnitude,
// so empty or degenerate text never causes a division by zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// Rank scores every corpus item against query, keeps items with
// similarity > threshold, deduplicates by id (highest-scoring view wins) and
// returns at most topK results sorted by non-increasing similarity.
// Exact ties keep corpus insertion order. Empty corpus or topK <= 0 yields an
// empty result, never an error.
func Rank(query []float32, c *Corpus, topK int, threshold float64) []RankedResult {
	if c.Len() == 0 || topK <= 0 {
		return nil
	}

	// Best view per id, in first-seen corpus order so the later stable sort
	// breaks score ties deterministically.
	bestByID := make(map[string]int)
	var ordered []RankedResult
	for i := range c.Items {
		sim := CosineSimilarity(query, c.Vectors[i])
		if sim <= threshold {
			continue
		}
		id := c.Items[i].ID
		if pos, ok := bestByID[id]; ok {
			if sim > ordered[pos].Score {
				ordered[pos] = RankedResult{ID: id, Score: sim, Item: c.Items[i]}
			}
			continue
		}
		bestByID[id] = len(ordered)
		ordered = append(ordered, RankedResult{ID: id, Score: sim, Item: c.Items[i]})
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	if len(ordered) > topK {
		ordered = ordered[:topK]
	}
	return ordered
}

// Percent converts a raw cosine score to a 0-100 percentage rounded to
// 2 decimal places, the form exposed in case-match payloads.
func Percent(score float64) float64 {
	return math.Round(score*10000) / 100
}
