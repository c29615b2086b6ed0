package retrieval

import (
	"math"
	"testing"
)

func rankerCorpus() *Corpus {
	return &Corpus{
		Name:      "test",
		Model:     "stub-embed",
		Dimension: 3,
		Items: []CorpusItem{
			{ID: "A", Text: "view a1"},
			{ID: "B", Text: "view b"},
			{ID: "A", Text: "view a2"}, // second view of A, closer to the query
			{ID: "C", Text: "view c"},
		},
		Vectors: [][]float32{
			{1, 0, 0},
			{0.2, 0.9, 0},
			{0.9, 0.1, 0},
			{0, 0, 1},
		},
	}
}

func TestCosineSimilarity(t *testing.T) {
	if sim := CosineSimilarity([]float32{1, 0}, []float32{1, 0}); math.Abs(sim-1.0) > 1e-6 {
		t.Errorf("identical vectors: got %f, want 1", sim)
	}
	if sim := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); math.Abs(sim) > 1e-6 {
		t.Errorf("orthogonal vectors: got %f, want 0", sim)
	}
	if sim := CosineSimilarity([]float32{1, 0}, []float32{0, 0}); sim != 0 {
		t.Errorf("zero vector: got %f, want 0", sim)
	}
	if sim := CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}); sim != 0 {
		t.Errorf("length mismatch: got %f, want 0", sim)
	}
}

func TestRank_OrderAndDedupe(t *testing.T) {
	c := rankerCorpus()
	query := []float32{1, 0, 0} // closest to A's first view

	results := Rank(query, c, 10, 0.0)

	if len(results) != 2 {
		t.Fatalf("expected 2 results above threshold, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted: %f after %f", results[i].Score, results[i-1].Score)
		}
	}

	// A must appear once, represented by its best view.
	if results[0].ID != "A" {
		t.Errorf("expected A first, got %s", results[0].ID)
	}
	if results[0].Item.Text != "view a1" {
		t.Errorf("expected highest-scoring view of A, got %q", results[0].Item.Text)
	}
	for _, r := range results[1:] {
		if r.ID == "A" {
			t.Error("duplicate id A in results")
		}
	}
}

func TestRank_ThresholdIsStrict(t *testing.T) {
	c := &Corpus{
		Dimension: 2,
		Items:     []CorpusItem{{ID: "X"}},
		Vectors:   [][]float32{{0, 1}},
	}
	// similarity is exactly 0; threshold 0 must exclude it.
	if results := Rank([]float32{1, 0}, c, 5, 0.0); len(results) != 0 {
		t.Errorf("expected no results at threshold boundary, got %d", len(results))
	}
}

func TestRank_TopKTruncation(t *testing.T) {
	c := rankerCorpus()
	query := []float32{0.5, 0.5, 0.5}

	if results := Rank(query, c, 1, -1.1); len(results) != 1 {
		t.Errorf("topK=1: got %d results", len(results))
	}
	if results := Rank(query, c, 0, -1.1); len(results) != 0 {
		t.Errorf("topK=0: got %d results", len(results))
	}
}

func TestRank_EmptyCorpus(t *testing.T) {
	if results := Rank([]float32{1}, &Corpus{}, 5, 0.0); len(results) != 0 {
		t.Errorf("empty corpus: got %d results", len(results))
	}
	var nilCorpus *Corpus
	if results := Rank([]float32{1}, nilCorpus, 5, 0.0); len(results) != 0 {
		t.Errorf("nil corpus: got %d results", len(results))
	}
}

func TestPercent(t *testing.T) {
	cases := []struct {
		score float64
		want  float64
	}{
		{1.0, 100.0},
		{0.5, 50.0},
		{0.73456, 73.46},
		{0.0, 0.0},
	}
	for _, tc := range cases {
		if got := Percent(tc.score); got != tc.want {
			t.Errorf("Percent(%f) = %f, want %f", tc.score, got, tc.want)
		}
	}
}
