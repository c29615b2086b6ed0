// CorpusStore: an immutable snapshot of corpus items and their embedding
// matrix. Built once at startup (from a gob cache when possible, otherwise by
// re-encoding source rows) and replaced wholesale on rebuild. Readers in
// flight keep the snapshot they loaded and never observe a partial update.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"encoding/gob"
)

// Corpus owns an ordered sequence of CorpusItem plus the parallel embedding
// matrix. Vectors[i] belongs to Items[i]; every vector has length Dimension.
// Immutable after construction: mutation happens by building a new Corpus.
type Corpus struct {
	Name      string
	Model     string // embedding model id the matrix was computed with
	Dimension int
	Items     []CorpusItem
	Vectors   [][]float32
}

// BuildCorpus encodes all item view texts in one batch call and zips the
// results into a Corpus. An empty item list yields a valid empty corpus.
func BuildCorpus(ctx context.Context, enc *Encoder, name string, items []CorpusItem) (*Corpus, error) {
	c := &Corpus{Name: name, Model: enc.ModelID()}
	if len(items) == 0 {
		return c, nil
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}

	vecs, err := enc.EncodeBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("build corpus %q: %w", name, err)
	}

	c.Items = items
	c.Vectors = vecs
	c.Dimension = len(vecs[0])
	return c, nil
}

// Len returns the number of item views in the corpus.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// LookupByID returns the first view carrying id, or nil. Exact metadata
// lookup, independent of embeddings.
func (c *Corpus) LookupByID(id string) *CorpusItem {
	if c == nil {
		return nil
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}

// ItemsByID returns every view carrying id, in corpus order.
func (c *Corpus) ItemsByID(id string) []CorpusItem {
	if c == nil {
		return nil
	}
	var out []CorpusItem
	for i := range c.Items {
		if c.Items[i].ID == id {
			out = append(out, c.Items[i])
		}
	}
	return out
}

// WithAppended returns a new Corpus with one extra item view. The receiver is
// left untouched so in-flight readers are unaffected.
func (c *Corpus) WithAppended(item CorpusItem, vec []float32) (*Corpus, error) {
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty vector for %q", ErrDimensionMismatch, item.ID)
	}
	if c.Len() > 0 && len(vec) != c.Dimension {
		return nil, fmt.Errorf("%w: appending %d-dim vector to %d-dim corpus %q", ErrDimensionMismatch, len(vec), c.Dimension, c.Name)
	}

	next := &Corpus{
		Name:      c.Name,
		Model:     c.Model,
		Dimension: len(vec),
		Items:     make([]CorpusItem, 0, len(c.Items)+1),
		Vectors:   make([][]float32, 0, len(c.Vectors)+1),
	}
	next.Items = append(next.Items, c.Items...)
	next.Vectors = append(next.Vectors, c.Vectors...)
	next.Items = append(next.Items, item)
	next.Vectors = append(next.Vectors, vec)
	return next, nil
}

// ─── durable cache ───────────────────────────────────────────────────────────

// corpusCache is the gob payload persisted to disk: the (metadata, matrix)
// pair plus enough identity to detect staleness on load.
type corpusCache struct {
	Name      string
	Model     string
	Dimension int
	Items     []CorpusItem
	Vectors   [][]float32
}

// CachePath returns the cache file path for a corpus name + model pair.
// The model id is part of the key so switching models forces a rebuild.
func CachePath(dir, name, model string) string {
	safe := strings.NewReplacer("/", "-", ":", "-", " ", "-").Replace(model)
	return filepath.Join(dir, fmt.Sprintf("%s-%s.gob", name, safe))
}

// LoadCache deserializes a previously saved corpus. It fails with ErrCacheMiss
// when the file is absent, unreadable, corrupt, or was computed with a
// different model, all non-fatal: the caller rebuilds from source.
func LoadCache(path, model string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCacheMiss, path)
		}
		return nil, fmt.Errorf("%w: open %s: %v", ErrCacheMiss, path, err)
	}
	defer f.Close()

	var cached corpusCache
	if decodeErr := gob.NewDecoder(f).Decode(&cached); decodeErr != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCacheMiss, path, decodeErr)
	}
	if cached.Model != model {
		return nil, fmt.Errorf("%w: cache %s built with model %q, want %q", ErrCacheMiss, path, cached.Model, model)
	}
	if len(cached.Items) != len(cached.Vectors) {
		return nil, fmt.Errorf("%w: cache %s has %d items but %d vectors", ErrCacheMiss, path, len(cached.Items), len(cached.Vectors))
	}
	for i, vec := range cached.Vectors {
		if len(vec) != cached.Dimension {
			return nil, fmt.Errorf("%w: cache %s vector %d has dimension %d, want %d", ErrCacheMiss, path, i, len(vec), cached.Dimension)
		}
	}

	return &Corpus{
		Name:      cached.Name,
		Model:     cached.Model,
		Dimension: cached.Dimension,
		Items:     cached.Items,
		Vectors:   cached.Vectors,
	}, nil
}

// SaveCache persists the corpus for reuse across restarts. An optimization,
// not a correctness requirement: a missing cache only costs a rebuild.
// Writes to a temp file and renames, so a crash never leaves a torn cache.
func (c *Corpus) SaveCache(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save corpus cache: mkdir: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("save corpus cache: create %s: %w", tmp, err)
	}

	payload := corpusCache{
		Name:      c.Name,
		Model:     c.Model,
		Dimension: c.Dimension,
		Items:     c.Items,
		Vectors:   c.Vectors,
	}
	if encodeErr := gob.NewEncoder(f).Encode(payload); encodeErr != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("save corpus cache: encode: %w", encodeErr)
	}
	if closeErr := f.Close(); closeErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("save corpus cache: close: %w", closeErr)
	}
	if renameErr := os.Rename(tmp, path); renameErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("save corpus cache: rename: %w", renameErr)
	}
	return nil
}
