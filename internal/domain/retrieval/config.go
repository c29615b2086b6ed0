// Retrieval configuration: per-operation thresholds, the answer validity
// heuristic, and the curated keyword table. Defaults are embedded; an
// optional YAML file overrides them.
package retrieval

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// KeywordEntry maps one literal domain keyword to its curated section ids.
type KeywordEntry struct {
	Keyword  string   `yaml:"keyword"`
	Sections []string `yaml:"sections"`
}

// Config tunes the retrieval pipeline.
type Config struct {
	// SuggestSections: moderate threshold on raw cosine for precise matches.
	SectionTopK      int     `yaml:"section_top_k"`
	SectionThreshold float64 `yaml:"section_threshold"`

	// AnswerFreeText: low threshold for broad semantic question answering.
	AnswerTopK      int     `yaml:"answer_top_k"`
	AnswerThreshold float64 `yaml:"answer_threshold"`

	// FindSimilarCases: display cut applied to the 0-100 percentage.
	CaseDisplayThreshold float64 `yaml:"case_display_threshold"`

	// Fixed score for curated keyword hits (canonical, not inferred).
	KeywordConfidence float64 `yaml:"keyword_confidence"`

	// Validity heuristic: a local answer shorter than this, or containing
	// any invalid marker, is treated as a non-answer and forces fallback.
	MinAnswerLength int      `yaml:"min_answer_length"`
	InvalidMarkers  []string `yaml:"invalid_markers"`

	// Sentinel the generative model is instructed to emit for
	// out-of-domain queries, and the canned replies built around it.
	Sentinel         string `yaml:"sentinel"`
	OffTopicReply    string `yaml:"off_topic_reply"`
	UnavailableReply string `yaml:"unavailable_reply"`

	// Keyword table, consulted before any embedding work. Order matters.
	Keywords []KeywordEntry `yaml:"keywords"`
}

// DefaultConfig returns the embedded default configuration.
func DefaultConfig() Config {
	var cfg Config
	// The embedded defaults are part of the binary; a parse failure here is
	// a build defect, not a runtime condition.
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		panic(fmt.Sprintf("retrieval: parse embedded defaults: %v", err))
	}
	return cfg
}

// LoadConfig returns the defaults overlaid with the YAML file at path.
// An empty path returns the defaults unchanged. Lists in the file replace
// the default lists wholesale.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("retrieval config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("retrieval config: parse %q: %w", path, err)
	}
	return cfg, nil
}
