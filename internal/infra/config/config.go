// Package config provides application-wide configuration loaded from env vars.
// All fields have safe defaults so the binary runs locally without any env setup.
package config

import "os"

// Config holds runtime configuration for the legal-assistance backend.
type Config struct {
	// Storage
	DBPath   string // NYAYA_DB_PATH — default: "nyaya.db"
	CacheDir string // NYAYA_CACHE_DIR — default: "cache" (corpus embedding caches)

	// Retrieval
	RetrievalConfig string // NYAYA_RETRIEVAL_CONFIG — optional YAML overriding keyword table/thresholds

	// LLM
	EmbedProvider   string // NYAYA_EMBED_PROVIDER — "ollama" (default) or "openai"
	ChatProvider    string // NYAYA_CHAT_PROVIDER — "ollama" (default) or "openai"
	OllamaBaseURL   string // OLLAMA_BASE_URL — default: "http://localhost:11434"
	OllamaModel     string // OLLAMA_MODEL — default: "nomic-embed-text" (embed model, 768 dims)
	OllamaChatModel string // OLLAMA_CHAT_MODEL — default: "llama3.2:3b"
	OpenAIModel     string // OPENAI_EMBED_MODEL — default: "text-embedding-3-small"
	OpenAIChatModel string // OPENAI_CHAT_MODEL — default: "gpt-4o-mini"
}

const (
	envKeyDBPath          = "NYAYA_DB_PATH"
	envKeyCacheDir        = "NYAYA_CACHE_DIR"
	envKeyRetrievalConfig = "NYAYA_RETRIEVAL_CONFIG"
	envKeyEmbedProvider   = "NYAYA_EMBED_PROVIDER"
	envKeyChatProvider    = "NYAYA_CHAT_PROVIDER"
	envKeyOllamaBaseURL   = "OLLAMA_BASE_URL"
	envKeyOllamaModel     = "OLLAMA_MODEL"
	envKeyOllamaChatModel = "OLLAMA_CHAT_MODEL"
	envKeyOpenAIModel     = "OPENAI_EMBED_MODEL"
	envKeyOpenAIChatModel = "OPENAI_CHAT_MODEL"
)

// Load reads configuration from environment variables, applying defaults for missing values.
func Load() Config {
	return Config{
		DBPath:          envOr(envKeyDBPath, "nyaya.db"),
		CacheDir:        envOr(envKeyCacheDir, "cache"),
		RetrievalConfig: os.Getenv(envKeyRetrievalConfig),
		EmbedProvider:   envOr(envKeyEmbedProvider, "ollama"),
		ChatProvider:    envOr(envKeyChatProvider, "ollama"),
		OllamaBaseURL:   envOr(envKeyOllamaBaseURL, "http://localhost:11434"),
		OllamaModel:     envOr(envKeyOllamaModel, "nomic-embed-text"),
		OllamaChatModel: envOr(envKeyOllamaChatModel, "llama3.2:3b"),
		OpenAIModel:     envOr(envKeyOpenAIModel, "text-embedding-3-small"),
		OpenAIChatModel: envOr(envKeyOpenAIChatModel, "gpt-4o-mini"),
	}
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
