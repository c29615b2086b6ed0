// buildcorpus rebuilds the embedding corpora offline and writes the gob
// caches, so a deployment can warm the caches without serving traffic.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/adityabhaskar/nyaya/internal/domain/legal"
	"github.com/adityabhaskar/nyaya/internal/domain/retrieval"
	"github.com/adityabhaskar/nyaya/internal/infra/config"
	"github.com/adityabhaskar/nyaya/internal/infra/llm"
	"github.com/adityabhaskar/nyaya/internal/infra/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err) //nolint:errcheck
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := config.Load()

	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	cacheDir := flag.String("cache", cfg.CacheDir, "corpus cache directory")
	configPath := flag.String("config", cfg.RetrievalConfig, "retrieval config YAML (optional)")
	flag.Parse()

	db, err := sqlite.NewDB(*dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := sqlite.MigrateUp(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	retrievalCfg, err := retrieval.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	provider, err := embedProvider(cfg)
	if err != nil {
		return err
	}

	svc := retrieval.NewService(
		retrieval.NewEncoder(provider),
		retrieval.NewGate(provider, "", retrievalCfg),
		retrieval.NewKeywordTable(retrievalCfg.Keywords, retrievalCfg.KeywordConfidence),
		retrievalCfg,
		legal.NewSectionService(db),
		legal.NewKnowledgeService(db),
		legal.NewFIRService(db, nil),
	)

	fmt.Println("Rebuilding embedding corpora...")
	if err := svc.RebuildCorpora(context.Background(), *cacheDir); err != nil {
		return err
	}

	sections, knowledge := svc.CorpusSizes()
	fmt.Printf("Done: %d section views, %d knowledge views written to %s\n", sections, knowledge, *cacheDir)
	return nil
}

func embedProvider(cfg config.Config) (llm.LLMProvider, error) {
	if cfg.EmbedProvider == "openai" {
		return llm.NewOpenAIProvider(os.Getenv("OPENAI_API_KEY"), cfg.OpenAIModel, cfg.OpenAIChatModel)
	}
	return llm.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel), nil
}
