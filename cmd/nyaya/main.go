// Nyaya - Legal Assistance Backend
// Entry point: flag handling and the serve subcommand.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/adityabhaskar/nyaya/internal/api"
	"github.com/adityabhaskar/nyaya/internal/domain/legal"
	"github.com/adityabhaskar/nyaya/internal/domain/retrieval"
	"github.com/adityabhaskar/nyaya/internal/infra/config"
	"github.com/adityabhaskar/nyaya/internal/infra/eventbus"
	"github.com/adityabhaskar/nyaya/internal/infra/llm"
	"github.com/adityabhaskar/nyaya/internal/infra/sqlite"
	"github.com/adityabhaskar/nyaya/internal/server"
	"github.com/adityabhaskar/nyaya/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("nyaya", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")
	port := fs.Int("port", 8080, "HTTP listen port")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}
	if *showHelp {
		printHelp(out)
		return 0
	}

	if err := serve(*port); err != nil {
		fmt.Fprintf(out, "error: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}

// serve wires the full stack and blocks until SIGINT/SIGTERM.
func serve(port int) error {
	_ = godotenv.Load() // optional .env, absent in production

	cfg := config.Load()

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := sqlite.MigrateUp(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	router, err := buildProviderRouter(cfg)
	if err != nil {
		return err
	}
	embedProvider, err := router.Route(cfg.EmbedProvider)
	if err != nil {
		return err
	}
	chatProvider, err := router.Route(cfg.ChatProvider)
	if err != nil {
		return err
	}

	retrievalCfg, err := retrieval.LoadConfig(cfg.RetrievalConfig)
	if err != nil {
		return err
	}

	bus := eventbus.New()
	sections := legal.NewSectionService(db)
	knowledge := legal.NewKnowledgeService(db)
	firs := legal.NewFIRService(db, bus)

	// The Ollama provider defaults to the embedding model, so the gate
	// carries an explicit chat model override there.
	chatModel := ""
	if cfg.ChatProvider == "ollama" {
		chatModel = cfg.OllamaChatModel
	}

	svc := retrieval.NewService(
		retrieval.NewEncoder(embedProvider),
		retrieval.NewGate(chatProvider, chatModel, retrievalCfg),
		retrieval.NewKeywordTable(retrievalCfg.Keywords, retrievalCfg.KeywordConfidence),
		retrievalCfg,
		sections, knowledge, firs,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load or rebuild the embedding corpora before accepting traffic;
	// the service is useless without them.
	if err := svc.LoadCorpora(ctx, cfg.CacheDir); err != nil {
		return fmt.Errorf("load corpora: %w", err)
	}

	retrieval.NewMaintainer(svc, bus).Start(ctx, legal.TopicFIRIngested)

	serverCfg := server.DefaultConfig()
	serverCfg.Port = port
	srv := server.NewServer(api.NewRouter(api.Deps{
		Retrieval: svc,
		FIR:       firs,
		Encoder:   embedProvider,
		Generator: chatProvider,
	}), serverCfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildProviderRouter registers the configured LLM providers. Ollama is
// always available; OpenAI only when an API key is present.
func buildProviderRouter(cfg config.Config) (*llm.Router, error) {
	providers := map[string]llm.LLMProvider{
		"ollama": llm.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel),
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		openai, err := llm.NewOpenAIProvider(key, cfg.OpenAIModel, cfg.OpenAIChatModel)
		if err != nil {
			return nil, err
		}
		providers["openai"] = openai
	}
	return llm.NewRouter(providers), nil
}

func printHelp(out io.Writer) {
	helpText := `Nyaya - Legal Assistance Backend

Usage:
  nyaya [options]

Options:
  --version    Show version information
  --help       Show this help message
  --port       HTTP listen port (default 8080)

Endpoints:
  GET  /health
  POST /api/v1/fir                    File an FIR record
  GET  /api/v1/fir                    List FIR records
  POST /api/v1/fir/suggest-sections   Suggest IPC sections for an incident
  POST /api/v1/fir/similar            Find similar historical cases
  POST /api/v1/chat                   Free-text legal Q&A

Examples:
  nyaya --version
  nyaya --port 8080`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
