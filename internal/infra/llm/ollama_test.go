// OllamaProvider tests against a fake Ollama HTTP server.
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeOllama serves the three endpoints the provider uses.
func fakeOllama(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var prompts []string
	mux := http.NewServeMux()

	mux.HandleFunc("/api/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		prompts = append(prompts, req.Prompt)
		json.NewEncoder(w).Encode(ollamaEmbedResponse{ //nolint:errcheck
			Embedding: []float32{0.1, 0.2, 0.3},
		})
	})

	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Stream {
			http.Error(w, "streaming not supported in test", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{ //nolint:errcheck
			Message:    ollamaChatMessage{Role: "assistant", Content: "reply for " + req.Model},
			DoneReason: "stop",
			Done:       true,
		})
	})

	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &prompts
}

func TestOllamaProvider_Embed(t *testing.T) {
	srv, prompts := fakeOllama(t)
	p := NewOllamaProvider(srv.URL, "nomic-embed-text")

	resp, err := p.Embed(context.Background(), EmbedRequest{Texts: []string{"first", "second"}})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(resp.Embeddings) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(resp.Embeddings))
	}
	// Ollama has no batch endpoint; one call per text, in order.
	if len(*prompts) != 2 || (*prompts)[0] != "first" || (*prompts)[1] != "second" {
		t.Errorf("unexpected prompts: %v", *prompts)
	}
}

func TestOllamaProvider_Embed_EmptyRequest(t *testing.T) {
	srv, prompts := fakeOllama(t)
	p := NewOllamaProvider(srv.URL, "nomic-embed-text")

	resp, err := p.Embed(context.Background(), EmbedRequest{})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(resp.Embeddings) != 0 || len(*prompts) != 0 {
		t.Error("empty request must not call the server")
	}
}

func TestOllamaProvider_ChatCompletion(t *testing.T) {
	srv, _ := fakeOllama(t)
	p := NewOllamaProvider(srv.URL, "nomic-embed-text")

	resp, err := p.ChatCompletion(context.Background(), ChatRequest{
		Model:    "llama3.2:3b",
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("ChatCompletion failed: %v", err)
	}
	// Request model overrides the provider default.
	if resp.Content != "reply for llama3.2:3b" {
		t.Errorf("unexpected content: %q", resp.Content)
	}
	if resp.StopReason != "stop" {
		t.Errorf("unexpected stop reason: %q", resp.StopReason)
	}
}

func TestOllamaProvider_ServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()
	p := NewOllamaProvider(srv.URL, "missing-model")

	if _, err := p.Embed(context.Background(), EmbedRequest{Texts: []string{"x"}}); err == nil {
		t.Error("expected error for non-2xx response")
	}
	if err := p.HealthCheck(context.Background()); err == nil {
		t.Error("expected healthcheck failure")
	}
}

func TestOllamaProvider_HealthCheck(t *testing.T) {
	srv, _ := fakeOllama(t)
	p := NewOllamaProvider(srv.URL, "nomic-embed-text")

	if err := p.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}
}

func TestBuildChatOptions(t *testing.T) {
	if opts := buildChatOptions(ChatRequest{}); opts != nil {
		t.Errorf("expected nil options, got %v", opts)
	}
	opts := buildChatOptions(ChatRequest{Temperature: 0.2, MaxTokens: 100})
	if opts["temperature"] != float32(0.2) || opts["num_predict"] != 100 {
		t.Errorf("unexpected options: %v", opts)
	}
}
