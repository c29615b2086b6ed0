// End-to-end route tests: real router, real in-memory SQLite with seeds,
// stub LLM provider. Exercises the full request path through middleware,
// handlers and the retrieval service.
package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adityabhaskar/nyaya/internal/domain/legal"
	"github.com/adityabhaskar/nyaya/internal/domain/retrieval"
	"github.com/adityabhaskar/nyaya/internal/infra/llm"
	"github.com/adityabhaskar/nyaya/internal/infra/sqlite"
)

// stubLLM is a deterministic LLMProvider: every text embeds to the same
// vector (retrieval quality is covered by the retrieval package tests) and
// chat always answers.
type stubLLM struct{}

func (stubLLM) Embed(_ context.Context, req llm.EmbedRequest) (*llm.EmbedResponse, error) {
	vecs := make([][]float32, len(req.Texts))
	for i := range vecs {
		vecs[i] = []float32{1, 0.5, 0.25}
	}
	return &llm.EmbedResponse{Embeddings: vecs}, nil
}

func (stubLLM) ChatCompletion(_ context.Context, _ llm.ChatRequest) (*llm.ChatResponse, error) {
	return &llm.ChatResponse{Content: "Stub legal answer referencing Section 378 of the IPC."}, nil
}

func (stubLLM) ModelInfo() llm.ModelMeta {
	return llm.ModelMeta{ID: "stub-embed", Provider: "stub"}
}

func (stubLLM) HealthCheck(_ context.Context) error { return nil }

// downLLM behaves like stubLLM but fails its health probe.
type downLLM struct{ stubLLM }

func (downLLM) HealthCheck(_ context.Context) error {
	return errors.New("connection refused")
}

func setupRouter(t *testing.T) (http.Handler, *sql.DB) {
	return setupRouterWith(t, stubLLM{})
}

// setupRouterWith lets a test swap the provider probed by /health; the
// retrieval service itself always runs on the deterministic stub.
func setupRouterWith(t *testing.T, generator llm.LLMProvider) (http.Handler, *sql.DB) {
	t.Helper()
	db, err := sqlite.NewDB(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := retrieval.DefaultConfig()
	provider := stubLLM{}
	svc := retrieval.NewService(
		retrieval.NewEncoder(provider),
		retrieval.NewGate(provider, "", cfg),
		retrieval.NewKeywordTable(cfg.Keywords, cfg.KeywordConfidence),
		cfg,
		legal.NewSectionService(db),
		legal.NewKnowledgeService(db),
		legal.NewFIRService(db, nil),
	)
	if err := svc.LoadCorpora(context.Background(), t.TempDir()); err != nil {
		t.Fatalf("load corpora: %v", err)
	}

	firs := legal.NewFIRService(db, nil)
	return NewRouter(Deps{
		Retrieval: svc,
		FIR:       firs,
		Encoder:   provider,
		Generator: generator,
	}), db
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_Health(t *testing.T) {
	h, db := setupRouter(t)
	defer db.Close()

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var resp struct {
		Status       string `json:"status"`
		Encoder      string `json:"encoder"`
		Generator    string `json:"generator"`
		SectionViews int    `json:"section_views"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status %q", resp.Status)
	}
	if resp.Encoder != "ok" || resp.Generator != "ok" {
		t.Errorf("probes: encoder %q, generator %q", resp.Encoder, resp.Generator)
	}
	if resp.SectionViews == 0 {
		t.Error("expected loaded section views")
	}
}

func TestRoutes_Health_GeneratorDown(t *testing.T) {
	h, db := setupRouterWith(t, downLLM{})
	defer db.Close()

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var resp struct {
		Status    string `json:"status"`
		Encoder   string `json:"encoder"`
		Generator string `json:"generator"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("status %q, want degraded", resp.Status)
	}
	if resp.Encoder != "ok" {
		t.Errorf("encoder %q, want ok", resp.Encoder)
	}
	if resp.Generator != "unavailable" {
		t.Errorf("generator %q, want unavailable", resp.Generator)
	}
}

func TestRoutes_SuggestSections_Keyword(t *testing.T) {
	h, db := setupRouter(t)
	defer db.Close()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/fir/suggest-sections",
		map[string]string{"incident_description": "a theft happened at my house"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp retrieval.SuggestResult
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Source != retrieval.SourceKeyword {
		t.Errorf("source %q", resp.Source)
	}
	if len(resp.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(resp.Suggestions))
	}
	if resp.Suggestions[0].SectionNumber != "378" {
		t.Errorf("first suggestion %s", resp.Suggestions[0].SectionNumber)
	}
}

func TestRoutes_SuggestSections_EmptyDescription(t *testing.T) {
	h, db := setupRouter(t)
	defer db.Close()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/fir/suggest-sections",
		map[string]string{"incident_description": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
}

func TestRoutes_Chat_DirectSectionLookup(t *testing.T) {
	h, db := setupRouter(t)
	defer db.Close()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/chat",
		map[string]string{"message": "what is IPC 302?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp retrieval.Answer
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Source != retrieval.SourceDirect {
		t.Errorf("source %q, want kb", resp.Source)
	}
	if !strings.Contains(resp.Text, "302") {
		t.Errorf("answer %q", resp.Text)
	}
}

func TestRoutes_Chat_EmptyMessage(t *testing.T) {
	h, db := setupRouter(t)
	defer db.Close()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/chat", map[string]string{"message": " "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
}

func TestRoutes_SimilarCases_NoRecords(t *testing.T) {
	h, db := setupRouter(t)
	defer db.Close()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/fir/similar",
		map[string]string{"case_description": "stolen motorcycle"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp retrieval.CaseMatches
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != retrieval.NoRecordsMessage {
		t.Errorf("message %q", resp.Message)
	}
}

func TestRoutes_FIR_CreateAndList(t *testing.T) {
	h, db := setupRouter(t)
	defer db.Close()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/fir", map[string]string{
		"incident_type":        "Theft",
		"incident_description": "Laptop stolen from parked car",
		"incident_location":    "Bengaluru",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", rec.Code, rec.Body.String())
	}

	var created legal.FIRRecord
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.FIRNumber == "" {
		t.Error("expected generated FIR number")
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/fir", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d", rec.Code)
	}
	var records []legal.FIRRecord
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 || records[0].FIRNumber != created.FIRNumber {
		t.Errorf("unexpected list: %+v", records)
	}
}

func TestRoutes_FIR_CreateRequiresDescription(t *testing.T) {
	h, db := setupRouter(t)
	defer db.Close()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/fir",
		map[string]string{"incident_type": "Theft"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", rec.Code)
	}
}
