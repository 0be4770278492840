package oracle

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEmbedderNormalizesAndOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Fatalf("input len = %d, want 2", len(req.Input))
		}
		_ = json.NewEncoder(w).Encode(embedResp{
			Embeddings: [][]float32{{3, 4}, {0, 2}},
		})
	}))
	defer srv.Close()

	e := NewEmbedder(EmbedConfig{URL: srv.URL, Model: "test", Timeout: time.Second})
	vecs, err := e.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vecs))
	}
	// {3,4} normalizes to {0.6,0.8}
	if math.Abs(float64(vecs[0][0])-0.6) > 1e-6 || math.Abs(float64(vecs[0][1])-0.8) > 1e-6 {
		t.Fatalf("vector not unit-normalized: %v", vecs[0])
	}
	if vecs[1][1] != 1 {
		t.Fatalf("second vector = %v, want unit y", vecs[1])
	}
}

func TestEmbedderVectorCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResp{Embeddings: [][]float32{{1}}})
	}))
	defer srv.Close()

	e := NewEmbedder(EmbedConfig{URL: srv.URL, Model: "test"})
	if _, err := e.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatalf("expected error on vector count mismatch")
	}
}

func TestEmbedderUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewEmbedder(EmbedConfig{URL: srv.URL, Model: "test"})
	if _, err := e.EmbedOne(context.Background(), "a"); err == nil {
		t.Fatalf("expected error on non-200")
	}
}

func TestGeneratorDeterministicPinsTemperature(t *testing.T) {
	var gotTemp float64 = -1
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotTemp = req.Temperature
		if req.MaxTokens != 4 {
			t.Fatalf("max_tokens = %d, want 4", req.MaxTokens)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"B"}}]}`))
	}))
	defer srv.Close()

	g := NewGenerator(GenerateConfig{URL: srv.URL, Model: "test"})
	out, err := g.Generate(context.Background(), []Message{{Role: "user", Content: "hi"}}, 4, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "B" {
		t.Fatalf("content = %q, want B", out)
	}
	if gotTemp != 0 {
		t.Fatalf("temperature = %v, want 0 in deterministic mode", gotTemp)
	}
}

func TestGeneratorNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	g := NewGenerator(GenerateConfig{URL: srv.URL, Model: "test"})
	if _, err := g.Generate(context.Background(), nil, 10, false); err == nil {
		t.Fatalf("expected error on empty choices")
	}
}
