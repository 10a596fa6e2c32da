package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbedBatch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("expected /v1/embeddings, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", r.Header.Get("Authorization"))
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "all-MiniLM-L6-v2" {
			t.Errorf("expected model all-MiniLM-L6-v2, got %q", req.Model)
		}
		if len(req.Input) != 2 {
			t.Fatalf("expected 2 inputs, got %d", len(req.Input))
		}

		// Return data out of order to exercise index-based reassembly.
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 1, "embedding": []float64{0.4, 0.5, 0.6}},
				{"index": 0, "embedding": []float64{0.1, 0.2, 0.3}},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL+"/v1", "test-key", "all-MiniLM-L6-v2", 3)

	vecs, err := c.EmbedBatch(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	if vecs[0][0] != 0.1 || vecs[1][0] != 0.4 {
		t.Errorf("vectors not reordered by index: %v", vecs)
	}
}

func TestEmbedText_Single(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 0, "embedding": []float64{1, 2}},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "", "m", 2)

	vec, err := c.EmbedText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 2 || vec[1] != 2 {
		t.Errorf("unexpected vector: %v", vec)
	}
}

func TestEmbedBatch_DimensionMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 0, "embedding": []float64{1, 2, 3}},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "", "m", 384)

	if _, err := c.EmbedText(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for wrong dimensionality")
	}
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer server.Close()

	c := NewClient(server.URL, "", "m", 2)

	if _, err := c.EmbedText(context.Background(), "hello"); err == nil {
		t.Fatal("expected error when embedding count does not match input count")
	}
}

func TestEmbedBatch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "invalid_request_error", "message": "bad input"},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "", "m", 2)

	if _, err := c.EmbedText(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for API error response")
	}
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	c := NewClient("http://unused", "", "m", 2)

	vecs, err := c.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vecs != nil {
		t.Errorf("expected nil for empty input, got %v", vecs)
	}
}
