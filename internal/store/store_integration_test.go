//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/doppelbot/doppel/internal/export"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func testVector(seed float64) []float64 {
	v := make([]float64, 384)
	for i := range v {
		v[i] = seed
	}
	return v
}

func TestIntegration_InsertAndMatch(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	contactID := "itest-" + uuid.New().String()[:8]

	t.Cleanup(func() {
		_ = s.ClearContact(ctx, contactID)
	})

	pairs := []export.Pair{
		{Trigger: "kya kar rha h", Reply: "kuch nhi bas", Timestamp: "12/25/23 10:01"},
		{Trigger: "khana kha liya?", Reply: "haan abhi", Timestamp: "12/25/23 10:05"},
	}
	embeddings := [][]float64{testVector(0.1), testVector(0.9)}

	if err := s.InsertPairs(ctx, contactID, pairs, embeddings); err != nil {
		t.Fatalf("InsertPairs failed: %v", err)
	}

	examples, err := s.MatchEmbeddings(ctx, contactID, testVector(0.1), 1)
	if err != nil {
		t.Fatalf("MatchEmbeddings failed: %v", err)
	}
	if len(examples) != 1 {
		t.Fatalf("expected 1 example, got %d", len(examples))
	}
	if examples[0].TriggerText != "kya kar rha h" {
		t.Errorf("expected nearest trigger %q, got %q", "kya kar rha h", examples[0].TriggerText)
	}

	counts, err := s.CountByContact(ctx)
	if err != nil {
		t.Fatalf("CountByContact failed: %v", err)
	}
	if counts[contactID] != 2 {
		t.Errorf("expected 2 embeddings for %s, got %d", contactID, counts[contactID])
	}

	if err := s.ClearContact(ctx, contactID); err != nil {
		t.Fatalf("ClearContact failed: %v", err)
	}
	counts, err = s.CountByContact(ctx)
	if err != nil {
		t.Fatalf("CountByContact failed: %v", err)
	}
	if counts[contactID] != 0 {
		t.Errorf("expected 0 embeddings after clear, got %d", counts[contactID])
	}
}

func TestIntegration_HistoryRoundtrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	contactID := "itest-" + uuid.New().String()[:8]

	t.Cleanup(func() {
		_ = s.ClearHistory(ctx, contactID)
	})

	if err := s.SaveMessage(ctx, contactID, "Test Contact", "user", "first"); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	if err := s.SaveMessage(ctx, contactID, "Test Contact", "assistant", "second"); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}

	history, err := s.RecentHistory(ctx, contactID, 10)
	if err != nil {
		t.Fatalf("RecentHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	// Newest first.
	if history[0].Message != "second" || history[1].Message != "first" {
		t.Errorf("expected newest-first ordering, got %q then %q", history[0].Message, history[1].Message)
	}

	if err := s.ClearHistory(ctx, contactID); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	history, err = s.RecentHistory(ctx, contactID, 10)
	if err != nil {
		t.Fatalf("RecentHistory failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history after clear, got %d", len(history))
	}
}
