package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"

	"github.com/doppelbot/doppel/internal/export"
	"github.com/doppelbot/doppel/internal/rag"
)

const (
	embedBatchSize   = 64
	insertBatchSize  = 500
	maxGlobalSamples = 200
)

// Embedder embeds a batch of trigger texts.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// PairStore persists embedded pairs.
type PairStore interface {
	InsertPairs(ctx context.Context, contactID string, pairs []export.Pair, embeddings [][]float64) error
}

// Ingester loads pairs files into the vector store, embedding the
// trigger side of every pair. Search happens by what the other person
// said, to find how the owner replied.
type Ingester struct {
	embedder Embedder
	store    PairStore
	logger   *slog.Logger
}

func New(embedder Embedder, store PairStore, logger *slog.Logger) *Ingester {
	return &Ingester{embedder: embedder, store: store, logger: logger}
}

// File ingests a single pairs file under contactID and returns the
// number of rows stored.
func (g *Ingester) File(ctx context.Context, path, contactID string) (int, error) {
	pairs, err := export.ReadPairs(path)
	if err != nil {
		return 0, err
	}
	if len(pairs) == 0 {
		g.logger.Warn("no pairs in file", "path", path)
		return 0, nil
	}

	g.logger.Info("ingesting pairs", "path", path, "contact_id", contactID, "pairs", len(pairs))
	if err := g.Pairs(ctx, contactID, pairs); err != nil {
		return 0, err
	}
	return len(pairs), nil
}

// Pairs embeds and stores an in-memory pair set for contactID.
func (g *Ingester) Pairs(ctx context.Context, contactID string, pairs []export.Pair) error {
	embeddings := make([][]float64, 0, len(pairs))
	for i := 0; i < len(pairs); i += embedBatchSize {
		end := min(i+embedBatchSize, len(pairs))
		texts := make([]string, 0, end-i)
		for _, p := range pairs[i:end] {
			texts = append(texts, p.Trigger)
		}
		vecs, err := g.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch: %w", err)
		}
		embeddings = append(embeddings, vecs...)
		if len(pairs) > embedBatchSize {
			g.logger.Info("embedded", "done", end, "total", len(pairs))
		}
	}

	for i := 0; i < len(pairs); i += insertBatchSize {
		end := min(i+insertBatchSize, len(pairs))
		if err := g.store.InsertPairs(ctx, contactID, pairs[i:end], embeddings[i:end]); err != nil {
			return fmt.Errorf("store batch: %w", err)
		}
		g.logger.Info("inserted", "done", end, "total", len(pairs), "contact_id", contactID)
	}
	return nil
}

// Dir ingests every .json pairs file in dir, deriving the contact id
// from the file stem. With withGlobal, a uniform random sample of up to
// 200 pairs across all contacts is additionally ingested under the
// global fallback collection.
func (g *Ingester) Dir(ctx context.Context, dir string, withGlobal bool) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("glob pairs files: %w", err)
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("no .json pairs files in %s", dir)
	}
	sort.Strings(paths)

	total := 0
	var allPairs []export.Pair
	for _, path := range paths {
		contactID := strings.TrimSuffix(filepath.Base(path), ".json")
		n, err := g.File(ctx, path, contactID)
		if err != nil {
			return total, fmt.Errorf("ingest %s: %w", path, err)
		}
		total += n

		if withGlobal {
			pairs, err := export.ReadPairs(path)
			if err != nil {
				return total, err
			}
			allPairs = append(allPairs, pairs...)
		}
	}

	if withGlobal && len(allPairs) > 0 {
		sampled := samplePairs(allPairs, maxGlobalSamples)
		g.logger.Info("building global style collection", "sampled", len(sampled), "from", len(allPairs))
		if err := g.Pairs(ctx, rag.GlobalContactID, sampled); err != nil {
			return total, fmt.Errorf("ingest global sample: %w", err)
		}
		total += len(sampled)
	}

	return total, nil
}

// samplePairs draws up to n pairs uniformly at random without
// replacement.
func samplePairs(pairs []export.Pair, n int) []export.Pair {
	if len(pairs) <= n {
		out := make([]export.Pair, len(pairs))
		copy(out, pairs)
		return out
	}
	out := make([]export.Pair, 0, n)
	for _, idx := range rand.Perm(len(pairs))[:n] {
		out = append(out, pairs[idx])
	}
	return out
}
