package rag

import (
	"context"
	"log/slog"

	"github.com/doppelbot/doppel/internal/store"
)

// GlobalContactID is the cross-contact fallback collection, a random
// sample of pairs from every ingested contact.
const GlobalContactID = "global"

// Embedder produces a fixed-dimensionality vector for a text.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
}

// Matcher performs the similarity search over stored pairs.
type Matcher interface {
	MatchEmbeddings(ctx context.Context, contactID string, embedding []float64, topK int) ([]store.StyleExample, error)
}

// Retriever finds the most similar historical pairs for an incoming
// message. Retrieval is best-effort: the bot must still reply without
// style examples, so every failure degrades to an empty result.
type Retriever struct {
	embedder Embedder
	matcher  Matcher
	logger   *slog.Logger
}

func NewRetriever(embedder Embedder, matcher Matcher, logger *slog.Logger) *Retriever {
	return &Retriever{embedder: embedder, matcher: matcher, logger: logger}
}

// Retrieve embeds message and returns the topK nearest stored pairs for
// contactID, falling back to the global collection when the contact has
// none. Results are ordered most similar first.
func (r *Retriever) Retrieve(ctx context.Context, contactID, message string, topK int) []store.StyleExample {
	embedding, err := r.embedder.EmbedText(ctx, message)
	if err != nil {
		r.logger.Error("embedding failed", "contact_id", contactID, "error", err)
		return nil
	}

	examples, err := r.matcher.MatchEmbeddings(ctx, contactID, embedding, topK)
	if err != nil {
		r.logger.Error("similarity search failed", "contact_id", contactID, "error", err)
		return nil
	}
	if len(examples) > 0 {
		return examples
	}

	if contactID == GlobalContactID {
		return nil
	}

	r.logger.Info("no examples for contact, using global fallback", "contact_id", contactID)
	examples, err = r.matcher.MatchEmbeddings(ctx, GlobalContactID, embedding, topK)
	if err != nil {
		r.logger.Error("global fallback search failed", "error", err)
		return nil
	}
	return examples
}
