package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/doppelbot/doppel/internal/export"
)

// StyleExample is one retrieved (trigger → reply) pair, most similar
// first in the slice returned by MatchEmbeddings.
type StyleExample struct {
	TriggerText string
	ReplyText   string
}

// InsertPairs stores trigger/reply pairs with their trigger embeddings
// for a contact. pairs and embeddings must be aligned by index.
func (s *Store) InsertPairs(ctx context.Context, contactID string, pairs []export.Pair, embeddings [][]float64) error {
	if len(pairs) != len(embeddings) {
		return fmt.Errorf("pairs/embeddings length mismatch: %d vs %d", len(pairs), len(embeddings))
	}

	batch := &pgx.Batch{}
	for i, p := range pairs {
		batch.Queue(`
			INSERT INTO chat_embeddings (id, contact_id, trigger_text, reply_text, embedding)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), contactID, p.Trigger, p.Reply, pgVector(embeddings[i]),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range pairs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert chat_embedding: %w", err)
		}
	}
	return nil
}

// MatchEmbeddings returns the topK stored pairs for a contact whose
// trigger embeddings are nearest to the query embedding.
func (s *Store) MatchEmbeddings(ctx context.Context, contactID string, embedding []float64, topK int) ([]StyleExample, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT trigger_text, reply_text
		FROM chat_embeddings
		WHERE contact_id = $1
		ORDER BY embedding <=> $2
		LIMIT $3`,
		contactID, pgVector(embedding), topK,
	)
	if err != nil {
		return nil, fmt.Errorf("match embeddings: %w", err)
	}
	defer rows.Close()

	var examples []StyleExample
	for rows.Next() {
		var ex StyleExample
		if err := rows.Scan(&ex.TriggerText, &ex.ReplyText); err != nil {
			return nil, fmt.Errorf("scan example: %w", err)
		}
		examples = append(examples, ex)
	}
	return examples, rows.Err()
}

// CountByContact returns the number of stored embeddings per contact.
func (s *Store) CountByContact(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT contact_id, count(*)
		FROM chat_embeddings
		GROUP BY contact_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("count embeddings: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var contactID string
		var n int
		if err := rows.Scan(&contactID, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[contactID] = n
	}
	return counts, rows.Err()
}

// ClearContact deletes all stored embeddings for a contact.
func (s *Store) ClearContact(ctx context.Context, contactID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM chat_embeddings WHERE contact_id = $1`, contactID); err != nil {
		return fmt.Errorf("clear contact embeddings: %w", err)
	}
	return nil
}
