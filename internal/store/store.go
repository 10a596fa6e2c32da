package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store fronts the two Postgres tables doppel consumes: chat_embeddings
// (style pairs with pgvector embeddings, see embeddings.go) and
// conversation_history (the rolling per-contact log, see history.go).
type Store struct {
	pool *pgxpool.Pool
}

// New connects a pool and verifies the database is reachable. The
// schema is expected to exist already (schema.sql).
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// pgVector formats an embedding as a pgvector string literal, e.g.
// "[0.1,0.2,0.3]", for use as a parameter against a vector column.
func pgVector(v []float64) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = fmt.Sprintf("%g", f)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
