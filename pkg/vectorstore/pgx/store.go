package pgx

import (
	"context"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"multirag/pkg/vectorstore"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// VectorDBStore implements the VectorStore interface on PostgreSQL with
// the pgvector extension. Collections share one chunks table; each
// collection row records the embedding dimension it was declared with.
type VectorDBStore struct {
	conn pgxIConn
}

// NewVectorDBStoreWithConnection creates a VectorDBStore using an existing
// database connection or pool.
func NewVectorDBStoreWithConnection(conn pgxIConn) *VectorDBStore {
	return &VectorDBStore{conn: conn}
}

// EnsureCollection registers the collection if it is new. An existing
// collection keeps its original dimension; callers that pass a different
// dimension later will fail at upsert time, not here.
func (s *VectorDBStore) EnsureCollection(ctx context.Context, name string, dimension int) error {
	if name == "" {
		return fmt.Errorf("collection name must not be empty")
	}
	if dimension <= 0 {
		return fmt.Errorf("collection dimension must be positive, got %d", dimension)
	}

	_, err := s.conn.Exec(ctx, `
		INSERT INTO collections (name, dimension)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
	`, name, dimension)
	if err != nil {
		return fmt.Errorf("failed to ensure collection %q: %w", name, err)
	}

	return nil
}

// Upsert inserts records into the collection. Records always insert under
// their own ID, so repeated ingestion of the same content produces
// distinct rows.
func (s *VectorDBStore) Upsert(ctx context.Context, collection string, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin upsert transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		_, err := tx.Exec(ctx, `
			INSERT INTO chunks (id, collection, embedding, text, source_file, chunk_index, token_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				embedding = EXCLUDED.embedding,
				text = EXCLUDED.text,
				source_file = EXCLUDED.source_file,
				chunk_index = EXCLUDED.chunk_index,
				token_count = EXCLUDED.token_count
		`,
			r.ID,
			collection,
			pgvector.NewVector(r.Vector),
			r.Payload.Text,
			r.Payload.SourceFile,
			r.Payload.ChunkIndex,
			r.Payload.TokenCount,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert record %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit upsert transaction: %w", err)
	}

	return nil
}

// Search returns the limit nearest records by cosine similarity, most
// similar first.
func (s *VectorDBStore) Search(ctx context.Context, collection string, vector []float32, limit int) ([]vectorstore.Hit, error) {
	if limit <= 0 {
		limit = 3
	}

	rows, err := s.conn.Query(ctx, `
		SELECT
			1 - (embedding <=> $1) AS score,
			text,
			source_file,
			chunk_index,
			token_count
		FROM chunks
		WHERE collection = $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`, pgvector.NewVector(vector), collection, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search collection %q: %w", collection, err)
	}
	defer rows.Close()

	hits := make([]vectorstore.Hit, 0, limit)
	for rows.Next() {
		var h vectorstore.Hit
		if err := rows.Scan(&h.Score, &h.Payload.Text, &h.Payload.SourceFile, &h.Payload.ChunkIndex, &h.Payload.TokenCount); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search rows: %w", err)
	}

	return hits, nil
}
