package vectorstore

import (
	"context"

	"github.com/google/uuid"
)

// Payload carries the retrievable metadata stored alongside each vector.
type Payload struct {
	Text       string `json:"text"`
	SourceFile string `json:"source_file"`
	ChunkIndex int    `json:"chunk_index"`
	TokenCount int    `json:"token_count,omitempty"`
}

// Record is a single vector entry with its payload. Every upsert produces
// a new record under a fresh ID, so re-ingesting a document adds records
// rather than replacing them.
type Record struct {
	ID      uuid.UUID
	Vector  []float32
	Payload Payload
}

// Hit is a search result: the stored payload plus its similarity score,
// higher meaning more similar.
type Hit struct {
	Score   float64 `json:"score"`
	Payload Payload `json:"payload"`
}

// VectorStore persists embedding vectors and retrieves the nearest
// neighbours of a query vector.
type VectorStore interface {
	// EnsureCollection creates the named collection with the given vector
	// dimension if it does not already exist. Existing collections are
	// left untouched.
	EnsureCollection(ctx context.Context, name string, dimension int) error

	// Upsert writes the given records into a collection.
	Upsert(ctx context.Context, collection string, records []Record) error

	// Search returns up to limit records from the collection ordered by
	// descending similarity to the query vector.
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]Hit, error)
}
