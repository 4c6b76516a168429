package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"multirag/pkg/graphstore"
)

// GraphDBStore implements the GraphStore interface on a Neo4j database.
// Entities are nodes labeled Entity and keyed by name; relationships carry
// the normalized edge type and the document they were extracted from.
type GraphDBStore struct {
	driver neo4j.DriverWithContext
}

// NewGraphDBStoreParams contains the connection settings for a Neo4j
// server.
type NewGraphDBStoreParams struct {
	URI      string
	Username string
	Password string
}

// NewGraphDBStore connects to Neo4j and verifies the connection.
func NewGraphDBStore(ctx context.Context, params NewGraphDBStoreParams) (*GraphDBStore, error) {
	driver, err := neo4j.NewDriverWithContext(
		params.URI,
		neo4j.BasicAuth(params.Username, params.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &GraphDBStore{driver: driver}, nil
}

// NewGraphDBStoreWithDriver creates a GraphDBStore using an existing driver.
func NewGraphDBStoreWithDriver(driver neo4j.DriverWithContext) *GraphDBStore {
	return &GraphDBStore{driver: driver}
}

// MergeTriple upserts both entities and the typed edge between them in one
// write transaction. MERGE keys on the entity name and the edge type, so
// replaying the same triple is a no-op.
func (s *GraphDBStore) MergeTriple(ctx context.Context, triple graphstore.Triple, sourceDoc string) error {
	relType, err := graphstore.NormalizeRelationship(triple.Relationship)
	if err != nil {
		return err
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	// The relationship type cannot be parameterized in Cypher; relType is
	// restricted to [A-Z0-9_] by NormalizeRelationship, so splicing it into
	// the query text is safe.
	query := fmt.Sprintf(`
		MERGE (s:Entity {name: $source})
		MERGE (t:Entity {name: $target})
		MERGE (s)-[r:%s]->(t)
		ON CREATE SET r.source_doc = $sourceDoc
	`, relType)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, query, map[string]any{
			"source":    triple.Source,
			"target":    triple.Target,
			"sourceDoc": sourceDoc,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to merge triple (%s)-[%s]->(%s): %w", triple.Source, relType, triple.Target, err)
	}

	return nil
}

// ExecuteQuery runs a read-only Cypher query and returns each result
// record as a map of return identifier to value.
func (s *GraphDBStore) ExecuteQuery(ctx context.Context, query string) ([]map[string]any, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}

		rows := make([]map[string]any, 0)
		for res.Next(ctx) {
			record := res.Record()
			row := make(map[string]any, len(record.Keys))
			for _, key := range record.Keys {
				value, _ := record.Get(key)
				row[key] = value
			}
			rows = append(rows, row)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}

		return rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute graph query: %w", err)
	}

	return result.([]map[string]any), nil
}

// Close releases the underlying driver.
func (s *GraphDBStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
