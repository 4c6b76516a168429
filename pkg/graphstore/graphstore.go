package graphstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"multirag/pkg/logger"
)

// Triple is one subject-predicate-object fact extracted from a document.
type Triple struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	Relationship string `json:"relationship"`
}

// GraphStore persists triples into a property graph and runs read queries
// against it.
type GraphStore interface {
	// MergeTriple upserts the triple's entities and the typed edge between
	// them. Merging the same triple twice leaves the graph unchanged.
	MergeTriple(ctx context.Context, triple Triple, sourceDoc string) error

	// ExecuteQuery runs a read query and returns the result rows as maps
	// keyed by the query's return identifiers.
	ExecuteQuery(ctx context.Context, query string) ([]map[string]any, error)

	Close(ctx context.Context) error
}

// NormalizeRelationship converts a free-form relationship label into a
// graph-safe edge type: uppercase, spaces to underscores, every other
// character outside [A-Z0-9_] removed. An empty result means the label is
// unusable.
func NormalizeRelationship(rel string) (string, error) {
	rel = strings.ToUpper(strings.TrimSpace(rel))
	rel = strings.ReplaceAll(rel, " ", "_")

	var b strings.Builder
	for _, r := range rel {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}

	normalized := b.String()
	if strings.Trim(normalized, "_") == "" {
		return "", fmt.Errorf("relationship %q normalizes to nothing usable", rel)
	}

	return normalized, nil
}

// ParseTriples decodes a model response into triples. The raw string is
// repaired first so common LLM JSON defects (trailing commas, unquoted
// keys, fenced code blocks) do not fail the batch. Items missing any of
// the three fields are skipped.
func ParseTriples(raw string) ([]Triple, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil, nil
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to repair triple JSON: %w", err)
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(repaired), &items); err != nil {
		return nil, fmt.Errorf("failed to parse triple JSON: %w", err)
	}

	triples := make([]Triple, 0, len(items))
	for i, item := range items {
		source, _ := item["source"].(string)
		target, _ := item["target"].(string)
		relationship, _ := item["relationship"].(string)

		source = strings.TrimSpace(source)
		target = strings.TrimSpace(target)
		relationship = strings.TrimSpace(relationship)

		if source == "" || target == "" || relationship == "" {
			logger.Warn("Skipping malformed triple", "index", i, "item", item)
			continue
		}

		triples = append(triples, Triple{
			Source:       source,
			Target:       target,
			Relationship: relationship,
		})
	}

	return triples, nil
}

// ApplyExtraction parses a model extraction response and merges every
// valid triple into the store. Triples that fail to merge are logged and
// skipped so one bad fact does not lose the rest of the batch.
func ApplyExtraction(ctx context.Context, store GraphStore, raw string, sourceDoc string) (int, error) {
	triples, err := ParseTriples(raw)
	if err != nil {
		return 0, err
	}

	merged := 0
	for _, t := range triples {
		if err := store.MergeTriple(ctx, t, sourceDoc); err != nil {
			logger.Warn("Failed to merge triple", "source", t.Source, "target", t.Target, "err", err)
			continue
		}
		merged++
	}

	return merged, nil
}
