package retrieve

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"multirag/pkg/ai"
	"multirag/pkg/graphstore"
	"multirag/pkg/logger"
	"multirag/pkg/vectorstore"
)

const defaultTopK = 3

// Retriever runs the two retrieval legs for a question: semantic search
// over the vector store and a translated Cypher query over the graph
// store. Either leg may come back empty; the fused context reports both.
type Retriever struct {
	aiClient    ai.RAGAIClient
	vectorStore vectorstore.VectorStore
	graphStore  graphstore.GraphStore
	collection  string
	topK        int
}

// NewRetrieverParams contains configuration for creating a Retriever.
type NewRetrieverParams struct {
	AIClient    ai.RAGAIClient
	VectorStore vectorstore.VectorStore
	GraphStore  graphstore.GraphStore
	Collection  string
	TopK        int
}

// NewRetriever creates a Retriever. TopK defaults to 3 when unset.
func NewRetriever(params NewRetrieverParams) *Retriever {
	topK := params.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Retriever{
		aiClient:    params.AIClient,
		vectorStore: params.VectorStore,
		graphStore:  params.GraphStore,
		collection:  params.Collection,
		topK:        topK,
	}
}

// Retrieve gathers evidence for a question from both stores and fuses it
// into a single context block. A failure in either leg degrades that leg
// to empty rather than failing the request; only a failure of both legs
// at once still produces a usable (empty) context.
func (r *Retriever) Retrieve(ctx context.Context, question string) string {
	semantic := r.retrieveSemantic(ctx, question)
	graph := r.retrieveGraph(ctx, question)
	return FuseContext(semantic, graph)
}

// retrieveSemantic embeds the question and returns the top matching
// chunks, most similar first, each prefixed with its source document.
func (r *Retriever) retrieveSemantic(ctx context.Context, question string) string {
	embedding, err := r.aiClient.GenerateEmbedding(ctx, []byte(question))
	if err != nil {
		logger.Warn("Question embedding failed, skipping semantic retrieval", "err", err)
		return ""
	}

	hits, err := r.vectorStore.Search(ctx, r.collection, embedding, r.topK)
	if err != nil {
		logger.Warn("Vector search failed, skipping semantic retrieval", "err", err)
		return ""
	}

	lines := make([]string, 0, len(hits))
	for _, h := range hits {
		lines = append(lines, fmt.Sprintf("[Source: %s, chunk %d] %s", h.Payload.SourceFile, h.Payload.ChunkIndex, h.Payload.Text))
	}

	return strings.Join(lines, "\n")
}

// retrieveGraph translates the question to Cypher and renders the result
// rows one JSON object per line. An empty translation skips the leg.
func (r *Retriever) retrieveGraph(ctx context.Context, question string) string {
	query := TranslateToCypher(ctx, r.aiClient, question)
	if query == "" {
		return ""
	}

	rows, err := r.graphStore.ExecuteQuery(ctx, query)
	if err != nil {
		logger.Warn("Graph query failed, skipping graph retrieval", "query", query, "err", err)
		return ""
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		encoded, err := json.Marshal(row)
		if err != nil {
			continue
		}
		lines = append(lines, string(encoded))
	}

	return strings.Join(lines, "\n")
}

// FuseContext combines the two retrieval legs into the context block the
// answer model receives. Empty legs are reported as empty rather than
// omitted so the model can tell which source had nothing.
func FuseContext(semantic string, graph string) string {
	var b strings.Builder

	b.WriteString("CONTEXT FROM SEMANTIC SEARCH:\n")
	b.WriteString(strings.TrimSpace(semantic))
	b.WriteString("\n\n---\n\n")
	b.WriteString("CONTEXT FROM KNOWLEDGE GRAPH:\n")
	b.WriteString(strings.TrimSpace(graph))

	return b.String()
}
