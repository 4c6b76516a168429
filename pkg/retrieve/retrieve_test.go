package retrieve

import (
	"context"
	"errors"
	"strings"
	"testing"

	"multirag/pkg/ai"
	"multirag/pkg/graphstore"
	"multirag/pkg/loader"
	"multirag/pkg/vectorstore"
)

type fakeAI struct {
	completion    string
	completionErr error
	embedding     []float32
	embeddingErr  error

	gotPrompt        string
	gotSystemPrompts []string
}

func (f *fakeAI) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	options := ai.GenerateOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	f.gotPrompt = prompt
	f.gotSystemPrompts = options.SystemPrompts
	return f.completion, f.completionErr
}

func (f *fakeAI) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return f.embedding, f.embeddingErr
}

func (f *fakeAI) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	return nil, nil
}

func (f *fakeAI) GenerateImageDescription(ctx context.Context, prompt string, b64 loader.Base64) (string, error) {
	return "", nil
}

func (f *fakeAI) GenerateAudioTranscription(ctx context.Context, audio []byte, language string) (string, error) {
	return "", nil
}

func (f *fakeAI) ResetMetrics() {}
func (f *fakeAI) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

type fakeVectorStore struct {
	hits []vectorstore.Hit
	err  error
}

func (f *fakeVectorStore) EnsureCollection(ctx context.Context, name string, dimension int) error {
	return nil
}

func (f *fakeVectorStore) Upsert(ctx context.Context, collection string, records []vectorstore.Record) error {
	return nil
}

func (f *fakeVectorStore) Search(ctx context.Context, collection string, vector []float32, limit int) ([]vectorstore.Hit, error) {
	return f.hits, f.err
}

type fakeGraphStore struct {
	rows     []map[string]any
	err      error
	gotQuery string
}

func (f *fakeGraphStore) MergeTriple(ctx context.Context, t graphstore.Triple, sourceDoc string) error {
	return nil
}

func (f *fakeGraphStore) ExecuteQuery(ctx context.Context, query string) ([]map[string]any, error) {
	f.gotQuery = query
	return f.rows, f.err
}

func (f *fakeGraphStore) Close(ctx context.Context) error { return nil }

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MATCH (n) RETURN n", "MATCH (n) RETURN n"},
		{"```cypher\nMATCH (n) RETURN n\n```", "MATCH (n) RETURN n"},
		{"```\nMATCH (n) RETURN n\n```", "MATCH (n) RETURN n"},
		{"  MATCH (n) RETURN n  ", "MATCH (n) RETURN n"},
	}
	for _, tt := range tests {
		if got := stripCodeFences(tt.in); got != tt.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTranslateToCypher_SchemaRidesAsSystemPrompt(t *testing.T) {
	client := &fakeAI{completion: "MATCH (n) RETURN n"}

	got := TranslateToCypher(context.Background(), client, "Who works for Acme?")
	if got != "MATCH (n) RETURN n" {
		t.Fatalf("unexpected query: %q", got)
	}
	if len(client.gotSystemPrompts) != 1 || !strings.Contains(client.gotSystemPrompts[0], "Entity") {
		t.Fatalf("graph schema missing from system prompts: %v", client.gotSystemPrompts)
	}
	if !strings.Contains(client.gotPrompt, `User Query: "Who works for Acme?"`) {
		t.Fatalf("question missing from user message: %q", client.gotPrompt)
	}
}

func TestTranslateToCypher_FailureReturnsEmpty(t *testing.T) {
	client := &fakeAI{completionErr: errors.New("model unavailable")}
	if got := TranslateToCypher(context.Background(), client, "who knows whom?"); got != "" {
		t.Fatalf("expected empty query on failure, got %q", got)
	}
}

func TestFuseContext_BothLegsLabeled(t *testing.T) {
	fused := FuseContext("chunk text", `{"Person":"Alice"}`)

	if !strings.Contains(fused, "CONTEXT FROM SEMANTIC SEARCH:") {
		t.Fatal("missing semantic search header")
	}
	if !strings.Contains(fused, "CONTEXT FROM KNOWLEDGE GRAPH:") {
		t.Fatal("missing knowledge graph header")
	}
	if !strings.Contains(fused, "---") {
		t.Fatal("missing section delimiter")
	}
	semIdx := strings.Index(fused, "CONTEXT FROM SEMANTIC SEARCH:")
	graphIdx := strings.Index(fused, "CONTEXT FROM KNOWLEDGE GRAPH:")
	if semIdx > graphIdx {
		t.Fatal("semantic section must come before graph section")
	}
}

func TestRetrieve_FusesBothLegs(t *testing.T) {
	client := &fakeAI{
		completion: "MATCH (p:Entity) RETURN p.name AS Person",
		embedding:  []float32{0.1, 0.2},
	}
	vs := &fakeVectorStore{hits: []vectorstore.Hit{
		{Score: 0.9, Payload: vectorstore.Payload{Text: "Evelyn leads Chimera.", SourceFile: "report.txt", ChunkIndex: 0}},
		{Score: 0.7, Payload: vectorstore.Payload{Text: "Chimera is in Berlin.", SourceFile: "report.txt", ChunkIndex: 1}},
	}}
	gs := &fakeGraphStore{rows: []map[string]any{{"Person": "Evelyn Reed"}}}

	r := NewRetriever(NewRetrieverParams{
		AIClient:    client,
		VectorStore: vs,
		GraphStore:  gs,
		Collection:  "test",
	})

	fused := r.Retrieve(context.Background(), "Who leads Chimera?")

	if !strings.Contains(fused, "Evelyn leads Chimera.") {
		t.Fatal("semantic hit missing from fused context")
	}
	if !strings.Contains(fused, "[Source: report.txt, chunk 0]") {
		t.Fatal("provenance header missing from fused context")
	}
	if !strings.Contains(fused, `"Person":"Evelyn Reed"`) {
		t.Fatal("graph row missing from fused context")
	}
	if gs.gotQuery != "MATCH (p:Entity) RETURN p.name AS Person" {
		t.Fatalf("unexpected graph query: %q", gs.gotQuery)
	}
}

func TestRetrieve_GraphFailureDegradesToSemanticOnly(t *testing.T) {
	client := &fakeAI{
		completion: "MATCH (n) RETURN n",
		embedding:  []float32{0.1},
	}
	vs := &fakeVectorStore{hits: []vectorstore.Hit{
		{Score: 0.8, Payload: vectorstore.Payload{Text: "still here", SourceFile: "a.txt"}},
	}}
	gs := &fakeGraphStore{err: errors.New("neo4j down")}

	r := NewRetriever(NewRetrieverParams{
		AIClient:    client,
		VectorStore: vs,
		GraphStore:  gs,
		Collection:  "test",
	})

	fused := r.Retrieve(context.Background(), "anything")
	if !strings.Contains(fused, "still here") {
		t.Fatal("semantic results must survive a graph failure")
	}
	if !strings.Contains(fused, "CONTEXT FROM KNOWLEDGE GRAPH:") {
		t.Fatal("graph section must still be present, just empty")
	}
}

func TestRetrieve_EmbeddingFailureDegradesToGraphOnly(t *testing.T) {
	client := &fakeAI{
		completion:   "MATCH (n:Entity) RETURN n.name AS Name",
		embeddingErr: errors.New("embed service down"),
	}
	vs := &fakeVectorStore{}
	gs := &fakeGraphStore{rows: []map[string]any{{"Name": "Alice"}}}

	r := NewRetriever(NewRetrieverParams{
		AIClient:    client,
		VectorStore: vs,
		GraphStore:  gs,
		Collection:  "test",
	})

	fused := r.Retrieve(context.Background(), "anything")
	if !strings.Contains(fused, `"Name":"Alice"`) {
		t.Fatal("graph results must survive an embedding failure")
	}
}
