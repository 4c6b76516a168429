package ingest

import (
	"context"
	"fmt"
	"testing"

	"multirag/pkg/ai"
	"multirag/pkg/chunker"
	"multirag/pkg/extract"
	"multirag/pkg/graphstore"
	"multirag/pkg/loader"
	"multirag/pkg/vectorstore"
)

type fakeAI struct {
	completion string
}

func (f *fakeAI) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	return f.completion, nil
}

func (f *fakeAI) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeAI) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i := range inputs {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

func (f *fakeAI) GenerateImageDescription(ctx context.Context, prompt string, b64 loader.Base64) (string, error) {
	return "", nil
}

func (f *fakeAI) GenerateAudioTranscription(ctx context.Context, audio []byte, language string) (string, error) {
	return "", nil
}

func (f *fakeAI) ResetMetrics() {}
func (f *fakeAI) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

type memVectorStore struct {
	collections map[string]int
	records     []vectorstore.Record
}

func newMemVectorStore() *memVectorStore {
	return &memVectorStore{collections: make(map[string]int)}
}

func (m *memVectorStore) EnsureCollection(ctx context.Context, name string, dimension int) error {
	if _, ok := m.collections[name]; !ok {
		m.collections[name] = dimension
	}
	return nil
}

func (m *memVectorStore) Upsert(ctx context.Context, collection string, records []vectorstore.Record) error {
	m.records = append(m.records, records...)
	return nil
}

func (m *memVectorStore) Search(ctx context.Context, collection string, vector []float32, limit int) ([]vectorstore.Hit, error) {
	return nil, nil
}

type memGraphStore struct {
	edges map[string]bool
}

func newMemGraphStore() *memGraphStore {
	return &memGraphStore{edges: make(map[string]bool)}
}

func (m *memGraphStore) MergeTriple(ctx context.Context, t graphstore.Triple, sourceDoc string) error {
	relType, err := graphstore.NormalizeRelationship(t.Relationship)
	if err != nil {
		return err
	}
	m.edges[fmt.Sprintf("%s|%s|%s", t.Source, relType, t.Target)] = true
	return nil
}

func (m *memGraphStore) ExecuteQuery(ctx context.Context, query string) ([]map[string]any, error) {
	return nil, nil
}

func (m *memGraphStore) Close(ctx context.Context) error { return nil }

type stringLoader struct {
	content string
}

func (s *stringLoader) GetFileBytes(ctx context.Context, file loader.File) ([]byte, error) {
	return []byte(s.content), nil
}

func (s *stringLoader) GetBase64(ctx context.Context, file loader.File) (loader.Base64, error) {
	return loader.Base64{}, nil
}

func newTestOrchestrator(aiClient ai.RAGAIClient, vs vectorstore.VectorStore, gs graphstore.GraphStore, content string) *Orchestrator {
	return NewOrchestrator(NewOrchestratorParams{
		AIClient:    aiClient,
		Chunker:     chunker.NewChunker(1000, 100),
		VectorStore: vs,
		GraphStore:  gs,
		Extractor:   extract.NewExtractor(extract.NewExtractorParams{AIClient: aiClient}),
		Loaders: map[loader.FileType]loader.FileLoader{
			loader.FileTypeDocument: &stringLoader{content: content},
		},
		Collection: "test_collection",
		EmbedDim:   3,
		Parallel:   2,
	})
}

func TestIngestFile_FullPipeline(t *testing.T) {
	client := &fakeAI{completion: `[
		{"source": "Evelyn Reed", "target": "Innovate Dynamics", "relationship": "works at"},
		{"source": "Evelyn Reed", "target": "Project Chimera", "relationship": "leads"}
	]`}
	vs := newMemVectorStore()
	gs := newMemGraphStore()
	o := newTestOrchestrator(client, vs, gs, "Dr. Evelyn Reed works at Innovate Dynamics and leads Project Chimera.")

	res, err := o.IngestFile(context.Background(), loader.File{ID: "1", Path: "report.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.State != StateDone {
		t.Fatalf("expected DONE, got %s", res.State)
	}
	if res.Chunks != 1 {
		t.Fatalf("expected 1 chunk, got %d", res.Chunks)
	}
	if len(vs.records) != 1 {
		t.Fatalf("expected 1 vector record, got %d", len(vs.records))
	}
	if vs.records[0].Payload.SourceFile != "report.txt" {
		t.Fatalf("unexpected source file: %q", vs.records[0].Payload.SourceFile)
	}
	if len(gs.edges) != 2 {
		t.Fatalf("expected 2 graph edges, got %d", len(gs.edges))
	}
	if res.TriplesAdded != 2 {
		t.Fatalf("expected 2 merged triples, got %d", res.TriplesAdded)
	}
}

func TestIngestFile_ReingestDuplicatesVectorsButNotGraph(t *testing.T) {
	client := &fakeAI{completion: `[{"source": "A", "target": "B", "relationship": "knows"}]`}
	vs := newMemVectorStore()
	gs := newMemGraphStore()
	o := newTestOrchestrator(client, vs, gs, "A knows B.")

	file := loader.File{ID: "1", Path: "doc.txt"}
	if _, err := o.IngestFile(context.Background(), file); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}
	if _, err := o.IngestFile(context.Background(), file); err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}

	if len(vs.records) != 2 {
		t.Fatalf("expected 2 vector records after re-ingest, got %d", len(vs.records))
	}
	if vs.records[0].ID == vs.records[1].ID {
		t.Fatal("re-ingested records must use fresh IDs")
	}
	if len(gs.edges) != 1 {
		t.Fatalf("expected graph to stay at 1 edge, got %d", len(gs.edges))
	}
}

func TestIngestFile_UnsupportedExtensionSkipped(t *testing.T) {
	client := &fakeAI{completion: "[]"}
	vs := newMemVectorStore()
	gs := newMemGraphStore()
	o := newTestOrchestrator(client, vs, gs, "irrelevant")

	res, err := o.IngestFile(context.Background(), loader.File{ID: "1", Path: "video.mp4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.State != StateSkipped {
		t.Fatalf("expected SKIPPED, got %s", res.State)
	}
	if len(vs.records) != 0 {
		t.Fatal("skipped files must not produce vector records")
	}
}

func TestIngestFile_EmptyTextSkipped(t *testing.T) {
	client := &fakeAI{completion: "[]"}
	vs := newMemVectorStore()
	gs := newMemGraphStore()
	o := newTestOrchestrator(client, vs, gs, "   \n  ")

	res, err := o.IngestFile(context.Background(), loader.File{ID: "1", Path: "empty.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.State != StateSkipped {
		t.Fatalf("expected SKIPPED, got %s", res.State)
	}
}

func TestIngestFile_GarbageExtractionDoesNotFailDocument(t *testing.T) {
	client := &fakeAI{completion: `{"this": "is not an array"}`}
	vs := newMemVectorStore()
	gs := newMemGraphStore()
	o := newTestOrchestrator(client, vs, gs, "Some text with no extractable facts.")

	res, err := o.IngestFile(context.Background(), loader.File{ID: "1", Path: "noise.txt"})
	if err != nil {
		t.Fatalf("garbage extraction must not fail ingestion: %v", err)
	}
	if res.State != StateDone {
		t.Fatalf("expected DONE, got %s", res.State)
	}
	if len(vs.records) != 1 {
		t.Fatal("vector records must still be written")
	}
	if res.TriplesAdded != 0 {
		t.Fatalf("expected 0 triples, got %d", res.TriplesAdded)
	}
}
