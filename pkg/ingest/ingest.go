package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"multirag/pkg/ai"
	"multirag/pkg/chunker"
	"multirag/pkg/extract"
	"multirag/pkg/graphstore"
	"multirag/pkg/loader"
	"multirag/pkg/logger"
	"multirag/pkg/vectorstore"
)

// State tracks how far a document has progressed through the pipeline.
type State string

const (
	StateReceived       State = "RECEIVED"
	StateTextExtracted  State = "TEXT_EXTRACTED"
	StateChunked        State = "CHUNKED"
	StateVectorUpserted State = "VECTOR_UPSERTED"
	StateGraphUpdated   State = "GRAPH_UPDATED"
	StateDone           State = "DONE"
	StateSkipped        State = "SKIPPED"
)

// Result summarizes one document's trip through the pipeline.
type Result struct {
	File         string
	State        State
	Chunks       int
	Records      int
	TriplesAdded int
}

// Orchestrator drives the ingestion pipeline: text extraction, chunking,
// embedding, vector upsert and graph extraction. Chunk-level extraction
// failures are isolated so one bad chunk never loses the document.
type Orchestrator struct {
	aiClient    ai.RAGAIClient
	chunker     *chunker.Chunker
	vectorStore vectorstore.VectorStore
	graphStore  graphstore.GraphStore
	extractor   *extract.Extractor
	loaders     map[loader.FileType]loader.FileLoader
	collection  string
	embedDim    int
	parallel    int
}

// NewOrchestratorParams contains configuration for creating an Orchestrator.
type NewOrchestratorParams struct {
	AIClient    ai.RAGAIClient
	Chunker     *chunker.Chunker
	VectorStore vectorstore.VectorStore
	GraphStore  graphstore.GraphStore
	Extractor   *extract.Extractor
	Loaders     map[loader.FileType]loader.FileLoader
	Collection  string
	EmbedDim    int
	Parallel    int
}

// NewOrchestrator creates an Orchestrator. Parallel bounds the concurrent
// per-chunk extraction requests and defaults to 4.
func NewOrchestrator(params NewOrchestratorParams) *Orchestrator {
	parallel := params.Parallel
	if parallel <= 0 {
		parallel = 4
	}
	return &Orchestrator{
		aiClient:    params.AIClient,
		chunker:     params.Chunker,
		vectorStore: params.VectorStore,
		graphStore:  params.GraphStore,
		extractor:   params.Extractor,
		loaders:     params.Loaders,
		collection:  params.Collection,
		embedDim:    params.EmbedDim,
		parallel:    parallel,
	}
}

// IngestFile runs the full pipeline for one file. Unsupported extensions
// are skipped, not failed. Re-ingesting the same file adds fresh vector
// records but leaves the graph unchanged thanks to MERGE semantics.
func (o *Orchestrator) IngestFile(ctx context.Context, file loader.File) (Result, error) {
	res := Result{File: file.Path, State: StateReceived}

	fileType, ok := loader.TypeForExtension(filepath.Ext(file.Path))
	if !ok {
		logger.Info("Skipping unsupported file type", "file", file.Path)
		res.State = StateSkipped
		return res, nil
	}
	file.Type = fileType

	fileLoader := file.Loader
	if fileLoader == nil {
		fileLoader = o.loaders[fileType]
	}
	if fileLoader == nil {
		return res, fmt.Errorf("no loader configured for file type %q", fileType)
	}

	text, err := fileLoader.GetFileBytes(ctx, file)
	if err != nil {
		return res, fmt.Errorf("failed to extract text from %s: %w", file.Path, err)
	}
	res.State = StateTextExtracted

	chunks := o.chunker.Split(string(text))
	if len(chunks) == 0 {
		logger.Info("Skipping file with no extractable text", "file", file.Path)
		res.State = StateSkipped
		return res, nil
	}
	res.State = StateChunked
	res.Chunks = len(chunks)

	if err := o.upsertChunks(ctx, file, chunks, &res); err != nil {
		return res, err
	}
	res.State = StateVectorUpserted

	res.TriplesAdded = o.extractToGraph(ctx, file, chunks)
	res.State = StateGraphUpdated

	res.State = StateDone
	logger.Info("Ingestion complete",
		"file", file.Path,
		"chunks", res.Chunks,
		"records", res.Records,
		"triples", res.TriplesAdded,
	)

	return res, nil
}

// upsertChunks embeds all chunks in one batched call and writes them to
// the vector store under fresh IDs.
func (o *Orchestrator) upsertChunks(ctx context.Context, file loader.File, chunks []string, res *Result) error {
	if err := o.vectorStore.EnsureCollection(ctx, o.collection, o.embedDim); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}

	inputs := make([][]byte, len(chunks))
	for i, c := range chunks {
		inputs[i] = []byte(c)
	}

	embeddings, err := o.aiClient.GenerateEmbeddings(ctx, inputs)
	if err != nil {
		return fmt.Errorf("failed to embed chunks of %s: %w", file.Path, err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch for %s: %d chunks, %d embeddings", file.Path, len(chunks), len(embeddings))
	}

	records := make([]vectorstore.Record, len(chunks))
	for i, c := range chunks {
		records[i] = vectorstore.Record{
			ID:     uuid.New(),
			Vector: embeddings[i],
			Payload: vectorstore.Payload{
				Text:       c,
				SourceFile: filepath.Base(file.Path),
				ChunkIndex: i,
				TokenCount: o.chunker.TokenCount(c),
			},
		}
	}

	if err := o.vectorStore.Upsert(ctx, o.collection, records); err != nil {
		return fmt.Errorf("failed to upsert records for %s: %w", file.Path, err)
	}
	res.Records = len(records)

	return nil
}

// extractToGraph runs triple extraction over all chunks with bounded
// parallelism and merges the results. Each chunk fails independently;
// the document never fails here.
func (o *Orchestrator) extractToGraph(ctx context.Context, file loader.File, chunks []string) int {
	sourceDoc := filepath.Base(file.Path)

	var mu sync.Mutex
	total := 0

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallel)

	for i, chunk := range chunks {
		idx := i
		c := chunk
		g.Go(func() error {
			raw := o.extractor.ExtractTriples(gCtx, c)

			merged, err := graphstore.ApplyExtraction(gCtx, o.graphStore, raw, sourceDoc)
			if err != nil {
				logger.Warn("Skipping graph update for chunk", "file", file.Path, "chunk", idx, "err", err)
				return nil
			}

			mu.Lock()
			total += merged
			mu.Unlock()

			return nil
		})
	}

	// Workers only report, never fail; Wait is for completion.
	_ = g.Wait()

	return total
}
