package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"multirag/internal/clients"
	"multirag/internal/config"
	"multirag/internal/db"
	"multirag/internal/util"
	"multirag/pkg/chunker"
	"multirag/pkg/extract"
	"multirag/pkg/ingest"
	"multirag/pkg/loader"
	"multirag/pkg/logger"
	"multirag/pkg/logger/console"
	vectorpgx "multirag/pkg/vectorstore/pgx"

	gonanoid "github.com/matoous/go-nanoid/v2"

	_ "github.com/lib/pq"
)

// Synchronous one-shot ingestion of local files, bypassing the queue.
// Useful for seeding a fresh deployment or local experimentation.
func main() {
	util.LoadEnv()

	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: *debug || util.GetEnvBool("DEBUG", false),
	})
	logger.Init(consoleLogger)

	files := flag.Args()
	if len(files) == 0 {
		logger.Fatal("Usage: ingest [-debug] <file> [file ...]")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(cfg.DatabaseURL, "migrations"); err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	aiClient := clients.NewAIClient(cfg)

	pgConn := clients.NewDBPool(ctx, cfg)
	defer pgConn.Close()

	graphStore := clients.NewGraphStore(ctx, cfg)
	defer graphStore.Close(context.Background())

	orchestrator := ingest.NewOrchestrator(ingest.NewOrchestratorParams{
		AIClient:    aiClient,
		Chunker:     chunker.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		VectorStore: vectorpgx.NewVectorDBStoreWithConnection(pgConn),
		GraphStore:  graphStore,
		Extractor: extract.NewExtractor(extract.NewExtractorParams{
			AIClient: aiClient,
			Model:    cfg.ExtractModel,
			Retries:  cfg.MaxRetries,
		}),
		Loaders:    clients.NewLoaders(ctx, cfg, aiClient),
		Collection: cfg.Collection,
		EmbedDim:   cfg.EmbedDim,
		Parallel:   cfg.ParallelAI,
	})

	failed := 0
	for _, path := range files {
		id, err := gonanoid.New()
		if err != nil {
			logger.Fatal("Failed to generate file ID", "err", err)
		}

		res, err := orchestrator.IngestFile(ctx, loader.File{ID: id, Path: path})
		if err != nil {
			logger.Error("Ingestion failed", "file", path, "err", err)
			failed++
			continue
		}

		logger.Info("Ingested file",
			"file", path,
			"state", res.State,
			"chunks", res.Chunks,
			"triples", res.TriplesAdded,
		)
	}

	if failed > 0 {
		logger.Fatal("Some files failed to ingest", "failed", failed, "total", len(files))
	}
}
