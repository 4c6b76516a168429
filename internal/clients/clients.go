package clients

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"multirag/internal/config"
	"multirag/pkg/ai"
	oai "multirag/pkg/ai/ollama"
	gai "multirag/pkg/ai/openai"
	"multirag/pkg/graphstore"
	neograph "multirag/pkg/graphstore/neo4j"
	"multirag/pkg/logger"
)

// NewAIClient builds the AI client for the configured adapter. The
// process exits when the adapter cannot be constructed; no component can
// run without it.
func NewAIClient(cfg *config.Config) ai.RAGAIClient {
	switch cfg.AIAdapter {
	case "ollama":
		client, err := oai.NewRAGOllamaClient(oai.NewRAGOllamaClientParams{
			EmbeddingModel: cfg.EmbedModel,
			ChatModel:      cfg.ChatModel,
			ImageModel:     cfg.ImageModel,

			BaseURL: cfg.ChatURL,
			ApiKey:  cfg.ChatKey,

			MaxConcurrentRequests: int64(cfg.ParallelAI),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewRAGOpenAIClient(gai.NewRAGOpenAIClientParams{
			EmbeddingModel: cfg.EmbedModel,
			ChatModel:      cfg.ChatModel,
			ImageModel:     cfg.ImageModel,
			AudioModel:     cfg.AudioModel,

			EmbeddingURL: cfg.EmbedURL,
			EmbeddingKey: cfg.EmbedKey,
			ChatURL:      cfg.ChatURL,
			ChatKey:      cfg.ChatKey,
			ImageURL:     cfg.ChatURL,
			ImageKey:     cfg.ChatKey,
			AudioURL:     cfg.ChatURL,
			AudioKey:     cfg.ChatKey,

			MaxConcurrentRequests: int64(cfg.ParallelAI),
		})
	}
}

// NewDBPool connects a pgx pool with pgvector types registered on every
// connection.
func NewDBPool(ctx context.Context, cfg *config.Config) *pgxpool.Pool {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Invalid database URL", "err", err)
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	conn, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}

	return conn
}

// NewGraphStore connects to the configured Neo4j server.
func NewGraphStore(ctx context.Context, cfg *config.Config) graphstore.GraphStore {
	store, err := neograph.NewGraphDBStore(ctx, neograph.NewGraphDBStoreParams{
		URI:      cfg.Neo4jURI,
		Username: cfg.Neo4jUsername,
		Password: cfg.Neo4jPassword,
	})
	if err != nil {
		logger.Fatal("Failed to connect to Neo4j", "err", err)
	}

	return store
}
