package config

import (
	"multirag/internal/util"
	"multirag/pkg/logger"
)

// Config holds all runtime configuration resolved from the process
// environment. Connection settings for the vector store, the graph store
// and the AI services are required; everything else has defaults.
type Config struct {
	// Stores
	DatabaseURL   string
	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string

	// AI services
	AIAdapter    string
	EmbedModel   string
	ChatModel    string
	ExtractModel string
	ImageModel   string
	AudioModel   string
	EmbedURL     string
	EmbedKey     string
	ChatURL      string
	ChatKey      string
	EmbedDim     int
	Temperature  float64

	// Ingestion
	Collection   string
	ChunkSize    int
	ChunkOverlap int
	ParallelAI   int
	MaxRetries   int

	// File source. "disk" reads ingestion paths from the local
	// filesystem; "s3" treats them as object keys in the configured
	// bucket, for deployments where the API and the worker do not share
	// a volume.
	FileSource  string
	S3Bucket    string
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string

	// Server
	Port         string
	MasterAPIKey string
	UploadDir    string

	// Queue
	RabbitUser     string
	RabbitPassword string
	RabbitHost     string
	RabbitPort     string
}

// Load resolves the configuration from the environment. Missing required
// values terminate the process, per the startup-fatal configuration error
// contract.
func Load() *Config {
	cfg := &Config{
		DatabaseURL:   requireEnv("DATABASE_URL"),
		Neo4jURI:      requireEnv("NEO4J_URI"),
		Neo4jUsername: requireEnv("NEO4J_USERNAME"),
		Neo4jPassword: requireEnv("NEO4J_PASSWORD"),

		AIAdapter:    util.GetEnvString("AI_ADAPTER", "openai"),
		EmbedModel:   requireEnv("AI_EMBED_MODEL"),
		ChatModel:    requireEnv("AI_CHAT_MODEL"),
		ExtractModel: util.GetEnvString("AI_EXTRACT_MODEL", util.GetEnv("AI_CHAT_MODEL")),
		ImageModel:   util.GetEnv("AI_IMAGE_MODEL"),
		AudioModel:   util.GetEnv("AI_AUDIO_MODEL"),
		EmbedURL:     util.GetEnv("AI_EMBED_URL"),
		EmbedKey:     util.GetEnv("AI_EMBED_KEY"),
		ChatURL:      util.GetEnv("AI_CHAT_URL"),
		ChatKey:      requireEnv("AI_CHAT_KEY"),
		EmbedDim:     int(util.GetEnvNumeric("AI_EMBED_DIM", 3072)),
		Temperature:  util.GetEnvNumeric("AI_TEMPERATURE", 0),

		Collection:   util.GetEnvString("COLLECTION", "multimodal_rag"),
		ChunkSize:    int(util.GetEnvNumeric("CHUNK_SIZE", 1000)),
		ChunkOverlap: int(util.GetEnvNumeric("CHUNK_OVERLAP", 100)),
		ParallelAI:   int(util.GetEnvNumeric("AI_PARALLEL_REQUESTS", 4)),
		MaxRetries:   int(util.GetEnvNumeric("AI_MAX_RETRIES", 3)),

		FileSource:  util.GetEnvString("FILE_SOURCE", "disk"),
		S3Bucket:    util.GetEnv("S3_BUCKET"),
		S3Endpoint:  util.GetEnv("S3_ENDPOINT"),
		S3Region:    util.GetEnvString("S3_REGION", "us-east-1"),
		S3AccessKey: util.GetEnv("S3_ACCESS_KEY"),
		S3SecretKey: util.GetEnv("S3_SECRET_KEY"),

		Port:         util.GetEnvString("PORT", "8080"),
		MasterAPIKey: util.GetEnv("MASTER_API_KEY"),
		UploadDir:    util.GetEnvString("UPLOAD_DIR", "temp_uploads"),

		RabbitUser:     util.GetEnv("RABBITMQ_USER"),
		RabbitPassword: util.GetEnv("RABBITMQ_PASSWORD"),
		RabbitHost:     util.GetEnv("RABBITMQ_HOST"),
		RabbitPort:     util.GetEnvString("RABBITMQ_PORT", "5672"),
	}

	if cfg.EmbedKey == "" {
		cfg.EmbedKey = cfg.ChatKey
	}

	return cfg
}

func requireEnv(key string) string {
	value := util.GetEnv(key)
	if value == "" {
		logger.Fatal("Missing required environment variable", "key", key)
	}
	return value
}
