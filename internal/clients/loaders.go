package clients

import (
	"context"

	"multirag/internal/config"
	"multirag/pkg/ai"
	"multirag/pkg/loader"
	"multirag/pkg/loader/audio"
	"multirag/pkg/loader/io"
	"multirag/pkg/loader/ocr"
	"multirag/pkg/loader/pdf"
	"multirag/pkg/loader/s3"
	"multirag/pkg/logger"
)

// NewByteLoader selects the byte source for ingestion files. The default
// reads from local disk; FILE_SOURCE=s3 resolves paths as object keys in
// the configured bucket instead.
func NewByteLoader(ctx context.Context, cfg *config.Config) loader.FileLoader {
	if cfg.FileSource == "s3" {
		l, err := s3.NewS3FileLoader(ctx, s3.NewS3FileLoaderParams{
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			logger.Fatal("Failed to create S3 loader", "err", err)
		}
		return l
	}

	return io.NewIOFileLoader()
}

// NewLoaders wires the per-type text extraction chain over the configured
// byte source: PDFs are parsed, plain text passes through, images go
// through vision OCR and audio is transcribed.
func NewLoaders(ctx context.Context, cfg *config.Config, aiClient ai.RAGAIClient) map[loader.FileType]loader.FileLoader {
	byteLoader := NewByteLoader(ctx, cfg)

	return map[loader.FileType]loader.FileLoader{
		loader.FileTypeDocument: pdf.NewPDFLoader(byteLoader),
		loader.FileTypeImage: ocr.NewOCRLoader(ocr.NewOCRLoaderParams{
			Loader:   byteLoader,
			AIClient: aiClient,
		}),
		loader.FileTypeAudio: audio.NewAudioLoader(audio.NewAudioLoaderParams{
			Loader:   byteLoader,
			AIClient: aiClient,
		}),
	}
}
