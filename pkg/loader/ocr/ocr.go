package ocr

import (
	"context"
	"sync"

	"multirag/pkg/ai"
	"multirag/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// OCRLoader extracts text from images using an AI vision model. Results
// are cached per file.
type OCRLoader struct {
	loader   loader.FileLoader
	aiClient ai.RAGAIClient

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewOCRLoaderParams contains configuration for creating an OCRLoader.
type NewOCRLoaderParams struct {
	Loader   loader.FileLoader
	AIClient ai.RAGAIClient
}

// NewOCRLoader creates a new OCR loader that extracts text from images using AI.
func NewOCRLoader(params NewOCRLoaderParams) *OCRLoader {
	return &OCRLoader{
		loader:   params.Loader,
		aiClient: params.AIClient,
		cache:    make(map[string][]byte),
	}
}

// GetFileBytes loads an image file and returns the transcribed text.
func (l *OCRLoader) GetFileBytes(ctx context.Context, file loader.File) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		b64, err := l.loader.GetBase64(ctx, file)
		if err != nil {
			return nil, err
		}

		desc, err := l.aiClient.GenerateImageDescription(ctx, ai.TranscribePrompt, b64)
		if err != nil {
			return nil, err
		}

		output := []byte(desc)

		l.cacheMu.Lock()
		l.cache[key] = output
		l.cacheMu.Unlock()

		return output, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// GetBase64 returns the underlying image encoded as base64.
func (l *OCRLoader) GetBase64(ctx context.Context, file loader.File) (loader.Base64, error) {
	return l.loader.GetBase64(ctx, file)
}
