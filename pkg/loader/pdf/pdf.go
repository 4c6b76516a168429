package pdf

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"strings"
	"sync"

	"multirag/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// PDFLoader wraps a byte-level loader and extracts plain text from PDF
// content. Files without a .pdf extension pass through untouched, so the
// loader can front all document types. Extraction results are cached.
type PDFLoader struct {
	loader loader.FileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewPDFLoader creates a PDF loader that extracts text directly from PDF content.
func NewPDFLoader(l loader.FileLoader) *PDFLoader {
	return &PDFLoader{
		loader: l,
		cache:  make(map[string][]byte),
	}
}

// GetFileBytes returns the extracted plain text of a PDF file.
func (l *PDFLoader) GetFileBytes(ctx context.Context, file loader.File) ([]byte, error) {
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

		content, err := l.loader.GetFileBytes(ctx, file)
		if err != nil {
			return nil, err
		}

		if !strings.EqualFold(filepath.Ext(file.Path), ".pdf") {
			return content, nil
		}

		text, err := parsePDF(content)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = text
		l.cacheMu.Unlock()

		return text, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// GetBase64 returns the raw PDF encoded as base64.
func (l *PDFLoader) GetBase64(ctx context.Context, file loader.File) (loader.Base64, error) {
	content, err := l.loader.GetFileBytes(ctx, file)
	if err != nil {
		return loader.Base64{}, err
	}

	return loader.Base64{
		Base64:   base64.StdEncoding.EncodeToString(content),
		FileType: "data:application/pdf;base64,",
	}, nil
}
