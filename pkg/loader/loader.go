package loader

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// FileType classifies a source file by the kind of text extraction it needs.
type FileType string

const (
	FileTypeDocument FileType = "document"
	FileTypeImage    FileType = "image"
	FileTypeAudio    FileType = "audio"
)

// Base64 is a base64-encoded file payload together with its data-URL MIME
// prefix, as expected by vision model APIs.
type Base64 struct {
	Base64   string `json:"base64"`
	FileType string `json:"file_type"`
}

// File represents a source file scheduled for ingestion. The raw bytes are
// retrieved through the associated FileLoader, so the same File works for
// local disk and object storage sources.
type File struct {
	ID     string
	Path   string
	Type   FileType
	Loader FileLoader
}

// FileLoader retrieves the raw content of a file from its backing store.
type FileLoader interface {
	GetFileBytes(ctx context.Context, file File) ([]byte, error)
	GetBase64(ctx context.Context, file File) (Base64, error)
}

// CacheKey returns the cache identity of a file for loaders that memoize
// fetched content.
func CacheKey(file File) string {
	return file.ID + ":" + file.Path
}

// Base64Prefix returns the data-URL prefix for a file path based on its
// extension, falling back to application/octet-stream.
func Base64Prefix(filePath string) string {
	ext := filepath.Ext(filePath)
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,", mimeType)
}

// TypeForExtension maps a file extension to its FileType. The bool result
// is false for extensions outside the supported set.
func TypeForExtension(ext string) (FileType, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "pdf", "txt":
		return FileTypeDocument, true
	case "jpg", "jpeg", "png":
		return FileTypeImage, true
	case "mp3", "wav":
		return FileTypeAudio, true
	default:
		return "", false
	}
}
