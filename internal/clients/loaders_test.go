package clients

import (
	"context"
	"testing"

	"multirag/internal/config"
	"multirag/pkg/loader"
	loaderio "multirag/pkg/loader/io"
	loaders3 "multirag/pkg/loader/s3"
)

func TestNewByteLoader_DefaultsToDisk(t *testing.T) {
	l := NewByteLoader(context.Background(), &config.Config{})
	if _, ok := l.(*loaderio.IOFileLoader); !ok {
		t.Fatalf("expected filesystem loader by default, got %T", l)
	}
}

func TestNewByteLoader_S3Source(t *testing.T) {
	cfg := &config.Config{
		FileSource:  "s3",
		S3Bucket:    "ingest-staging",
		S3Region:    "eu-central-1",
		S3AccessKey: "access",
		S3SecretKey: "secret",
	}

	l := NewByteLoader(context.Background(), cfg)
	if _, ok := l.(*loaders3.S3FileLoader); !ok {
		t.Fatalf("expected S3 loader for FILE_SOURCE=s3, got %T", l)
	}
}

func TestNewLoaders_CoversAllFileTypes(t *testing.T) {
	loaders := NewLoaders(context.Background(), &config.Config{}, nil)

	for _, ft := range []loader.FileType{
		loader.FileTypeDocument,
		loader.FileTypeImage,
		loader.FileTypeAudio,
	} {
		if loaders[ft] == nil {
			t.Fatalf("no loader wired for file type %q", ft)
		}
	}
}
