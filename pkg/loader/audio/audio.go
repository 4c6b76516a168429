package audio

import (
	"context"

	"multirag/pkg/ai"
	"multirag/pkg/loader"
)

// AudioLoader loads audio files and transcribes them to text using an AI client.
type AudioLoader struct {
	aiClient ai.RAGAIClient
	loader   loader.FileLoader
}

// NewAudioLoaderParams contains configuration for creating an AudioLoader.
type NewAudioLoaderParams struct {
	AIClient ai.RAGAIClient
	Loader   loader.FileLoader
}

// NewAudioLoader creates a new loader that transcribes audio files to text.
func NewAudioLoader(params NewAudioLoaderParams) *AudioLoader {
	return &AudioLoader{
		aiClient: params.AIClient,
		loader:   params.Loader,
	}
}

// GetFileBytes reads the audio file and returns its transcription as text.
func (l *AudioLoader) GetFileBytes(ctx context.Context, file loader.File) ([]byte, error) {
	rawAudio, err := l.loader.GetFileBytes(ctx, file)
	if err != nil {
		return nil, err
	}

	text, err := l.aiClient.GenerateAudioTranscription(ctx, rawAudio, "")
	if err != nil {
		return nil, err
	}

	return []byte(text), nil
}

// GetBase64 returns the raw audio file encoded as base64.
func (l *AudioLoader) GetBase64(ctx context.Context, file loader.File) (loader.Base64, error) {
	return l.loader.GetBase64(ctx, file)
}
