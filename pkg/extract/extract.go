package extract

import (
	"context"
	"fmt"

	"multirag/internal/util"
	"multirag/pkg/ai"
	"multirag/pkg/logger"
)

// Extractor turns raw text chunks into knowledge graph triples by
// prompting a chat model.
type Extractor struct {
	aiClient ai.RAGAIClient
	model    string
	retries  int
}

// NewExtractorParams contains configuration for creating an Extractor.
type NewExtractorParams struct {
	AIClient ai.RAGAIClient
	Model    string
	Retries  int
}

// NewExtractor creates an Extractor that uses the given chat model for
// triple extraction. An empty model falls back to the client default;
// Retries <= 0 means a single attempt.
func NewExtractor(params NewExtractorParams) *Extractor {
	return &Extractor{
		aiClient: params.AIClient,
		model:    params.Model,
		retries:  params.Retries,
	}
}

// ExtractTriples asks the model for the subject-predicate-object facts in
// a text chunk and returns the raw JSON response. Transient model failures
// are retried; once attempts are exhausted the result degrades to an empty
// array so ingestion can continue without graph facts for that chunk.
func (e *Extractor) ExtractTriples(ctx context.Context, chunk string) string {
	prompt := fmt.Sprintf(ai.ExtractPrompt, chunk)

	opts := []ai.GenerateOption{}
	if e.model != "" {
		opts = append(opts, ai.WithModel(e.model))
	}

	response, err := util.RetryWithContext(ctx, e.retries, func(ctx context.Context) (string, error) {
		return e.aiClient.GenerateCompletion(ctx, prompt, opts...)
	})
	if err != nil {
		logger.Warn("Triple extraction failed, continuing without graph facts", "err", err)
		return "[]"
	}

	return response
}
