package answer

import (
	"context"
	"fmt"

	"multirag/pkg/ai"
	"multirag/pkg/logger"
)

// Generator produces the final answer for a question from the fused
// retrieval context, strictly grounded in that context.
type Generator struct {
	aiClient    ai.RAGAIClient
	model       string
	temperature float64
}

// NewGeneratorParams contains configuration for creating a Generator.
type NewGeneratorParams struct {
	AIClient    ai.RAGAIClient
	Model       string
	Temperature float64
}

// NewGenerator creates a Generator. An empty model falls back to the
// client default; temperature 0 keeps answers deterministic.
func NewGenerator(params NewGeneratorParams) *Generator {
	return &Generator{
		aiClient:    params.AIClient,
		model:       params.Model,
		temperature: params.Temperature,
	}
}

// Answer asks the chat model to answer the question using only the given
// context. A generation failure returns the fixed fallback phrase instead
// of an error so callers always have something to show the user.
func (g *Generator) Answer(ctx context.Context, question string, evidence string) string {
	prompt := fmt.Sprintf(ai.AnswerPrompt, question, evidence)

	opts := []ai.GenerateOption{ai.WithTemperature(g.temperature)}
	if g.model != "" {
		opts = append(opts, ai.WithModel(g.model))
	}

	response, err := g.aiClient.GenerateCompletion(ctx, prompt, opts...)
	if err != nil {
		logger.Error("Answer generation failed", "err", err)
		return ai.AnswerFallback
	}

	return response
}
