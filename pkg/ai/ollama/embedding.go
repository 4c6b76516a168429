package ollama

import (
	"context"
	"strings"
	"time"

	"multirag/internal/util"
	"multirag/pkg/ai"

	"github.com/ollama/ollama/api"
)

const defaultDimensions = 3072

// GenerateEmbedding creates a vector embedding for the given input text
// using the configured embedding model on Ollama.
func (c *RAGOllamaClient) GenerateEmbedding(
	ctx context.Context,
	input []byte,
) ([]float32, error) {
	dim := int(util.GetEnvNumeric("AI_EMBED_DIM", defaultDimensions))
	if len(input) == 0 || len(strings.TrimSpace(string(input))) == 0 {
		return make([]float32, dim), nil
	}

	rCtx, cancel := context.WithTimeout(ctx, time.Minute*time.Duration(c.timeoutMin))
	defer cancel()

	req := &api.EmbedRequest{
		Model: c.embeddingModel,
		Input: string(input),
	}

	if err := c.reqLock.Acquire(rCtx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	res, err := c.Client.Embed(rCtx, req)
	if err != nil {
		return nil, err
	}

	durationMs := res.TotalDuration.Milliseconds()

	metrics := ai.ModelMetrics{
		InputTokens: res.PromptEvalCount,
		TotalTokens: res.PromptEvalCount,
		DurationMs:  durationMs,
	}
	c.modifyMetrics(metrics)

	out := make([]float32, 0, dim)
	if len(res.Embeddings) > 0 {
		for _, v := range res.Embeddings[0] {
			if len(out) >= dim {
				break
			}
			out = append(out, v)
		}
	}
	if len(out) < dim {
		padded := make([]float32, dim)
		copy(padded, out)
		out = padded
	}

	return out, nil
}

// GenerateEmbeddings creates embeddings for multiple inputs. Ollama's embed
// endpoint is called once per input; the request semaphore bounds actual
// parallelism.
func (c *RAGOllamaClient) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	out := make([][]float32, 0, len(inputs))
	for _, input := range inputs {
		vec, err := c.GenerateEmbedding(ctx, input)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}
