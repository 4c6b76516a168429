package retrieve

import (
	"context"
	"fmt"
	"strings"

	"multirag/pkg/ai"
	"multirag/pkg/logger"
)

// TranslateToCypher converts a natural-language question into a Cypher
// query using the chat model. The graph schema and worked examples ride as
// the system prompt, the question as the user message. Code fences the
// model wraps around the query are stripped. A translation failure returns
// an empty query so the graph leg of retrieval is skipped instead of
// failing the request.
func TranslateToCypher(ctx context.Context, aiClient ai.RAGAIClient, question string, opts ...ai.GenerateOption) string {
	prompt := fmt.Sprintf(ai.CypherPrompt, question)
	opts = append(opts, ai.WithSystemPrompts(ai.CypherSystemPrompt))

	response, err := aiClient.GenerateCompletion(ctx, prompt, opts...)
	if err != nil {
		logger.Warn("Cypher translation failed, skipping graph retrieval", "err", err)
		return ""
	}

	return stripCodeFences(response)
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```cypher")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
