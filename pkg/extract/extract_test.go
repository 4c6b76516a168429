package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"multirag/pkg/ai"
	"multirag/pkg/loader"
)

type fakeAI struct {
	response string
	err      error
	failures int
	calls    int
	gotModel string
	prompts  []string
}

func (f *fakeAI) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	options := ai.GenerateOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	f.calls++
	f.gotModel = options.Model
	f.prompts = append(f.prompts, prompt)
	if f.calls <= f.failures {
		return "", errors.New("transient failure")
	}
	return f.response, f.err
}

func (f *fakeAI) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return nil, nil
}

func (f *fakeAI) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	return nil, nil
}

func (f *fakeAI) GenerateImageDescription(ctx context.Context, prompt string, b64 loader.Base64) (string, error) {
	return "", nil
}

func (f *fakeAI) GenerateAudioTranscription(ctx context.Context, audio []byte, language string) (string, error) {
	return "", nil
}

func (f *fakeAI) ResetMetrics() {}
func (f *fakeAI) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

func TestExtractTriples_ReturnsModelResponse(t *testing.T) {
	client := &fakeAI{response: `[{"source": "A", "target": "B", "relationship": "knows"}]`}
	e := NewExtractor(NewExtractorParams{AIClient: client, Model: "extract-model"})

	got := e.ExtractTriples(context.Background(), "A knows B.")
	if got != client.response {
		t.Fatalf("expected model response back, got %q", got)
	}
	if client.gotModel != "extract-model" {
		t.Fatalf("expected model override, got %q", client.gotModel)
	}
	if len(client.prompts) != 1 || !strings.Contains(client.prompts[0], "A knows B.") {
		t.Fatalf("expected chunk embedded in prompt, got %v", client.prompts)
	}
}

func TestExtractTriples_FailureDegradesToEmpty(t *testing.T) {
	client := &fakeAI{err: errors.New("model unavailable")}
	e := NewExtractor(NewExtractorParams{AIClient: client})

	if got := e.ExtractTriples(context.Background(), "some chunk"); got != "[]" {
		t.Fatalf("expected empty array on failure, got %q", got)
	}
}

func TestExtractTriples_RetriesTransientFailures(t *testing.T) {
	client := &fakeAI{
		failures: 2,
		response: `[{"source": "A", "relationship": "KNOWS", "target": "B"}]`,
	}
	e := NewExtractor(NewExtractorParams{AIClient: client, Retries: 3})

	got := e.ExtractTriples(context.Background(), "A knows B.")
	if got != client.response {
		t.Fatalf("expected model response after retries, got %q", got)
	}
	if client.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", client.calls)
	}
}

func TestExtractTriples_RetriesExhaustedDegradeToEmpty(t *testing.T) {
	client := &fakeAI{err: errors.New("model unavailable")}
	e := NewExtractor(NewExtractorParams{AIClient: client, Retries: 2})

	if got := e.ExtractTriples(context.Background(), "some chunk"); got != "[]" {
		t.Fatalf("expected empty array after exhausted retries, got %q", got)
	}
	if client.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", client.calls)
	}
}

func TestExtractTriples_DefaultModel(t *testing.T) {
	client := &fakeAI{response: "[]"}
	e := NewExtractor(NewExtractorParams{AIClient: client})

	e.ExtractTriples(context.Background(), "chunk")
	if client.gotModel != "" {
		t.Fatalf("expected client default model, got %q", client.gotModel)
	}
}
