package answer

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
	prompt   string
	gotModel string
	gotTemp  float64
}

func (f *fakeAI) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	options := ai.GenerateOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	f.gotModel = options.Model
	f.gotTemp = options.Temperature
	f.prompt = prompt
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

func TestAnswer_PromptCarriesQuestionAndContext(t *testing.T) {
	client := &fakeAI{response: "Evelyn Reed leads Project Chimera."}
	g := NewGenerator(NewGeneratorParams{AIClient: client, Model: "chat-model"})

	got := g.Answer(context.Background(), "Who leads Project Chimera?", "Evelyn Reed leads Project Chimera.")
	if got != client.response {
		t.Fatalf("expected model response, got %q", got)
	}
	if !strings.Contains(client.prompt, "Who leads Project Chimera?") {
		t.Fatal("question missing from prompt")
	}
	if !strings.Contains(client.prompt, "Evelyn Reed leads Project Chimera.") {
		t.Fatal("context missing from prompt")
	}
	if client.gotModel != "chat-model" {
		t.Fatalf("expected model override, got %q", client.gotModel)
	}
}

func TestAnswer_TemperatureReachesModel(t *testing.T) {
	client := &fakeAI{response: "ok"}
	g := NewGenerator(NewGeneratorParams{AIClient: client, Temperature: 0.4})

	g.Answer(context.Background(), "anything", "context")
	if client.gotTemp != 0.4 {
		t.Fatalf("expected temperature 0.4, got %v", client.gotTemp)
	}
}

func TestAnswer_FailureReturnsFallback(t *testing.T) {
	client := &fakeAI{err: errors.New("model unavailable")}
	g := NewGenerator(NewGeneratorParams{AIClient: client})

	if got := g.Answer(context.Background(), "anything", "context"); got != ai.AnswerFallback {
		t.Fatalf("expected fallback phrase, got %q", got)
	}
}

func TestAnswer_EmptyContextStillAsksModel(t *testing.T) {
	// With no usable evidence the grounding prompt instructs the model to
	// reply with the fixed insufficiency phrase; generation itself must
	// still run.
	client := &fakeAI{response: "I do not have enough information to answer this question."}
	g := NewGenerator(NewGeneratorParams{AIClient: client})

	got := g.Answer(context.Background(), "Who is the CEO?", "")
	if got != "I do not have enough information to answer this question." {
		t.Fatalf("unexpected answer: %q", got)
	}
	if client.prompt == "" {
		t.Fatal("model was not invoked")
	}
}
