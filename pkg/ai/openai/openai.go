package openai

import (
	"sync"

	"multirag/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

const defaultTimeoutMin = 5

// RAGOpenAIClient implements ai.RAGAIClient against OpenAI-compatible APIs.
// It manages separate clients for embeddings, chat, vision and audio so
// each concern can point at a different endpoint and key.
type RAGOpenAIClient struct {
	embeddingModel string
	chatModel      string
	imageModel     string
	audioModel     string

	chatURL string

	timeoutMin    int
	embeddingLock *semaphore.Weighted
	imageLock     *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
	ImageClient     *openai.Client
	AudioClient     *openai.Client
}

// NewRAGOpenAIClientParams defines the configuration parameters for
// creating a new RAGOpenAIClient. Empty endpoint URLs fall back to the
// public OpenAI API; an empty key disables the corresponding client.
type NewRAGOpenAIClientParams struct {
	EmbeddingModel string
	ChatModel      string
	ImageModel     string
	AudioModel     string

	EmbeddingURL string
	EmbeddingKey string
	ChatURL      string
	ChatKey      string
	ImageURL     string
	ImageKey     string
	AudioURL     string
	AudioKey     string

	MaxConcurrentRequests int64
	TimeoutMin            int
}

// NewRAGOpenAIClient creates a new client configured with the provided
// parameters.
func NewRAGOpenAIClient(
	params NewRAGOpenAIClientParams,
) *RAGOpenAIClient {
	chatClient := newOpenaiClient(params.ChatURL, params.ChatKey)
	embedClient := newOpenaiClient(params.EmbeddingURL, params.EmbeddingKey)
	imageClient := newOpenaiClient(params.ImageURL, params.ImageKey)
	audioClient := newOpenaiClient(params.AudioURL, params.AudioKey)

	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = 4
	}
	timeoutMin := params.TimeoutMin
	if timeoutMin <= 0 {
		timeoutMin = defaultTimeoutMin
	}

	return &RAGOpenAIClient{
		embeddingModel: params.EmbeddingModel,
		chatModel:      params.ChatModel,
		imageModel:     params.ImageModel,
		audioModel:     params.AudioModel,

		chatURL: params.ChatURL,

		timeoutMin:    timeoutMin,
		embeddingLock: semaphore.NewWeighted(maxReq),
		imageLock:     semaphore.NewWeighted(maxReq),

		metricsLock: sync.Mutex{},
		metrics:     ai.ModelMetrics{},

		ChatClient:      chatClient,
		EmbeddingClient: embedClient,
		ImageClient:     imageClient,
		AudioClient:     audioClient,
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
