package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// openAI batch tuning: a high-throughput backend takes large chunks with
// bounded internal concurrency and short pauses between chunks
const (
	openAIDefaultChunkSize   = 20
	openAIDefaultConcurrency = 4
)

// OpenAIAnalyzer analyzes emails through the OpenAI chat-completions API
type OpenAIAnalyzer struct {
	client  *openai.Client
	config  *Config
	batcher *batcher
}

// NewOpenAIAnalyzer creates the OpenAI backend from configuration
func NewOpenAIAnalyzer(config *Config) *OpenAIAnalyzer {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.Endpoint != "" {
		clientConfig.BaseURL = config.Endpoint
	}
	clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}

	chunkSize := config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = openAIDefaultChunkSize
	}
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = openAIDefaultConcurrency
	}

	return &OpenAIAnalyzer{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  config,
		batcher: newBatcher(chunkSize, concurrency, config.BaseDelay, config.MaxDelay),
	}
}

// Name identifies the backend
func (o *OpenAIAnalyzer) Name() string {
	return "openai"
}

// Enabled reports whether the backend performs real analysis
func (o *OpenAIAnalyzer) Enabled() bool {
	return true
}

// AnalyzeEmail runs a single chat completion and parses the JSON reply
func (o *OpenAIAnalyzer) AnalyzeEmail(ctx context.Context, content *EmailContent) (*EmailAnalysis, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.config.Model,
		Temperature: float32(o.config.Temperature),
		MaxTokens:   o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an order-extraction engine for multilingual retail emails. You respond with JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildAnalysisPrompt(content),
			},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("openai: %w: %s", ErrRateLimited, apiErr.Message)
		}
		return nil, fmt.Errorf("openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return parseAnalysisResponse(resp.Choices[0].Message.Content), nil
}

// BatchAnalyzeEmails chunks the batch through the shared batcher
func (o *OpenAIAnalyzer) BatchAnalyzeEmails(ctx context.Context, contents []*EmailContent) map[string]*EmailAnalysis {
	return o.batcher.run(ctx, contents, o.AnalyzeEmail)
}
