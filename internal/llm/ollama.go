package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ollama batch tuning: a local single-GPU backend is slow and easily
// saturated, so chunks are tiny and strictly sequential
const (
	ollamaDefaultChunkSize   = 3
	ollamaDefaultConcurrency = 1
)

// OllamaAnalyzer analyzes emails through a local Ollama instance
type OllamaAnalyzer struct {
	config     *Config
	httpClient *http.Client
	batcher    *batcher
}

// NewOllamaAnalyzer creates the Ollama backend from configuration
func NewOllamaAnalyzer(config *Config) *OllamaAnalyzer {
	chunkSize := config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = ollamaDefaultChunkSize
	}

	return &OllamaAnalyzer{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		batcher:    newBatcher(chunkSize, ollamaDefaultConcurrency, config.BaseDelay, config.MaxDelay),
	}
}

// Name identifies the backend
func (o *OllamaAnalyzer) Name() string {
	return "ollama"
}

// Enabled reports whether the backend performs real analysis
func (o *OllamaAnalyzer) Enabled() bool {
	return true
}

// AnalyzeEmail calls the Ollama generate API and parses the JSON reply
func (o *OllamaAnalyzer) AnalyzeEmail(ctx context.Context, content *EmailContent) (*EmailAnalysis, error) {
	response, err := o.generate(ctx, buildAnalysisPrompt(content))
	if err != nil {
		return nil, err
	}
	return parseAnalysisResponse(response), nil
}

// BatchAnalyzeEmails chunks the batch through the shared batcher
func (o *OllamaAnalyzer) BatchAnalyzeEmails(ctx context.Context, contents []*EmailContent) map[string]*EmailAnalysis {
	return o.batcher.run(ctx, contents, o.AnalyzeEmail)
}

// generate performs one completion against the Ollama endpoint
func (o *OllamaAnalyzer) generate(ctx context.Context, prompt string) (string, error) {
	requestBody := map[string]interface{}{
		"model":       o.config.Model,
		"prompt":      prompt,
		"stream":      false,
		"temperature": o.config.Temperature,
		"max_tokens":  o.config.MaxTokens,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.config.Endpoint+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("ollama: %w", ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var ollamaResp struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return ollamaResp.Response, nil
}
