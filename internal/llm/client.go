package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrRateLimited marks a backend failure caused by rate limiting; the
// batcher backs off instead of abandoning the backend
var ErrRateLimited = errors.New("llm backend rate limited")

// Analyzer is the uniform contract over interchangeable LLM backends.
// Callers are backend-agnostic; the backend is a configuration-time choice.
type Analyzer interface {
	// Name identifies the backend ("openai", "ollama", "disabled")
	Name() string

	// AnalyzeEmail analyzes a single email. Errors are returned for the
	// caller's fallback logic but a degraded analysis is always usable.
	AnalyzeEmail(ctx context.Context, content *EmailContent) (*EmailAnalysis, error)

	// BatchAnalyzeEmails analyzes a batch, chunked with adaptive inter-chunk
	// delay. A single email's failure degrades only its own entry; the
	// returned map always has one entry per input id.
	BatchAnalyzeEmails(ctx context.Context, contents []*EmailContent) map[string]*EmailAnalysis

	// Enabled reports whether the backend performs real analysis
	Enabled() bool
}

// EmailContent is the analysis input for one email
type EmailContent struct {
	ID      string
	Subject string
	From    string
	Body    string

	// Fields restricts the extraction to the named record fields. Empty
	// means full extraction; the hybrid path sets it to the gaps the regex
	// pass left open.
	Fields []string
}

// EmailAnalysis is the backend response. Wire casing follows the provider
// contract (camelCase), not our internal record shape.
type EmailAnalysis struct {
	IsOrder   bool       `json:"isOrder"`
	OrderData *OrderData `json:"orderData,omitempty"`
	DebugInfo *DebugInfo `json:"debugInfo,omitempty"`
}

// OrderData carries the extracted order fields in provider-native casing
type OrderData struct {
	OrderNumber       string          `json:"orderNumber,omitempty"`
	Retailer          string          `json:"retailer,omitempty"`
	Amount            *float64        `json:"amount,omitempty"`
	Currency          string          `json:"currency,omitempty"`
	OrderDate         string          `json:"orderDate,omitempty"`
	Status            string          `json:"status,omitempty"`
	EstimatedDelivery string          `json:"estimatedDelivery,omitempty"`
	TrackingNumber    string          `json:"trackingNumber,omitempty"`
	Carrier           string          `json:"carrier,omitempty"`
	Items             []OrderItemData `json:"items,omitempty"`
	Confidence        float64         `json:"confidence"`
}

// OrderItemData is one line item on the wire
type OrderItemData struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// DebugInfo carries backend diagnostics alongside the analysis
type DebugInfo struct {
	Language  string `json:"language,omitempty"`
	EmailType string `json:"emailType,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Config selects and tunes a backend
type Config struct {
	Provider    string        // "openai", "ollama", "disabled"
	Model       string
	APIKey      string
	Endpoint    string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	ChunkSize   int
	Concurrency int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Enabled     bool
}

// DefaultConfig returns a disabled configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    "disabled",
		MaxTokens:   1000,
		Temperature: 0.1,
		Timeout:     120 * time.Second,
		ChunkSize:   3,
		Concurrency: 1,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// NewAnalyzer creates the configured backend. Backends are constructed
// explicitly at startup, never lazily on first use.
func NewAnalyzer(config *Config) Analyzer {
	if config == nil || !config.Enabled {
		return NewDisabledAnalyzer()
	}

	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIAnalyzer(config)
	case "ollama":
		return NewOllamaAnalyzer(config)
	default:
		return NewDisabledAnalyzer()
	}
}

// degraded builds the analysis used when a backend call fails: never nil,
// never an order
func degraded(err error) *EmailAnalysis {
	return &EmailAnalysis{
		IsOrder:   false,
		DebugInfo: &DebugInfo{Error: err.Error()},
	}
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// parseAnalysisResponse parses a backend reply leniently: markdown fences
// are stripped and the first JSON object is taken. Malformed output
// degrades to a non-order analysis instead of an error so that garbage from
// the model never propagates past the adapter boundary.
func parseAnalysisResponse(raw string) *EmailAnalysis {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	match := jsonObjectRe.FindString(cleaned)
	if match == "" {
		return degraded(fmt.Errorf("no JSON object in response"))
	}

	var analysis EmailAnalysis
	if err := json.Unmarshal([]byte(match), &analysis); err != nil {
		return degraded(fmt.Errorf("unparseable response: %w", err))
	}

	if analysis.OrderData != nil {
		sanitizeOrderData(analysis.OrderData)
	}
	return &analysis
}

// sanitizeOrderData enforces the record invariants on model output: amounts
// are non-negative, confidence lives in [0,1], items have positive quantity
func sanitizeOrderData(data *OrderData) {
	if data.Amount != nil && *data.Amount < 0 {
		data.Amount = nil
	}
	if data.Confidence < 0 {
		data.Confidence = 0
	}
	if data.Confidence > 1 {
		data.Confidence = 1
	}

	items := data.Items[:0]
	for _, item := range data.Items {
		if item.Name == "" || item.Quantity <= 0 || item.Price < 0 {
			continue
		}
		items = append(items, item)
	}
	data.Items = items
}

// isRateLimitSignal detects rate limiting from an error regardless of
// backend: sentinel, HTTP 429, or provider message
func isRateLimitSignal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests")
}
