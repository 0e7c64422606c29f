package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestParseAnalysisResponse(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		raw := `{"isOrder": true, "orderData": {"orderNumber": "90817263", "confidence": 0.9}}`
		analysis := parseAnalysisResponse(raw)

		assert.True(t, analysis.IsOrder)
		if assert.NotNil(t, analysis.OrderData) {
			assert.Equal(t, "90817263", analysis.OrderData.OrderNumber)
			assert.InDelta(t, 0.9, analysis.OrderData.Confidence, 0.001)
		}
	})

	t.Run("markdown fenced json", func(t *testing.T) {
		raw := "```json\n{\"isOrder\": true, \"orderData\": {\"orderNumber\": \"123456\", \"confidence\": 0.8}}\n```"
		analysis := parseAnalysisResponse(raw)

		assert.True(t, analysis.IsOrder)
		assert.Equal(t, "123456", analysis.OrderData.OrderNumber)
	})

	t.Run("json surrounded by prose", func(t *testing.T) {
		raw := `Here is my analysis of the email:

{"isOrder": false}

Let me know if you need anything else!`
		analysis := parseAnalysisResponse(raw)
		assert.False(t, analysis.IsOrder)
	})

	t.Run("no json degrades", func(t *testing.T) {
		analysis := parseAnalysisResponse("I could not analyze this email.")
		assert.False(t, analysis.IsOrder)
		if assert.NotNil(t, analysis.DebugInfo) {
			assert.NotEmpty(t, analysis.DebugInfo.Error)
		}
	})

	t.Run("malformed json degrades", func(t *testing.T) {
		analysis := parseAnalysisResponse(`{"isOrder": true, "orderData": {`)
		assert.False(t, analysis.IsOrder)
		assert.NotNil(t, analysis.DebugInfo)
	})

	t.Run("empty response degrades", func(t *testing.T) {
		analysis := parseAnalysisResponse("")
		assert.False(t, analysis.IsOrder)
	})
}

func TestSanitizeOrderData(t *testing.T) {
	negative := -10.0
	data := &OrderData{
		Amount:     &negative,
		Confidence: 1.7,
		Items: []OrderItemData{
			{Name: "USB-C kabel", Quantity: 1, Price: 12.99},
			{Name: "", Quantity: 1, Price: 5.00},
			{Name: "Gratis artikel", Quantity: 0, Price: 0},
			{Name: "Korting", Quantity: 1, Price: -5.00},
		},
	}

	sanitizeOrderData(data)

	assert.Nil(t, data.Amount)
	assert.InDelta(t, 1.0, data.Confidence, 0.001)
	if assert.Len(t, data.Items, 1) {
		assert.Equal(t, "USB-C kabel", data.Items[0].Name)
	}
}

func TestIsRateLimitSignal(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrRateLimited, true},
		{"wrapped sentinel", fmt.Errorf("chunk 2: %w", ErrRateLimited), true},
		{"status code in message", errors.New("unexpected status 429"), true},
		{"provider message", errors.New("Rate limit reached for requests"), true},
		{"too many requests", errors.New("Too Many Requests"), true},
		{"ordinary failure", errors.New("connection refused"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, isRateLimitSignal(tc.err))
		})
	}
}

func TestNewAnalyzerSelection(t *testing.T) {
	assert.Equal(t, "disabled", NewAnalyzer(nil).Name())
	assert.Equal(t, "disabled", NewAnalyzer(DefaultConfig()).Name())

	openaiCfg := DefaultConfig()
	openaiCfg.Provider = "openai"
	openaiCfg.APIKey = "sk-test"
	openaiCfg.Enabled = true
	assert.Equal(t, "openai", NewAnalyzer(openaiCfg).Name())

	ollamaCfg := DefaultConfig()
	ollamaCfg.Provider = "ollama"
	ollamaCfg.Endpoint = "http://localhost:11434"
	ollamaCfg.Enabled = true
	assert.Equal(t, "ollama", NewAnalyzer(ollamaCfg).Name())

	unknownCfg := DefaultConfig()
	unknownCfg.Provider = "something-else"
	unknownCfg.Enabled = true
	assert.Equal(t, "disabled", NewAnalyzer(unknownCfg).Name())
}

func TestDisabledAnalyzer(t *testing.T) {
	analyzer := NewDisabledAnalyzer()
	ctx := context.Background()

	assert.False(t, analyzer.Enabled())

	analysis, err := analyzer.AnalyzeEmail(ctx, &EmailContent{ID: "1"})
	assert.Nil(t, analysis)
	assert.ErrorIs(t, err, ErrDisabled)

	results := analyzer.BatchAnalyzeEmails(ctx, []*EmailContent{{ID: "a"}, {ID: "b"}})
	assert.Len(t, results, 2)
	for id, analysis := range results {
		assert.False(t, analysis.IsOrder, "id %s", id)
		assert.NotNil(t, analysis.DebugInfo)
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	content := &EmailContent{
		ID:      "1",
		Subject: "Je bestelling is onderweg",
		From:    "noreply@coolblue.nl",
		Body:    "Bestelnummer: 90817263",
	}

	prompt := buildAnalysisPrompt(content)
	assert.Contains(t, prompt, "Je bestelling is onderweg")
	assert.Contains(t, prompt, "noreply@coolblue.nl")
	assert.Contains(t, prompt, `"isOrder"`)
	assert.Contains(t, prompt, "YYYY-MM-DD")
	assert.NotContains(t, prompt, "Extract ONLY these fields")

	content.Fields = []string{"estimatedDelivery", "trackingNumber"}
	restricted := buildAnalysisPrompt(content)
	assert.Contains(t, restricted, "Extract ONLY these fields")
	assert.Contains(t, restricted, "estimatedDelivery, trackingNumber")
}

func TestTruncateBodyKeepsValidUTF8(t *testing.T) {
	// A long multi-byte body must be cut on a rune boundary
	body := strings.Repeat("ä", maxPromptBody+500)
	truncated := truncateBody(body)

	assert.True(t, utf8.ValidString(truncated))
	assert.True(t, strings.HasSuffix(truncated, "..."))
	assert.Equal(t, maxPromptBody, len([]rune(truncated))-3)

	short := "Bestelnummer: 90817263"
	assert.Equal(t, short, truncateBody(short))
}
