package llm

import (
	"context"
	"errors"
)

// ErrDisabled is returned by the disabled backend so callers take their
// regex fallback path
var ErrDisabled = errors.New("llm backend disabled")

// DisabledAnalyzer is the no-operation backend used when no provider is
// configured
type DisabledAnalyzer struct{}

// NewDisabledAnalyzer creates a no-op backend
func NewDisabledAnalyzer() *DisabledAnalyzer {
	return &DisabledAnalyzer{}
}

// Name identifies the backend
func (d *DisabledAnalyzer) Name() string {
	return "disabled"
}

// Enabled returns false
func (d *DisabledAnalyzer) Enabled() bool {
	return false
}

// AnalyzeEmail fails immediately; the router falls back to regex results
func (d *DisabledAnalyzer) AnalyzeEmail(ctx context.Context, content *EmailContent) (*EmailAnalysis, error) {
	return nil, ErrDisabled
}

// BatchAnalyzeEmails degrades every entry
func (d *DisabledAnalyzer) BatchAnalyzeEmails(ctx context.Context, contents []*EmailContent) map[string]*EmailAnalysis {
	results := make(map[string]*EmailAnalysis, len(contents))
	for i, content := range contents {
		results[keyFor(content, i)] = degraded(ErrDisabled)
	}
	return results
}
