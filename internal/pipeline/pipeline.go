package pipeline

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"order-extractor/internal/classifier"
	"order-extractor/internal/email"
	"order-extractor/internal/langdetect"
	"order-extractor/internal/llm"
	"order-extractor/internal/retailers"
)

// ErrEmptyRegistry is the only error the pipeline propagates: without
// extractors the orchestration itself is misconfigured
var ErrEmptyRegistry = errors.New("retailer registry is empty")

// Thresholds are the tunable routing constants. A regex result at or above
// High is accepted as-is; between Low and High the LLM fills the gaps; below
// Low the LLM leads.
type Thresholds struct {
	High float64
	Low  float64
}

// DefaultThresholds returns the production routing constants
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.8, Low: 0.7}
}

// Pipeline orchestrates classification, pattern extraction, threshold
// routing, LLM fallback and merging for one email at a time
type Pipeline struct {
	registry   *retailers.Registry
	classifier *classifier.Classifier
	analyzer   llm.Analyzer
	thresholds Thresholds
	debug      bool
}

// New constructs a pipeline. The registry must be fully populated before
// this call; it is treated as immutable afterwards.
func New(registry *retailers.Registry, detector *langdetect.Detector, analyzer llm.Analyzer, thresholds Thresholds, debug bool) (*Pipeline, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, ErrEmptyRegistry
	}
	if analyzer == nil {
		analyzer = llm.NewDisabledAnalyzer()
	}
	return &Pipeline{
		registry:   registry,
		classifier: classifier.New(registry, detector),
		analyzer:   analyzer,
		thresholds: thresholds,
		debug:      debug,
	}, nil
}

// ClassifyAndExtract runs the full hybrid pipeline for one email
func (p *Pipeline) ClassifyAndExtract(ctx context.Context, msg *email.EmailMessage) *email.RoutingResult {
	start := time.Now()

	cls := p.classifier.Classify(msg)
	if !cls.IsPotentialOrder {
		return p.finish(start, &email.RoutingResult{
			Outcome: email.OutcomeNotAnOrder,
			Trace:   email.RoutingTrace{Classification: cls},
		})
	}

	state := p.prepare(msg, cls)

	switch state.decision {
	case decisionAcceptRegex:
		return p.finish(start, p.acceptRegex(state))
	case decisionHybrid:
		analysis, err := p.analyzer.AnalyzeEmail(ctx, state.content(missingFields(state.attempt)))
		return p.finish(start, p.resolveHybrid(state, analysis, err))
	default:
		analysis, err := p.analyzer.AnalyzeEmail(ctx, state.content(nil))
		return p.finish(start, p.resolveAILed(state, analysis, err))
	}
}

// ClassifyAndExtractBatch processes a batch. Classification and pattern
// extraction run synchronously per email; every email that needs the LLM is
// collected into one backend batch call so the adapter's chunking and
// backoff apply across the whole scan. Results align index-wise with the
// input.
func (p *Pipeline) ClassifyAndExtractBatch(ctx context.Context, msgs []*email.EmailMessage) []*email.RoutingResult {
	starts := make([]time.Time, len(msgs))
	results := make([]*email.RoutingResult, len(msgs))
	states := make([]*emailState, len(msgs))

	var contents []*llm.EmailContent

	for i, msg := range msgs {
		starts[i] = time.Now()

		cls := p.classifier.Classify(msg)
		if !cls.IsPotentialOrder {
			results[i] = p.finish(starts[i], &email.RoutingResult{
				Outcome: email.OutcomeNotAnOrder,
				Trace:   email.RoutingTrace{Classification: cls},
			})
			continue
		}

		state := p.prepare(msg, cls)
		if state.decision == decisionAcceptRegex {
			results[i] = p.finish(starts[i], p.acceptRegex(state))
			continue
		}

		state.batchKey = batchKey(msg, i)
		states[i] = state
		if state.decision == decisionHybrid {
			contents = append(contents, state.content(missingFields(state.attempt)))
		} else {
			contents = append(contents, state.content(nil))
		}
	}

	var analyses map[string]*llm.EmailAnalysis
	if len(contents) > 0 {
		analyses = p.analyzer.BatchAnalyzeEmails(ctx, contents)
	}

	for i, state := range states {
		if state == nil {
			continue
		}

		analysis := analyses[state.batchKey]
		var err error
		if analysis == nil {
			err = errors.New("no analysis returned for email")
		} else if analysis.DebugInfo != nil && analysis.DebugInfo.Error != "" {
			err = errors.New(analysis.DebugInfo.Error)
			analysis = nil
		}

		if state.decision == decisionHybrid {
			results[i] = p.finish(starts[i], p.resolveHybrid(state, analysis, err))
		} else {
			results[i] = p.finish(starts[i], p.resolveAILed(state, analysis, err))
		}
	}

	return results
}

type decision int

const (
	decisionAcceptRegex decision = iota
	decisionHybrid
	decisionAILed
)

// emailState carries one email through the routing stages
type emailState struct {
	msg       *email.EmailMessage
	cls       email.ClassificationResult
	extractor retailers.Extractor
	attempt   *email.ExtractionAttempt
	decision  decision
	batchKey  string
}

// prepare runs extractor selection, the regex attempt and the threshold
// decision for a classified email
func (p *Pipeline) prepare(msg *email.EmailMessage, cls email.ClassificationResult) *emailState {
	state := &emailState{msg: msg, cls: cls}

	state.extractor = p.registry.FindExtractor(msg, cls.Language)
	if state.extractor != nil {
		text := msg.Subject + "\n" + bodyOf(msg)
		state.attempt = state.extractor.Extract(text, state.extractor.Name(), cls.Language)
		if state.attempt.Record != nil {
			state.attempt.Record.OrderDate = msg.Date.Format("2006-01-02")
		}
	}

	confR := 0.0
	if state.attempt != nil {
		confR = state.attempt.Confidence
	}

	switch {
	case state.extractor != nil && confR >= p.thresholds.High:
		state.decision = decisionAcceptRegex
	case state.extractor != nil && confR >= p.thresholds.Low:
		state.decision = decisionHybrid
	default:
		// No extractor, or a weak regex result: the LLM leads
		state.decision = decisionAILed
	}

	if p.debug {
		log.Printf("routing %q: lang=%s regex_confidence=%.2f decision=%d", msg.Subject, cls.Language, confR, state.decision)
	}

	return state
}

// content builds the backend input for this email
func (s *emailState) content(fields []string) *llm.EmailContent {
	return &llm.EmailContent{
		ID:      s.batchKey,
		Subject: s.msg.Subject,
		From:    s.msg.From,
		Body:    bodyOf(s.msg),
		Fields:  fields,
	}
}

// finish stamps the processing time and enforces the result invariants
func (p *Pipeline) finish(start time.Time, result *email.RoutingResult) *email.RoutingResult {
	result.ProcessingTimeMs = time.Since(start).Milliseconds()

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	if result.Record != nil {
		result.Record.Confidence = result.Confidence
		if result.Confidence > 0 && result.Record.Retailer == "" {
			result.Record.Retailer = "unknown"
		}
	}

	return result
}

// bodyOf prefers plain text and falls back to the HTML body
func bodyOf(msg *email.EmailMessage) string {
	if msg.TextBody != "" {
		return msg.TextBody
	}
	return msg.HTMLBody
}

// batchKey derives the analysis map key for a message, unique within one
// batch even when message ids are absent
func batchKey(msg *email.EmailMessage, index int) string {
	if msg.ID != "" {
		return msg.ID
	}
	return "batch-" + strconv.Itoa(index)
}
