package classifier

import (
	"strings"

	"order-extractor/internal/email"
	"order-extractor/internal/langdetect"
	"order-extractor/internal/locale"
	"order-extractor/internal/retailers"
)

// maxClassifyLen caps the text examined by the pre-filter; the opening of an
// email is where order vocabulary lives
const maxClassifyLen = 2000

// signalWeight is the per-match confidence contribution of a retail signal
const signalWeight = 0.25

// merchantConfidence is assigned when the sender domain belongs to a
// registered merchant; stronger than any count of generic keywords
const merchantConfidence = 0.9

// Classifier is the cheap keyword pass that rejects obviously non-order mail
// before extraction runs
type Classifier struct {
	registry *retailers.Registry
	detector *langdetect.Detector
}

// New creates a classifier backed by the given registry and detector
func New(registry *retailers.Registry, detector *langdetect.Detector) *Classifier {
	return &Classifier{registry: registry, detector: detector}
}

// Classify decides whether a message is a potential order, with a coarse
// confidence and the detected language
func (c *Classifier) Classify(msg *email.EmailMessage) email.ClassificationResult {
	body := msg.TextBody
	if body == "" {
		body = msg.HTMLBody
	}

	emailText := truncate(msg.Subject+" "+body, maxClassifyLen)
	senderDomain := langdetect.DomainOf(msg.From)
	lang := c.detector.Detect(emailText, senderDomain)
	lower := strings.ToLower(emailText)

	// A registered merchant sender is a stronger signal than any keyword
	// count and bypasses both the reject and signal checks
	if ext := c.registry.FindByDomain(msg.From); ext != nil {
		return email.ClassificationResult{
			IsPotentialOrder: true,
			Confidence:       merchantConfidence,
			Language:         lang,
			MatchedRetailer:  ext.Name(),
			Trace: email.ClassificationTrace{
				AcceptedPatterns: []string{"sender:" + senderDomain},
			},
		}
	}

	terms := locale.ForLanguage(lang)

	// Step A: reject check. Any reject term ends classification immediately.
	var rejected []string
	for _, term := range terms.Reject {
		if strings.Contains(lower, term) {
			rejected = append(rejected, term)
		}
	}
	if len(rejected) > 0 {
		return email.ClassificationResult{
			IsPotentialOrder: false,
			Confidence:       1.0,
			Language:         lang,
			Trace:            email.ClassificationTrace{RejectedPatterns: rejected},
		}
	}

	// Step B: count retail signals
	var accepted []string
	for _, term := range terms.RetailSignals {
		if strings.Contains(lower, term) {
			accepted = append(accepted, term)
		}
	}

	confidence := float64(len(accepted)) * signalWeight
	if confidence > 1.0 {
		confidence = 1.0
	}

	return email.ClassificationResult{
		IsPotentialOrder: len(accepted) > 0,
		Confidence:       confidence,
		Language:         lang,
		Trace:            email.ClassificationTrace{AcceptedPatterns: accepted},
	}
}

// truncate limits text to n runes without splitting a rune
func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
