package retailers

import (
	"regexp"
	"strings"

	"order-extractor/internal/email"
	"order-extractor/internal/langdetect"
	"order-extractor/internal/locale"
)

// Extractor is the capability contract every merchant extractor implements.
// Extractors are stateless; one instance serves all requests.
type Extractor interface {
	// Name returns the normalized merchant name
	Name() string

	// Domains returns the sender domains this extractor recognizes
	Domains() []string

	// CanHandle reports whether this extractor applies to the message
	CanHandle(msg *email.EmailMessage, lang string) bool

	// Extract runs the merchant's pattern sets against the email text
	Extract(text, retailer, lang string) *email.ExtractionAttempt
}

// Weights assigns a confidence share to each extractable field. They sum to
// 1.0; the score of an attempt is the sum of weights for filled fields.
type Weights struct {
	OrderNumber float64
	Amount      float64
	Delivery    float64
	Tracking    float64
	Status      float64
}

// DefaultWeights returns the production weight table
func DefaultWeights() Weights {
	return Weights{
		OrderNumber: 0.4,
		Amount:      0.3,
		Delivery:    0.1,
		Tracking:    0.1,
		Status:      0.1,
	}
}

// FieldPatterns holds ordered regex lists per field, keyed by language code.
// Patterns are ordered most-specific to least-specific; the first match per
// field wins. Each pattern captures the field value in group 1.
type FieldPatterns struct {
	OrderNumber map[string][]*regexp.Regexp
	Amount      map[string][]*regexp.Regexp
	Delivery    map[string][]*regexp.Regexp
	Tracking    map[string][]*regexp.Regexp
}

// PatternExtractor is the shared merchant extractor implementation: a name,
// a domain set, per-language subject keywords for routing, and per-language
// field patterns. Concrete merchants are instances of this type.
type PatternExtractor struct {
	name            string
	domains         []string
	currency        string
	subjectKeywords map[string][]string
	patterns        FieldPatterns
	weights         Weights
}

// NewPatternExtractor builds a merchant extractor from its pattern tables
func NewPatternExtractor(name, currency string, domains []string, subjectKeywords map[string][]string, patterns FieldPatterns, weights Weights) *PatternExtractor {
	return &PatternExtractor{
		name:            name,
		domains:         domains,
		currency:        currency,
		subjectKeywords: subjectKeywords,
		patterns:        patterns,
		weights:         weights,
	}
}

// Name returns the normalized merchant name
func (p *PatternExtractor) Name() string {
	return p.name
}

// Domains returns the sender domains this extractor recognizes
func (p *PatternExtractor) Domains() []string {
	return p.domains
}

// MatchesDomain reports whether the From header's address belongs to this
// merchant. Matching anchors on the address domain, so a merchant name
// elsewhere in the header never counts.
func (p *PatternExtractor) MatchesDomain(from string) bool {
	addrDomain := langdetect.DomainOf(from)
	for _, domain := range p.domains {
		if domainMatches(addrDomain, domain) {
			return true
		}
	}
	return false
}

// domainMatches reports whether addrDomain equals domain or is one of its
// subdomains
func domainMatches(addrDomain, domain string) bool {
	return addrDomain == domain || strings.HasSuffix(addrDomain, "."+domain)
}

// CanHandle requires both a recognized sender domain and an order keyword in
// the subject line for the detected language
func (p *PatternExtractor) CanHandle(msg *email.EmailMessage, lang string) bool {
	if msg == nil || !p.MatchesDomain(msg.From) {
		return false
	}

	subject := strings.ToLower(msg.Subject)
	keywords := p.subjectKeywords[lang]
	if len(keywords) == 0 {
		// No vocabulary for this language: fall back to every language's
		// keywords rather than rejecting a known merchant outright
		for _, kws := range p.subjectKeywords {
			keywords = append(keywords, kws...)
		}
	}

	for _, kw := range keywords {
		if strings.Contains(subject, kw) {
			return true
		}
	}
	return false
}

// Extract applies the merchant's per-language pattern sets to the text and
// scores the result by the weight table
func (p *PatternExtractor) Extract(text, retailer, lang string) *email.ExtractionAttempt {
	if retailer == "" {
		retailer = p.name
	}
	lower := strings.ToLower(text)

	record := &email.ExtractionRecord{
		Retailer: retailer,
		Currency: p.currency,
		Language: lang,
	}

	confidence := 0.0
	var filled []string

	if v := firstMatch(text, langPatterns(p.patterns.OrderNumber, lang)); v != "" {
		record.OrderNumber = v
		confidence += p.weights.OrderNumber
		filled = append(filled, "order_number")
	}

	if raw := firstMatch(text, langPatterns(p.patterns.Amount, lang)); raw != "" {
		// A zero or unparseable amount is a miss, not an error
		if amount := locale.ParseNumber(raw, lang); amount > 0 {
			record.Amount = &amount
			confidence += p.weights.Amount
			filled = append(filled, "amount")
		}
	}

	if raw := firstMatch(text, langPatterns(p.patterns.Delivery, lang)); raw != "" {
		if date := locale.ParseDate(raw, lang); date != "" {
			record.EstimatedDelivery = date
			confidence += p.weights.Delivery
			filled = append(filled, "estimated_delivery")
		}
	}

	if v := firstMatch(text, langPatterns(p.patterns.Tracking, lang)); v != "" {
		record.TrackingNumber = cleanTrackingNumber(v)
		confidence += p.weights.Tracking
		filled = append(filled, "tracking_number")
	}

	status, matched := locale.StatusFromText(lower, lang)
	record.Status = status
	if matched {
		// The default status carries no weight; only an actual vocabulary
		// match counts toward confidence
		confidence += p.weights.Status
		filled = append(filled, "status")
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	record.Confidence = confidence

	return &email.ExtractionAttempt{
		Record:       record,
		Confidence:   confidence,
		Method:       email.MethodRegex,
		FieldsFilled: filled,
	}
}

// langPatterns selects the pattern list for a language, falling back to the
// English set when the merchant has no table for the detected language
func langPatterns(m map[string][]*regexp.Regexp, lang string) []*regexp.Regexp {
	if patterns, ok := m[lang]; ok {
		return patterns
	}
	return m[locale.LangEnglish]
}

// firstMatch returns the first capture group of the first pattern that
// matches, honoring the most-specific-first ordering of the lists
func firstMatch(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			v := strings.TrimSpace(m[1])
			if v != "" {
				return v
			}
		}
	}
	return ""
}

// cleanTrackingNumber normalizes tracking number formatting
func cleanTrackingNumber(number string) string {
	cleaned := strings.ReplaceAll(number, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	return strings.ToUpper(cleaned)
}

// compile builds a pattern list from regex sources, panicking at
// registration time on invalid syntax like regexp.MustCompile
func compile(sources ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(sources))
	for _, src := range sources {
		patterns = append(patterns, regexp.MustCompile(src))
	}
	return patterns
}
