package retailers

import (
	"order-extractor/internal/email"
	"order-extractor/internal/langdetect"
)

// Registry owns the set of registered merchant extractors. It is populated
// once at process start and treated as read-only afterwards; no registration
// may happen concurrently with request handling.
type Registry struct {
	extractors []Extractor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an extractor. Call order defines lookup priority.
func (r *Registry) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// FindExtractor returns the first extractor whose CanHandle accepts the
// message, or nil when no merchant claims it
func (r *Registry) FindExtractor(msg *email.EmailMessage, lang string) Extractor {
	for _, e := range r.extractors {
		if e.CanHandle(msg, lang) {
			return e
		}
	}
	return nil
}

// FindByDomain returns the extractor whose domain set contains the sender's
// address domain, ignoring subject keywords. The classifier uses this as its
// known-merchant short circuit.
func (r *Registry) FindByDomain(from string) Extractor {
	addrDomain := langdetect.DomainOf(from)
	for _, e := range r.extractors {
		for _, domain := range e.Domains() {
			if domainMatches(addrDomain, domain) {
				return e
			}
		}
	}
	return nil
}

// AllNames returns the registered merchant names in registration order
func (r *Registry) AllNames() []string {
	names := make([]string, 0, len(r.extractors))
	for _, e := range r.extractors {
		names = append(names, e.Name())
	}
	return names
}

// Len returns the number of registered extractors
func (r *Registry) Len() int {
	return len(r.extractors)
}

// DefaultRegistry builds the production registry with every known merchant
// and the carrier-notification extractor. More specific merchants register
// before the generic carrier extractor.
func DefaultRegistry(weights Weights) *Registry {
	r := NewRegistry()
	r.Register(NewAmazonExtractor(weights))
	r.Register(NewCoolblueExtractor(weights))
	r.Register(NewZalandoExtractor(weights))
	r.Register(NewOttoExtractor(weights))
	r.Register(NewBolExtractor(weights))
	r.Register(NewMediaMarktExtractor(weights))
	r.Register(NewCarrierExtractor(weights))
	return r
}
