package retailers

import (
	"regexp"
	"strings"

	"order-extractor/internal/email"
	"order-extractor/internal/locale"
)

// CarrierExtractor handles tracking notifications sent by the carriers
// themselves (DHL, PostNL, DPD, Hermes). These emails usually carry a
// tracking code and a delivery window but no order number or amount, so the
// confidence is computed only from the fields that are actually present.
type CarrierExtractor struct {
	*PatternExtractor
	numberFormats map[string]*regexp.Regexp
}

// NewCarrierExtractor creates the carrier-notification extractor
func NewCarrierExtractor(weights Weights) *CarrierExtractor {
	base := NewPatternExtractor(
		"carrier-notification",
		"EUR",
		[]string{"dhl.de", "dhl.com", "dhl.nl", "postnl.nl", "dpd.de", "dpd.com", "myhermes.de", "hermesworld.com"},
		map[string][]string{
			locale.LangGerman:  {"sendung", "paket", "zustellung", "sendungsverfolgung"},
			locale.LangEnglish: {"shipment", "package", "parcel", "delivery", "tracking"},
			locale.LangDutch:   {"pakket", "zending", "bezorging", "track"},
			locale.LangFrench:  {"colis", "livraison", "suivi"},
		},
		FieldPatterns{
			OrderNumber: map[string][]*regexp.Regexp{
				// Carrier mails reference the shop order only occasionally
				locale.LangGerman: compile(
					`(?i)referenz(?:nummer)?[:\s]*([A-Z0-9-]{6,20})\b`,
				),
				locale.LangEnglish: compile(
					`(?i)reference(?:\s*number)?[:\s]*([A-Z0-9-]{6,20})\b`,
				),
				locale.LangDutch: compile(
					`(?i)referentie[:\s]*([A-Z0-9-]{6,20})\b`,
				),
			},
			Amount: map[string][]*regexp.Regexp{},
			Delivery: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)zustellung\s*(?:am|bis)?[:\s]*(?:\w+,\s*)?(\d{1,2}\.?\s+\w+\s+\d{4})`,
					`(?i)zustellung\s*(?:am|bis)?[:\s]*(\d{1,2}\.\d{1,2}\.\d{4})`,
				),
				locale.LangEnglish: compile(
					`(?i)(?:estimated|expected)\s+delivery[:\s]*(?:\w+,\s*)?(\w+\s+\d{1,2},?\s+\d{4})`,
				),
				locale.LangDutch: compile(
					`(?i)(?:bezorging|wordt\s+bezorgd)\s*(?:op)?[:\s]*(?:\w+dag\s+)?(\d{1,2}\s+\w+\s+\d{4})`,
				),
				locale.LangFrench: compile(
					`(?i)livraison\s+(?:prévue|estimée)[:\s]*(?:le\s+)?(\d{1,2}\s+\w+\s+\d{4})`,
				),
			},
			Tracking: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)sendungsnummer[:\s]*([A-Z0-9]{8,30})\b`,
					`\b(JJD\d{16,20})\b`,
					`\b(\d{12,20})\b`,
				),
				locale.LangEnglish: compile(
					`(?i)tracking\s*(?:number|code|id)?[:\s]*([A-Z0-9]{8,30})\b`,
					`\b(\d{12,20})\b`,
				),
				locale.LangDutch: compile(
					`\b(3S[A-Z0-9]{9,13})\b`,
					`(?i)track\s*&\s*trace(?:\s*code)?[:\s]*([A-Z0-9]{8,30})\b`,
				),
				locale.LangFrench: compile(
					`(?i)numéro\s+de\s+suivi[:\s]*([A-Z0-9]{8,30})\b`,
				),
			},
		},
		weights,
	)

	return &CarrierExtractor{
		PatternExtractor: base,
		numberFormats: map[string]*regexp.Regexp{
			"postnl": regexp.MustCompile(`^3S[A-Z0-9]{9,13}$`),
			"dhl":    regexp.MustCompile(`^(?:JJD\d{16,20}|\d{10,20})$`),
		},
	}
}

// Extract runs the base pattern extraction and then attributes the tracking
// number to a carrier, from the sender domain when possible or the number
// format otherwise
func (c *CarrierExtractor) Extract(text, retailer, lang string) *email.ExtractionAttempt {
	attempt := c.PatternExtractor.Extract(text, retailer, lang)
	if attempt.Record != nil && attempt.Record.TrackingNumber != "" {
		attempt.Record.Carrier = c.identifyCarrier(text, attempt.Record.TrackingNumber)
	}
	return attempt
}

// identifyCarrier names the carrier, preferring an explicit mention in the
// text over the tracking number's format
func (c *CarrierExtractor) identifyCarrier(text, trackingNumber string) string {
	lower := strings.ToLower(text)
	// Fixed evaluation order keeps extraction deterministic
	for _, carrier := range []string{"postnl", "dhl", "dpd", "hermes"} {
		if strings.Contains(lower, carrier) {
			return carrier
		}
	}
	for _, carrier := range []string{"postnl", "dhl"} {
		if c.numberFormats[carrier].MatchString(trackingNumber) {
			return carrier
		}
	}
	return ""
}
