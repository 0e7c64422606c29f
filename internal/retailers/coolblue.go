package retailers

import (
	"regexp"

	"order-extractor/internal/locale"
)

// NewCoolblueExtractor covers the Dutch, Belgian and German Coolblue shops.
// Coolblue order numbers are plain 8-digit sequences; shipments go out via
// PostNL (3S codes) and DHL.
func NewCoolblueExtractor(weights Weights) *PatternExtractor {
	return NewPatternExtractor(
		"coolblue",
		"EUR",
		[]string{"coolblue.nl", "coolblue.be", "coolblue.de"},
		map[string][]string{
			locale.LangDutch:  {"bestelling", "bezorging", "bestelnummer", "onderweg", "bezorgd"},
			locale.LangGerman: {"bestellung", "lieferung", "bestellnummer", "unterwegs", "zugestellt"},
		},
		FieldPatterns{
			OrderNumber: map[string][]*regexp.Regexp{
				locale.LangDutch: compile(
					`(?i)bestelnummer[:\s#]*(\d{8})\b`,
					`(?i)bestelnummer[:\s#]*(\d{6,10})\b`,
				),
				locale.LangGerman: compile(
					`(?i)bestellnummer[:\s#]*(\d{8})\b`,
					`(?i)bestellnummer[:\s#]*(\d{6,10})\b`,
				),
				locale.LangEnglish: compile(
					`(?i)order\s*number[:\s#]*(\d{6,10})\b`,
				),
			},
			Amount: map[string][]*regexp.Regexp{
				locale.LangDutch: compile(
					`(?i)totaal(?:bedrag)?[:\s]*(?:EUR|€)?\s*([\d.]+,\d{2})`,
					`(?i)te\s+betalen[:\s]*(?:EUR|€)?\s*([\d.]+,\d{2})`,
				),
				locale.LangGerman: compile(
					`(?i)gesamt(?:betrag|summe)?[:\s]*(?:EUR|€)?\s*([\d.]+,\d{2})`,
				),
				locale.LangEnglish: compile(
					`(?i)total[:\s]*(?:EUR|€)?\s*([\d.,]+\d)`,
				),
			},
			Delivery: map[string][]*regexp.Regexp{
				locale.LangDutch: compile(
					`(?i)(?:wordt\s+bezorgd\s+op|bezorgdatum|verwachte\s+bezorging)[:\s]*(?:\w+dag\s+)?(\d{1,2}\s+\w+\s+\d{4})`,
					`(?i)bezorging[:\s]*(\d{1,2}-\d{1,2}-\d{4})`,
				),
				locale.LangGerman: compile(
					`(?i)(?:liefertermin|lieferung\s+am)[:\s]*(?:\w+,\s*)?(\d{1,2}\.?\s+\w+\s+\d{4})`,
					`(?i)(?:liefertermin|lieferung\s+am)[:\s]*(\d{1,2}\.\d{1,2}\.\d{4})`,
				),
			},
			Tracking: map[string][]*regexp.Regexp{
				locale.LangDutch: compile(
					`\b(3S[A-Z0-9]{9,13})\b`,
					`(?i)track\s*&\s*trace(?:\s*code)?[:\s]*([A-Z0-9]{8,30})\b`,
				),
				locale.LangGerman: compile(
					`(?i)sendungsnummer[:\s]*([A-Z0-9]{8,30})\b`,
					`\b(JJD\d{16,20})\b`,
				),
			},
		},
		weights,
	)
}
