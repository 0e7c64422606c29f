package retailers

import (
	"regexp"

	"order-extractor/internal/locale"
)

// NewOttoExtractor covers otto.de, German-language only
func NewOttoExtractor(weights Weights) *PatternExtractor {
	return NewPatternExtractor(
		"otto",
		"EUR",
		[]string{"otto.de"},
		map[string][]string{
			locale.LangGerman: {"bestellung", "auftragsbestätigung", "versandt", "lieferung"},
		},
		FieldPatterns{
			OrderNumber: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)auftragsnummer[:\s#]*(\d{8,12})\b`,
					`(?i)bestellnummer[:\s#]*(\d{8,12})\b`,
				),
				locale.LangEnglish: compile(
					`(?i)order\s*number[:\s#]*(\d{8,12})\b`,
				),
			},
			Amount: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)rechnungsbetrag[:\s]*([\d.]+,\d{2})\s*(?:EUR|€)?`,
					`(?i)gesamt(?:betrag|summe)?[:\s]*([\d.]+,\d{2})\s*(?:EUR|€)?`,
				),
			},
			Delivery: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)liefertermin[:\s]*(?:\w+,\s*)?(\d{1,2}\.?\s+\w+\s+\d{4})`,
					`(?i)lieferung\s+(?:am|bis)[:\s]*(\d{1,2}\.\d{1,2}\.\d{4})`,
				),
			},
			Tracking: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)sendungsnummer[:\s]*(\d{10,20})\b`,
					`(?i)paketverfolgung[:\s]*([A-Z0-9]{8,30})\b`,
				),
			},
		},
		weights,
	)
}
