package retailers

import (
	"regexp"

	"order-extractor/internal/locale"
)

// NewMediaMarktExtractor covers the MediaMarkt electronics shops
func NewMediaMarktExtractor(weights Weights) *PatternExtractor {
	return NewPatternExtractor(
		"mediamarkt",
		"EUR",
		[]string{"mediamarkt.de", "mediamarkt.nl"},
		map[string][]string{
			locale.LangGerman: {"bestellung", "auftragsbestätigung", "versandt", "abholbereit"},
			locale.LangDutch:  {"bestelling", "verzonden", "klaar om af te halen"},
		},
		FieldPatterns{
			OrderNumber: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)(?:auftrags|bestell)nummer[:\s#]*(\d{9,12})\b`,
					`(?i)ihre\s+bestellung[:\s#]*(\d{9,12})\b`,
				),
				locale.LangDutch: compile(
					`(?i)bestelnummer[:\s#]*(\d{9,12})\b`,
				),
				locale.LangEnglish: compile(
					`(?i)order\s*number[:\s#]*(\d{9,12})\b`,
				),
			},
			Amount: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)gesamt(?:betrag|summe)?[:\s]*([\d.]+,\d{2})\s*(?:EUR|€)?`,
				),
				locale.LangDutch: compile(
					`(?i)totaal(?:bedrag)?[:\s]*(?:EUR|€)?\s*([\d.]+,\d{2})`,
				),
			},
			Delivery: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)(?:liefertermin|lieferung\s+am)[:\s]*(?:\w+,\s*)?(\d{1,2}\.?\s+\w+\s+\d{4})`,
					`(?i)(?:liefertermin|lieferung\s+am)[:\s]*(\d{1,2}\.\d{1,2}\.\d{4})`,
				),
				locale.LangDutch: compile(
					`(?i)verwachte\s+bezorging[:\s]*(\d{1,2}\s+\w+\s+\d{4})`,
				),
			},
			Tracking: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)sendungsnummer[:\s]*(\d{10,20})\b`,
				),
				locale.LangDutch: compile(
					`(?i)track\s*&\s*trace[:\s]*([A-Z0-9]{8,30})\b`,
				),
			},
		},
		weights,
	)
}
