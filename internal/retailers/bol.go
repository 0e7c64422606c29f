package retailers

import (
	"regexp"

	"order-extractor/internal/locale"
)

// NewBolExtractor covers bol.com, the Dutch/Belgian marketplace
func NewBolExtractor(weights Weights) *PatternExtractor {
	return NewPatternExtractor(
		"bol",
		"EUR",
		[]string{"bol.com"},
		map[string][]string{
			locale.LangDutch:  {"bestelling", "bestelnummer", "verzonden", "bezorgd", "onderweg"},
			locale.LangFrench: {"commande", "expédiée", "livré"},
		},
		FieldPatterns{
			OrderNumber: map[string][]*regexp.Regexp{
				locale.LangDutch: compile(
					`(?i)bestelnummer[:\s#]*(\d{7,10})\b`,
					`(?i)ordernummer[:\s#]*(\d{7,10})\b`,
				),
				locale.LangFrench: compile(
					`(?i)(?:numéro|n°)\s*de\s*commande[:\s]*(\d{7,10})\b`,
				),
				locale.LangEnglish: compile(
					`(?i)order\s*number[:\s#]*(\d{7,10})\b`,
				),
			},
			Amount: map[string][]*regexp.Regexp{
				locale.LangDutch: compile(
					`(?i)totaal(?:bedrag)?[:\s]*(?:EUR|€)?\s*([\d.]+,\d{2})`,
					`(?i)te\s+betalen[:\s]*(?:EUR|€)?\s*([\d.]+,\d{2})`,
				),
				locale.LangFrench: compile(
					`(?i)(?:montant\s+)?total[:\s]*([\d.]+,\d{2})\s*(?:EUR|€)?`,
				),
			},
			Delivery: map[string][]*regexp.Regexp{
				locale.LangDutch: compile(
					`(?i)(?:verwachte\s+bezorging|bezorgdatum)[:\s]*(?:\w+dag\s+)?(\d{1,2}\s+\w+\s+\d{4})`,
					`(?i)wordt\s+bezorgd\s+op[:\s]*(?:\w+dag\s+)?(\d{1,2}\s+\w+\s+\d{4})`,
				),
			},
			Tracking: map[string][]*regexp.Regexp{
				locale.LangDutch: compile(
					`\b(3S[A-Z0-9]{9,13})\b`,
					`(?i)track\s*&\s*trace(?:\s*code)?[:\s]*([A-Z0-9]{8,30})\b`,
				),
			},
		},
		weights,
	)
}
