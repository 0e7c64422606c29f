package retailers

import (
	"regexp"

	"order-extractor/internal/locale"
)

// NewZalandoExtractor covers the Zalando fashion shops. Order numbers are
// 14-digit sequences starting with 10; shipping runs through DHL and Hermes.
func NewZalandoExtractor(weights Weights) *PatternExtractor {
	return NewPatternExtractor(
		"zalando",
		"EUR",
		[]string{"zalando.de", "zalando.nl", "zalando.fr", "zalando.be"},
		map[string][]string{
			locale.LangGerman: {"bestellung", "versandt", "zugestellt", "paket"},
			locale.LangDutch:  {"bestelling", "verzonden", "bezorgd", "pakket"},
			locale.LangFrench: {"commande", "expédiée", "colis", "livré"},
		},
		FieldPatterns{
			OrderNumber: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)bestellnummer[:\s#]*(10\d{12})\b`,
					`(?i)bestellnummer[:\s#]*(\d{10,14})\b`,
				),
				locale.LangDutch: compile(
					`(?i)bestelnummer[:\s#]*(10\d{12})\b`,
					`(?i)bestelnummer[:\s#]*(\d{10,14})\b`,
				),
				locale.LangFrench: compile(
					`(?i)(?:numéro|n°)\s*de\s*commande[:\s]*(10\d{12})\b`,
					`(?i)(?:numéro|n°)\s*de\s*commande[:\s]*(\d{10,14})\b`,
				),
				locale.LangEnglish: compile(
					`(?i)order\s*number[:\s#]*(\d{10,14})\b`,
				),
			},
			Amount: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)gesamt(?:betrag|summe)?[:\s]*([\d.]+,\d{2})\s*(?:EUR|€)?`,
				),
				locale.LangDutch: compile(
					`(?i)totaal(?:bedrag)?[:\s]*(?:EUR|€)?\s*([\d.]+,\d{2})`,
				),
				locale.LangFrench: compile(
					`(?i)(?:montant\s+)?total[:\s]*([\d.]+,\d{2})\s*(?:EUR|€)?`,
				),
			},
			Delivery: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)voraussichtliche\s+(?:lieferung|zustellung)[:\s]*(?:\w+,\s*)?(\d{1,2}\.?\s+\w+\s+\d{4})`,
					`(?i)(?:lieferung|zustellung)\s+(?:am|bis)[:\s]*(\d{1,2}\.\d{1,2}\.\d{4})`,
				),
				locale.LangDutch: compile(
					`(?i)verwachte\s+bezorging[:\s]*(\d{1,2}\s+\w+\s+\d{4})`,
				),
				locale.LangFrench: compile(
					`(?i)livraison\s+(?:prévue|estimée)[:\s]*(?:le\s+)?(\d{1,2}\s+\w+\s+\d{4})`,
				),
			},
			Tracking: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)sendungsnummer[:\s]*(\d{10,20})\b`,
					`\b(JJD\d{16,20})\b`,
				),
				locale.LangDutch: compile(
					`(?i)track\s*&\s*trace[:\s]*([A-Z0-9]{8,30})\b`,
				),
				locale.LangFrench: compile(
					`(?i)numéro\s+de\s+suivi[:\s]*([A-Z0-9]{8,30})\b`,
				),
			},
		},
		weights,
	)
}
