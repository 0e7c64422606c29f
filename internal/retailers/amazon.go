package retailers

import (
	"regexp"

	"order-extractor/internal/locale"
)

// NewAmazonExtractor covers the regional Amazon storefronts. Order numbers
// use the 3-7-7 digit format on every marketplace; labels and amounts are
// localized per storefront.
func NewAmazonExtractor(weights Weights) *PatternExtractor {
	return NewPatternExtractor(
		"amazon",
		"EUR",
		[]string{"amazon.de", "amazon.nl", "amazon.fr", "amazon.com", "amazon.co.uk"},
		map[string][]string{
			locale.LangGerman:  {"bestellung", "versandt", "lieferung", "zugestellt"},
			locale.LangEnglish: {"order", "shipped", "delivery", "delivered", "arriving"},
			locale.LangDutch:   {"bestelling", "verzonden", "bezorging", "bezorgd"},
			locale.LangFrench:  {"commande", "expédiée", "livraison", "livré"},
		},
		FieldPatterns{
			OrderNumber: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)bestellnummer[:\s#]*(\d{3}-\d{7}-\d{7})`,
					`\b(\d{3}-\d{7}-\d{7})\b`,
				),
				locale.LangEnglish: compile(
					`(?i)order\s*(?:number|#|no\.?)[:\s]*(\d{3}-\d{7}-\d{7})`,
					`\b(\d{3}-\d{7}-\d{7})\b`,
				),
				locale.LangDutch: compile(
					`(?i)bestelnummer[:\s#]*(\d{3}-\d{7}-\d{7})`,
					`\b(\d{3}-\d{7}-\d{7})\b`,
				),
				locale.LangFrench: compile(
					`(?i)(?:numéro|n°)\s*de\s*commande[:\s]*(\d{3}-\d{7}-\d{7})`,
					`\b(\d{3}-\d{7}-\d{7})\b`,
				),
			},
			Amount: map[string][]*regexp.Regexp{
				locale.LangGerman: compile(
					`(?i)gesamt(?:summe|betrag)?[:\s]*(?:EUR|€)?\s*([\d.]+,\d{2})`,
					`(?i)rechnungsbetrag[:\s]*(?:EUR|€)?\s*([\d.]+,\d{2})`,
				),
				locale.LangEnglish: compile(
					`(?i)(?:order\s+)?total[:\s]*(?:USD|EUR|GBP|\$|€|£)?\s*([\d,]+\.\d{2})`,
					`(?i)grand\s+total[:\s]*(?:USD|EUR|GBP|\$|€|£)?\s*([\d,]+\.\d{2})`,
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
					`(?i)(?:zustellung|lieferung)\s*(?:am|bis)?[:\s]*(?:\w+,\s*)?(\d{1,2}\.?\s+\w+\s+\d{4})`,
					`(?i)(?:zustellung|lieferung)\s*(?:am|bis)?[:\s]*(\d{1,2}\.\d{1,2}\.\d{4})`,
				),
				locale.LangEnglish: compile(
					`(?i)arriving[:\s]*(?:\w+,\s*)?(\w+\s+\d{1,2},?\s+\d{4})`,
					`(?i)(?:estimated|expected)\s+delivery[:\s]*(?:\w+,\s*)?(\w+\s+\d{1,2},?\s+\d{4})`,
				),
				locale.LangDutch: compile(
					`(?i)(?:verwachte\s+)?bezorging[:\s]*(?:\w+\s)?(\d{1,2}\s+\w+\s+\d{4})`,
				),
				locale.LangFrench: compile(
					`(?i)livraison\s+(?:prévue|estimée)[:\s]*(?:le\s+)?(\d{1,2}\s+\w+\s+\d{4})`,
				),
			},
			Tracking: map[string][]*regexp.Regexp{
				locale.LangEnglish: compile(
					`\b(TBA\d{12})\b`,
					`(?i)tracking\s*(?:number|id)?[:\s]*([A-Z0-9]{10,30})\b`,
				),
				locale.LangGerman: compile(
					`\b(TBA\d{12})\b`,
					`(?i)sendungs(?:nummer|verfolgung)[:\s]*([A-Z0-9]{10,30})\b`,
				),
				locale.LangDutch: compile(
					`\b(TBA\d{12})\b`,
					`(?i)track\s*&\s*trace[:\s]*([A-Z0-9]{10,30})\b`,
				),
				locale.LangFrench: compile(
					`\b(TBA\d{12})\b`,
					`(?i)numéro\s+de\s+suivi[:\s]*([A-Z0-9]{10,30})\b`,
				),
			},
		},
		weights,
	)
}
