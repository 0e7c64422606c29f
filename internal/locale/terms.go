package locale

import (
	"strings"

	"order-extractor/internal/email"
)

// Supported language codes. German is the base language: it is the detector
// fallback and the reference decimal-comma locale.
const (
	LangGerman  = "de"
	LangEnglish = "en"
	LangDutch   = "nl"
	LangFrench  = "fr"
)

// DefaultLanguage is used whenever detection is inconclusive
const DefaultLanguage = LangGerman

// SupportedLanguages lists every language the pipeline understands
var SupportedLanguages = []string{LangGerman, LangEnglish, LangDutch, LangFrench}

// StatusTermGroup maps a set of phrases to an order status. Groups are
// evaluated in order, most terminal status first.
type StatusTermGroup struct {
	Status email.OrderStatus
	Terms  []string
}

// TermSet holds the per-language vocabulary consumed by the classifier and
// the retailer extractors. All terms are lowercase; matching is
// case-insensitive substring matching against lowercased email text.
type TermSet struct {
	// Reject terms short-circuit classification: newsletters, marketing,
	// social notifications, password resets, job alerts
	Reject []string

	// RetailSignals indicate order-related mail
	RetailSignals []string

	// Field label synonyms
	OrderNumberTerms []string
	TotalTerms       []string
	DeliveryTerms    []string

	// Status vocabulary, ordered delivered -> shipped -> confirmed
	StatusTerms []StatusTermGroup
}

// universalReject applies to every language: cross-language tokens that mark
// mail as non-order regardless of locale
var universalReject = []string{
	"unsubscribe",
	"newsletter",
	"webinar",
	"linkedin",
	"facebook",
	"instagram",
	"tiktok",
	"job alert",
	"password reset",
}

var termSets = map[string]TermSet{
	LangGerman: {
		Reject: []string{
			"abmelden",
			"vom newsletter",
			"passwort zurücksetzen",
			"gewinnspiel",
			"stellenangebot",
			"jobangebot",
			"umfrage",
			"rabattaktion",
			"nur heute",
		},
		RetailSignals: []string{
			"bestellung",
			"bestellbestätigung",
			"auftragsbestätigung",
			"versandbestätigung",
			"ihre bestellung",
			"bestellnummer",
			"rechnung",
			"lieferung",
			"gesamtbetrag",
			"versandt",
		},
		OrderNumberTerms: []string{"bestellnummer", "auftragsnummer", "bestellnr", "bestell-nr"},
		TotalTerms:       []string{"gesamtbetrag", "gesamtsumme", "rechnungsbetrag", "gesamt", "summe"},
		DeliveryTerms:    []string{"voraussichtliche lieferung", "liefertermin", "zustellung am", "lieferung am"},
		StatusTerms: []StatusTermGroup{
			{email.StatusDelivered, []string{"zugestellt", "wurde geliefert", "erfolgreich geliefert"}},
			{email.StatusShipped, []string{"versandt", "versendet", "wurde verschickt", "unterwegs zu dir", "auf dem weg"}},
			{email.StatusConfirmed, []string{"bestellung bestätigt", "bestellbestätigung", "auftragsbestätigung", "bestellung eingegangen", "vielen dank für ihre bestellung", "danke für deine bestellung"}},
		},
	},
	LangEnglish: {
		Reject: []string{
			"no longer wish to receive",
			"verify your email",
			"reset your password",
			"job opportunity",
			"we're hiring",
			"survey",
			"flash sale",
			"special offer just for you",
		},
		RetailSignals: []string{
			"order confirmation",
			"your order",
			"order number",
			"shipping confirmation",
			"has shipped",
			"has been shipped",
			"invoice",
			"receipt",
			"tracking number",
			"delivery",
		},
		OrderNumberTerms: []string{"order number", "order no", "order #", "order id"},
		TotalTerms:       []string{"order total", "grand total", "total amount", "total"},
		DeliveryTerms:    []string{"estimated delivery", "expected delivery", "arriving", "arrives"},
		StatusTerms: []StatusTermGroup{
			{email.StatusDelivered, []string{"was delivered", "has been delivered", "delivered on"}},
			{email.StatusShipped, []string{"has shipped", "has been shipped", "on its way", "in transit", "out for delivery", "dispatched"}},
			{email.StatusConfirmed, []string{"order confirmation", "order confirmed", "we received your order", "thank you for your order", "order placed"}},
		},
	},
	LangDutch: {
		Reject: []string{
			"afmelden",
			"uitschrijven",
			"nieuwsbrief",
			"wachtwoord opnieuw instellen",
			"vacature",
			"enquête",
			"winactie",
			"alleen vandaag",
		},
		RetailSignals: []string{
			"bestelling",
			"bestelbevestiging",
			"je bestelling",
			"uw bestelling",
			"verzendbevestiging",
			"bestelnummer",
			"factuur",
			"bezorging",
			"totaalbedrag",
			"onderweg",
		},
		OrderNumberTerms: []string{"bestelnummer", "ordernummer", "bestelnr"},
		TotalTerms:       []string{"totaalbedrag", "totaal", "te betalen"},
		DeliveryTerms:    []string{"verwachte bezorging", "bezorgdatum", "wordt bezorgd op", "levering op"},
		StatusTerms: []StatusTermGroup{
			{email.StatusDelivered, []string{"is bezorgd", "afgeleverd", "is geleverd"}},
			{email.StatusShipped, []string{"is verzonden", "is verstuurd", "onderweg naar je", "komt eraan"}},
			{email.StatusConfirmed, []string{"bestelbevestiging", "bestelling ontvangen", "bedankt voor je bestelling", "bestelling is bevestigd"}},
		},
	},
	LangFrench: {
		Reject: []string{
			"se désabonner",
			"désinscription",
			"réinitialiser votre mot de passe",
			"offre d'emploi",
			"sondage",
			"jeu concours",
			"vente flash",
		},
		RetailSignals: []string{
			"commande",
			"confirmation de commande",
			"votre commande",
			"numéro de commande",
			"expédition",
			"facture",
			"livraison",
			"expédiée",
			"montant total",
		},
		OrderNumberTerms: []string{"numéro de commande", "n° de commande", "commande n°", "référence de commande"},
		TotalTerms:       []string{"montant total", "total de la commande", "total"},
		DeliveryTerms:    []string{"livraison prévue", "livraison estimée", "date de livraison", "livrée le"},
		StatusTerms: []StatusTermGroup{
			{email.StatusDelivered, []string{"a été livrée", "a été livré", "livrée le", "livré le"}},
			{email.StatusShipped, []string{"a été expédiée", "a été expédié", "en cours de livraison", "en transit"}},
			{email.StatusConfirmed, []string{"confirmation de commande", "commande confirmée", "commande enregistrée", "merci pour votre commande"}},
		},
	},
}

func init() {
	// Merge the universal reject list into every language once at load time
	for lang, set := range termSets {
		set.Reject = append(set.Reject, universalReject...)
		termSets[lang] = set
	}
}

// ForLanguage returns the term set for a language code, falling back to the
// base language for unknown codes
func ForLanguage(lang string) TermSet {
	if set, ok := termSets[lang]; ok {
		return set
	}
	return termSets[DefaultLanguage]
}

// IsSupported reports whether lang is one of the supported language codes
func IsSupported(lang string) bool {
	_, ok := termSets[lang]
	return ok
}

// StatusFromText derives the order status by testing the lowercased text
// against the language's status vocabulary, most terminal status first.
// The second return value reports whether any term actually matched; callers
// fall back to StatusConfirmed when it is false.
func StatusFromText(lowerText, lang string) (email.OrderStatus, bool) {
	set := ForLanguage(lang)
	for _, group := range set.StatusTerms {
		for _, term := range group.Terms {
			if strings.Contains(lowerText, term) {
				return group.Status, true
			}
		}
	}
	return email.StatusConfirmed, false
}
