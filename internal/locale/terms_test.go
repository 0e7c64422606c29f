package locale

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"order-extractor/internal/email"
)

func TestEveryLanguageHasVocabulary(t *testing.T) {
	for _, lang := range SupportedLanguages {
		set := ForLanguage(lang)

		assert.NotEmpty(t, set.Reject, "reject terms for %s", lang)
		assert.NotEmpty(t, set.RetailSignals, "retail signals for %s", lang)
		assert.NotEmpty(t, set.OrderNumberTerms, "order number terms for %s", lang)
		assert.NotEmpty(t, set.TotalTerms, "total terms for %s", lang)
		assert.NotEmpty(t, set.DeliveryTerms, "delivery terms for %s", lang)
		assert.Len(t, set.StatusTerms, 3, "status groups for %s", lang)
	}
}

func TestUniversalRejectMergedIntoEveryLanguage(t *testing.T) {
	for _, lang := range SupportedLanguages {
		set := ForLanguage(lang)
		found := false
		for _, term := range set.Reject {
			if term == "unsubscribe" {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("universal reject term missing from %s", lang)
		}
	}
}

func TestAllTermsAreLowercase(t *testing.T) {
	// Matching happens against lowercased text; an uppercase term would
	// silently never match
	for _, lang := range SupportedLanguages {
		set := ForLanguage(lang)
		all := append([]string{}, set.Reject...)
		all = append(all, set.RetailSignals...)
		all = append(all, set.OrderNumberTerms...)
		all = append(all, set.TotalTerms...)
		all = append(all, set.DeliveryTerms...)
		for _, group := range set.StatusTerms {
			all = append(all, group.Terms...)
		}

		for _, term := range all {
			assert.Equal(t, strings.ToLower(term), term, "term %q in %s", term, lang)
		}
	}
}

func TestStatusGroupsOrderedMostTerminalFirst(t *testing.T) {
	for _, lang := range SupportedLanguages {
		set := ForLanguage(lang)
		assert.Equal(t, email.StatusDelivered, set.StatusTerms[0].Status, "%s", lang)
		assert.Equal(t, email.StatusShipped, set.StatusTerms[1].Status, "%s", lang)
		assert.Equal(t, email.StatusConfirmed, set.StatusTerms[2].Status, "%s", lang)
	}
}

func TestStatusFromText(t *testing.T) {
	testCases := []struct {
		name        string
		text        string
		lang        string
		expected    email.OrderStatus
		wantMatched bool
	}{
		{"german delivered", "ihr paket wurde zugestellt", LangGerman, email.StatusDelivered, true},
		{"german shipped", "ihre bestellung wurde versandt", LangGerman, email.StatusShipped, true},
		{"dutch confirmed", "bedankt voor je bestelling", LangDutch, email.StatusConfirmed, true},
		{"english shipped", "your order has shipped", LangEnglish, email.StatusShipped, true},
		{"french delivered", "votre colis a été livré aujourd'hui", LangFrench, email.StatusDelivered, true},
		{"no match defaults to confirmed", "hello there", LangEnglish, email.StatusConfirmed, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, matched := StatusFromText(tc.text, tc.lang)
			assert.Equal(t, tc.expected, status)
			assert.Equal(t, tc.wantMatched, matched)
		})
	}
}

func TestStatusDeliveredWinsOverShipped(t *testing.T) {
	// An email mentioning both stages reports the most terminal one
	text := "ihre bestellung wurde versandt und heute zugestellt"
	status, matched := StatusFromText(text, LangGerman)
	assert.True(t, matched)
	assert.Equal(t, email.StatusDelivered, status)
}

func TestForLanguageFallsBackToBase(t *testing.T) {
	unknown := ForLanguage("xx")
	base := ForLanguage(DefaultLanguage)
	assert.Equal(t, base.RetailSignals, unknown.RetailSignals)
}
