package retailers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"order-extractor/internal/email"
	"order-extractor/internal/locale"
)

func TestDefaultRegistryContents(t *testing.T) {
	r := DefaultRegistry(DefaultWeights())

	assert.Equal(t, 7, r.Len())
	names := r.AllNames()
	assert.Contains(t, names, "amazon")
	assert.Contains(t, names, "coolblue")
	assert.Contains(t, names, "bol")

	// The generic carrier extractor registers last so merchants win
	assert.Equal(t, "carrier-notification", names[len(names)-1])
}

func TestFindExtractorRequiresDomainAndSubject(t *testing.T) {
	r := DefaultRegistry(DefaultWeights())

	testCases := []struct {
		name     string
		msg      *email.EmailMessage
		lang     string
		expected string
	}{
		{
			"coolblue dutch order",
			&email.EmailMessage{
				From:    "Coolblue <noreply@coolblue.nl>",
				Subject: "Je bestelling is onderweg!",
			},
			locale.LangDutch,
			"coolblue",
		},
		{
			"amazon german order",
			&email.EmailMessage{
				From:    "bestellung@amazon.de",
				Subject: "Ihre Bestellung wurde versandt",
			},
			locale.LangGerman,
			"amazon",
		},
		{
			"postnl carrier mail",
			&email.EmailMessage{
				From:    "PostNL <noreply@postnl.nl>",
				Subject: "Je pakket komt eraan",
			},
			locale.LangDutch,
			"carrier-notification",
		},
		{
			"right domain wrong subject",
			&email.EmailMessage{
				From:    "noreply@coolblue.nl",
				Subject: "Welkom bij onze nieuwsbrief",
			},
			locale.LangDutch,
			"",
		},
		{
			"unknown sender",
			&email.EmailMessage{
				From:    "shop@unknown-store.example",
				Subject: "Je bestelling is onderweg",
			},
			locale.LangDutch,
			"",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ext := r.FindExtractor(tc.msg, tc.lang)
			if tc.expected == "" {
				assert.Nil(t, ext)
			} else {
				if assert.NotNil(t, ext) {
					assert.Equal(t, tc.expected, ext.Name())
				}
			}
		})
	}
}

func TestDomainMatchingAnchorsToAddressDomain(t *testing.T) {
	r := DefaultRegistry(DefaultWeights())

	// A merchant domain as a substring elsewhere in the header or address
	// must not count as a merchant sender
	assert.Nil(t, r.FindByDomain("info@amazon.dealer.example"))
	assert.Nil(t, r.FindByDomain("amazon.de@phishing.example"))
	assert.Nil(t, r.FindByDomain("\"amazon.de order\" <deals@aggregator.example>"))
	assert.Nil(t, r.FindByDomain("shop@coolblue.nl.evil.example"))

	// Exact domain and true subdomains still match
	assert.NotNil(t, r.FindByDomain("bestellung@amazon.de"))
	assert.NotNil(t, r.FindByDomain("Amazon <noreply@mail.amazon.de>"))
}

func TestFindByDomainIgnoresSubject(t *testing.T) {
	r := DefaultRegistry(DefaultWeights())

	ext := r.FindByDomain("Coolblue <voordeel@coolblue.nl>")
	if assert.NotNil(t, ext) {
		assert.Equal(t, "coolblue", ext.Name())
	}

	assert.Nil(t, r.FindByDomain("someone@plain-mail.example"))
}

func TestSubjectKeywordFallbackAcrossLanguages(t *testing.T) {
	r := DefaultRegistry(DefaultWeights())

	// Coolblue has no French keyword table; a French-classified mail from a
	// Coolblue domain still routes via the union of all keyword sets
	msg := &email.EmailMessage{
		From:    "noreply@coolblue.be",
		Subject: "Je bestelling is bevestigd",
	}
	ext := r.FindExtractor(msg, locale.LangFrench)
	if assert.NotNil(t, ext) {
		assert.Equal(t, "coolblue", ext.Name())
	}
}

func TestRegistrationOrderDefinesPriority(t *testing.T) {
	r := NewRegistry()
	first := NewCarrierExtractor(DefaultWeights())
	second := NewCoolblueExtractor(DefaultWeights())
	r.Register(first)
	r.Register(second)

	msg := &email.EmailMessage{
		From:    "noreply@dhl.de",
		Subject: "Ihre Sendung ist unterwegs",
	}
	ext := r.FindExtractor(msg, locale.LangGerman)
	if assert.NotNil(t, ext) {
		assert.Equal(t, "carrier-notification", ext.Name())
	}
}
