package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"order-extractor/internal/email"
	"order-extractor/internal/langdetect"
	"order-extractor/internal/locale"
	"order-extractor/internal/retailers"
)

func newTestClassifier() *Classifier {
	registry := retailers.DefaultRegistry(retailers.DefaultWeights())
	return New(registry, langdetect.NewDetector())
}

func TestClassifyKnownMerchantShortCircuits(t *testing.T) {
	c := newTestClassifier()

	// Newsletter vocabulary would normally reject, but a registered sender
	// domain wins
	msg := &email.EmailMessage{
		From:     "Coolblue <voordeel@coolblue.nl>",
		Subject:  "Nieuwsbrief: onze beste aanbiedingen",
		TextBody: "Schrijf je uit via de link onderaan. Korting op alles!",
	}

	result := c.Classify(msg)
	assert.True(t, result.IsPotentialOrder)
	assert.InDelta(t, 0.9, result.Confidence, 0.001)
	assert.Equal(t, "coolblue", result.MatchedRetailer)
	assert.Equal(t, locale.LangDutch, result.Language)
	assert.Contains(t, result.Trace.AcceptedPatterns[0], "sender:")
}

func TestClassifyRejectTerms(t *testing.T) {
	c := newTestClassifier()

	testCases := []struct {
		name string
		msg  *email.EmailMessage
	}{
		{
			"german newsletter",
			&email.EmailMessage{
				From:     "news@some-shop.example",
				Subject:  "Unser Newsletter für Sie",
				TextBody: "Tolle Angebote diese Woche. Hier abmelden wenn Sie keine Mails mehr möchten.",
			},
		},
		{
			"english marketing",
			&email.EmailMessage{
				From:     "promo@random.example",
				Subject:  "Huge sale this weekend only",
				TextBody: "Don't miss out on these deals. Click unsubscribe to stop receiving offers.",
			},
		},
		{
			"merchant name in body is not a merchant sender",
			&email.EmailMessage{
				From:     "deals@aggregator.example",
				Subject:  "Newsletter: Amazon-Schnäppchen der Woche",
				TextBody: "Die besten Amazon Angebote. Newsletter abbestellen hier.",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := c.Classify(tc.msg)
			assert.False(t, result.IsPotentialOrder)
			assert.InDelta(t, 1.0, result.Confidence, 0.001)
			assert.NotEmpty(t, result.Trace.RejectedPatterns)
		})
	}
}

func TestClassifyLookalikeSenderGetsNoMerchantBonus(t *testing.T) {
	c := newTestClassifier()

	// The merchant domain embedded in an unrelated sender address must not
	// earn the merchant short-circuit
	msg := &email.EmailMessage{
		From:     "info@amazon.dealer.example",
		Subject:  "Ihre Bestellung wurde versandt",
		TextBody: "Vielen Dank für Ihre Bestellung. Die Lieferung ist unterwegs.",
	}

	result := c.Classify(msg)
	assert.Empty(t, result.MatchedRetailer)
	assert.NotEqual(t, 0.9, result.Confidence)
}

func TestClassifyRetailSignalCounting(t *testing.T) {
	c := newTestClassifier()

	// Three distinct German signals: bestellung, versand, rechnung
	msg := &email.EmailMessage{
		From:     "shop@kleiner-laden.example",
		Subject:  "Ihre Bestellung ist unterwegs",
		TextBody: "Vielen Dank für Ihre Bestellung. Der Versand erfolgt heute, die Rechnung finden Sie im Anhang.",
	}

	result := c.Classify(msg)
	assert.True(t, result.IsPotentialOrder)
	assert.GreaterOrEqual(t, result.Confidence, 0.5)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	assert.GreaterOrEqual(t, len(result.Trace.AcceptedPatterns), 2)
}

func TestClassifyConfidenceCappedAtOne(t *testing.T) {
	c := newTestClassifier()

	// Pack in more than four signals; 0.25 each must still cap at 1.0
	msg := &email.EmailMessage{
		From:    "shop@viele-signale.example",
		Subject: "Ihre Bestellung und Auftragsbestätigung",
		TextBody: "Vielen Dank für Ihre Bestellung. Die Bestellnummer und die " +
			"Rechnung finden Sie unten, die Lieferung wurde versandt.",
	}

	result := c.Classify(msg)
	assert.True(t, result.IsPotentialOrder)
	assert.InDelta(t, 1.0, result.Confidence, 0.001)
}

func TestClassifyNoSignals(t *testing.T) {
	c := newTestClassifier()

	msg := &email.EmailMessage{
		From:     "friend@personal.example",
		Subject:  "Treffen am Wochenende",
		TextBody: "Hallo! Wollen wir uns am Samstag im Park treffen? Das Wetter soll gut werden.",
	}

	result := c.Classify(msg)
	assert.False(t, result.IsPotentialOrder)
	assert.InDelta(t, 0.0, result.Confidence, 0.001)
	assert.Empty(t, result.Trace.RejectedPatterns)
}

func TestClassifyFallsBackToHTMLBody(t *testing.T) {
	c := newTestClassifier()

	msg := &email.EmailMessage{
		From:     "shop@irgendwo.example",
		Subject:  "Ihre Bestellung",
		HTMLBody: "Vielen Dank für Ihre Bestellung. Der Versand erfolgt morgen.",
	}

	result := c.Classify(msg)
	assert.True(t, result.IsPotentialOrder)
	assert.Greater(t, result.Confidence, 0.0)
}

func TestClassifyTruncatesLongBodies(t *testing.T) {
	c := newTestClassifier()

	// Order vocabulary buried far past the classification window must not
	// count
	filler := strings.Repeat("lorem ipsum dolor sit amet. ", 200)
	msg := &email.EmailMessage{
		From:     "someone@somewhere.example",
		Subject:  "FYI",
		TextBody: filler + " bestellung versand rechnung",
	}

	result := c.Classify(msg)
	assert.False(t, result.IsPotentialOrder)
}

func TestTruncateRuneSafe(t *testing.T) {
	text := "äöüß" + strings.Repeat("x", 10)
	got := truncate(text, 4)
	assert.Equal(t, "äöüß", got)
	assert.Equal(t, text, truncate(text, 1000))
}
