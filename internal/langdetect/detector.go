package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"

	"order-extractor/internal/locale"
)

// minSampleLen is the minimum number of runes required before statistical
// detection is trusted over the default language
const minSampleLen = 20

// maxSampleLen caps the text fed to the detector; subjects plus the first
// couple of kilobytes are plenty for language identification
const maxSampleLen = 2000

// iso3ToInternal maps the detector's ISO 639-3 codes to our two-letter codes
var iso3ToInternal = map[string]string{
	"deu": locale.LangGerman,
	"eng": locale.LangEnglish,
	"nld": locale.LangDutch,
	"fra": locale.LangFrench,
}

// Detector maps email text and sender hints to a supported language code.
// Deterministic: no external calls, no randomness.
type Detector struct {
	domainOverrides map[string]string
	whitelist       map[whatlanggo.Lang]bool
}

// NewDetector creates a detector with the built-in domain override table
func NewDetector() *Detector {
	return &Detector{
		domainOverrides: defaultDomainOverrides(),
		whitelist: map[whatlanggo.Lang]bool{
			whatlanggo.Deu: true,
			whatlanggo.Eng: true,
			whatlanggo.Nld: true,
			whatlanggo.Fra: true,
		},
	}
}

// defaultDomainOverrides lists merchant domains whose regional TLD is
// authoritative for the email language, regardless of content
func defaultDomainOverrides() map[string]string {
	return map[string]string{
		"amazon.de":        locale.LangGerman,
		"amazon.nl":        locale.LangDutch,
		"amazon.fr":        locale.LangFrench,
		"amazon.com":       locale.LangEnglish,
		"amazon.co.uk":     locale.LangEnglish,
		"coolblue.nl":      locale.LangDutch,
		"coolblue.be":      locale.LangDutch,
		"coolblue.de":      locale.LangGerman,
		"bol.com":          locale.LangDutch,
		"zalando.de":       locale.LangGerman,
		"zalando.nl":       locale.LangDutch,
		"zalando.fr":       locale.LangFrench,
		"otto.de":          locale.LangGerman,
		"mediamarkt.de":    locale.LangGerman,
		"mediamarkt.nl":    locale.LangDutch,
		"dhl.de":           locale.LangGerman,
		"dhl.com":          locale.LangEnglish,
		"postnl.nl":        locale.LangDutch,
		"dpd.de":           locale.LangGerman,
		"myhermes.de":      locale.LangGerman,
		"fnac.com":         locale.LangFrench,
		"cdiscount.com":    locale.LangFrench,
		"galaxus.de":       locale.LangGerman,
		"kleinanzeigen.de": locale.LangGerman,
	}
}

// Detect returns the language code for the given email text. senderDomain is
// optional; a known regional merchant domain wins over content detection.
func (d *Detector) Detect(text, senderDomain string) string {
	if lang := d.overrideFor(senderDomain); lang != "" {
		return lang
	}

	sample := strings.TrimSpace(text)
	if runes := []rune(sample); len(runes) > maxSampleLen {
		sample = string(runes[:maxSampleLen])
	}
	if len([]rune(sample)) < minSampleLen {
		return locale.DefaultLanguage
	}

	info := whatlanggo.DetectWithOptions(sample, whatlanggo.Options{Whitelist: d.whitelist})
	if !info.IsReliable() {
		return locale.DefaultLanguage
	}

	if lang, ok := iso3ToInternal[info.Lang.Iso6393()]; ok {
		return lang
	}
	return locale.DefaultLanguage
}

// overrideFor checks the sender domain against the override table, matching
// on domain suffix so subdomains like mail.coolblue.nl resolve too
func (d *Detector) overrideFor(senderDomain string) string {
	domain := strings.ToLower(strings.TrimSpace(senderDomain))
	if domain == "" {
		return ""
	}

	if lang, ok := d.domainOverrides[domain]; ok {
		return lang
	}
	for suffix, lang := range d.domainOverrides {
		if strings.HasSuffix(domain, "."+suffix) {
			return lang
		}
	}
	return ""
}

// DomainOf extracts the domain part of a From header value, handling both
// bare addresses and "Name <addr@domain>" forms
func DomainOf(from string) string {
	addr := strings.ToLower(strings.TrimSpace(from))
	if start := strings.LastIndex(addr, "<"); start >= 0 {
		addr = addr[start+1:]
		addr = strings.TrimSuffix(addr, ">")
	}
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return ""
	}
	return strings.TrimSpace(addr[at+1:])
}
