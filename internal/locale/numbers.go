package locale

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Comma used as decimal point: "89,99" or "1.234,56" (dot-grouped
	// thousands followed by a decimal comma)
	decimalCommaRe = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})*,\d{1,2}$|^\d+,\d{1,2}$`)

	currencyTokenRe = regexp.MustCompile(`(?i)(€|\$|£|chf|eur|usd|gbp)`)
	whitespaceRe    = regexp.MustCompile(`[\s\x{00a0}]+`)
)

// decimalCommaLocales use comma as the decimal separator and dot for
// thousands grouping
var decimalCommaLocales = map[string]bool{
	LangGerman: true,
	LangDutch:  true,
	LangFrench: true,
}

// ParseNumber parses a retailer-formatted monetary value according to the
// language's numeric conventions. Currency symbols and codes are stripped
// first. Invalid or negative input yields 0, never an error.
func ParseNumber(value, lang string) float64 {
	cleaned := currencyTokenRe.ReplaceAllString(value, "")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, "")
	cleaned = strings.Trim(cleaned, ":=")
	if cleaned == "" {
		return 0
	}

	if decimalCommaLocales[lang] && decimalCommaRe.MatchString(cleaned) {
		normalized := strings.ReplaceAll(cleaned, ".", "")
		normalized = strings.Replace(normalized, ",", ".", 1)
		return parsePositive(normalized)
	}

	// Dot-decimal interpretation: commas are thousands separators
	normalized := strings.ReplaceAll(cleaned, ",", "")
	return parsePositive(normalized)
}

func parsePositive(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// datePattern pairs a regex with the index order of its captured groups
type datePattern struct {
	re         *regexp.Regexp
	yearIdx    int
	monthIdx   int
	dayIdx     int
	monthNames bool
}

var (
	isoDateRe     = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	numericDMYRe  = regexp.MustCompile(`\b(\d{1,2})[./-](\d{1,2})[./-](\d{4})\b`)
	numericMDYRe  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	monthNameDMRe = regexp.MustCompile(`\b(\d{1,2})\.?\s+([\p{L}éûä]+\.?)\s+(\d{4})\b`)
	monthNameMDRe = regexp.MustCompile(`\b([A-Za-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
)

// datePatterns lists the ordered patterns per language. Day-month-year
// locales come first; English additionally understands month-day-year.
var datePatterns = map[string][]datePattern{
	LangGerman: {
		{isoDateRe, 1, 2, 3, false},
		{numericDMYRe, 3, 2, 1, false},
		{monthNameDMRe, 3, 2, 1, true},
	},
	LangDutch: {
		{isoDateRe, 1, 2, 3, false},
		{numericDMYRe, 3, 2, 1, false},
		{monthNameDMRe, 3, 2, 1, true},
	},
	LangFrench: {
		{isoDateRe, 1, 2, 3, false},
		{numericDMYRe, 3, 2, 1, false},
		{monthNameDMRe, 3, 2, 1, true},
	},
	LangEnglish: {
		{isoDateRe, 1, 2, 3, false},
		{monthNameMDRe, 3, 1, 2, true},
		{monthNameDMRe, 3, 2, 1, true},
		{numericMDYRe, 3, 1, 2, false},
	},
}

var monthNames = map[string]map[string]int{
	LangGerman: {
		"januar": 1, "februar": 2, "märz": 3, "maerz": 3, "april": 4, "mai": 5, "juni": 6,
		"juli": 7, "august": 8, "september": 9, "oktober": 10, "november": 11, "dezember": 12,
		"jan": 1, "feb": 2, "mär": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8, "sep": 9, "okt": 10, "nov": 11, "dez": 12,
	},
	LangEnglish: {
		"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
		"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8, "sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
	},
	LangDutch: {
		"januari": 1, "februari": 2, "maart": 3, "april": 4, "mei": 5, "juni": 6,
		"juli": 7, "augustus": 8, "september": 9, "oktober": 10, "november": 11, "december": 12,
		"jan": 1, "feb": 2, "mrt": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8, "sep": 9, "okt": 10, "nov": 11, "dec": 12,
	},
	LangFrench: {
		"janvier": 1, "février": 2, "fevrier": 2, "mars": 3, "avril": 4, "mai": 5, "juin": 6,
		"juillet": 7, "août": 8, "aout": 8, "septembre": 9, "octobre": 10, "novembre": 11, "décembre": 12, "decembre": 12,
		"janv": 1, "févr": 2, "avr": 4, "juil": 7, "sept": 9, "oct": 10, "nov": 11, "déc": 12,
	},
}

// ParseDate parses a date token according to the language's ordered pattern
// list and returns a canonical YYYY-MM-DD string, or "" if no pattern yields
// a fully valid date. Partially invalid dates are never emitted.
func ParseDate(value, lang string) string {
	patterns, ok := datePatterns[lang]
	if !ok {
		patterns = datePatterns[DefaultLanguage]
	}

	for _, p := range patterns {
		m := p.re.FindStringSubmatch(value)
		if m == nil {
			continue
		}

		year, err := strconv.Atoi(m[p.yearIdx])
		if err != nil {
			continue
		}

		var month int
		if p.monthNames {
			name := strings.ToLower(strings.TrimSuffix(m[p.monthIdx], "."))
			month = lookupMonth(name, lang)
			if month == 0 {
				continue
			}
		} else {
			month, err = strconv.Atoi(m[p.monthIdx])
			if err != nil {
				continue
			}
		}

		day, err := strconv.Atoi(m[p.dayIdx])
		if err != nil {
			continue
		}

		if day < 1 || day > 31 || month < 1 || month > 12 {
			continue
		}

		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}

	return ""
}

// lookupMonth resolves a month name in the given language first, then in the
// remaining languages. Retailer emails occasionally mix languages (an English
// template with a localized date or vice versa).
func lookupMonth(name, lang string) int {
	if names, ok := monthNames[lang]; ok {
		if m, ok := names[name]; ok {
			return m
		}
	}
	for other, names := range monthNames {
		if other == lang {
			continue
		}
		if m, ok := names[name]; ok {
			return m
		}
	}
	return 0
}
