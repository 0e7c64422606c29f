package locale

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		lang     string
		expected float64
	}{
		{"german decimal comma", "89,99", LangGerman, 89.99},
		{"german grouped thousands", "1.234,56", LangGerman, 1234.56},
		{"german with euro symbol", "€ 89,99", LangGerman, 89.99},
		{"german with currency code", "EUR 1.234,56", LangGerman, 1234.56},
		{"dutch decimal comma", "€ 89,99", LangDutch, 89.99},
		{"french grouped thousands", "1.234,56 €", LangFrench, 1234.56},
		{"english dot decimal", "89.99", LangEnglish, 89.99},
		{"english grouped thousands", "1,234.56", LangEnglish, 1234.56},
		{"english with dollar", "$1,234.56", LangEnglish, 1234.56},
		{"german plain integer", "1234", LangGerman, 1234},
		{"dot without comma stays decimal in german", "89.99", LangGerman, 89.99},
		{"empty", "", LangGerman, 0},
		{"garbage", "abc", LangGerman, 0},
		{"currency only", "€", LangDutch, 0},
		{"negative rejected", "-50,00", LangGerman, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, ParseNumber(tc.value, tc.lang), 0.001)
		})
	}
}

func TestParseNumberLocaleSensitivity(t *testing.T) {
	// The same literal means different things in different locales
	literal := "€1.234,56"

	german := ParseNumber(literal, LangGerman)
	assert.InDelta(t, 1234.56, german, 0.001)

	english := ParseNumber(literal, LangEnglish)
	assert.NotEqual(t, german, english, "dot-decimal locale must not apply the decimal-comma heuristic")
}

func TestParseNumberNeverNegative(t *testing.T) {
	inputs := []string{"-1", "-99,99", "-1.234,56", "--", "-0.01"}
	for _, input := range inputs {
		for _, lang := range SupportedLanguages {
			if got := ParseNumber(input, lang); got < 0 {
				t.Errorf("ParseNumber(%q, %s) = %v, want >= 0", input, lang, got)
			}
		}
	}
}

var isoDateOutputRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		lang     string
		expected string
	}{
		{"iso passthrough", "2024-03-15", LangGerman, "2024-03-15"},
		{"german dotted", "15.03.2024", LangGerman, "2024-03-15"},
		{"german month name", "15. März 2024", LangGerman, "2024-03-15"},
		{"dutch dashed", "15-03-2024", LangDutch, "2024-03-15"},
		{"dutch month name", "15 maart 2024", LangDutch, "2024-03-15"},
		{"french month name", "15 mars 2024", LangFrench, "2024-03-15"},
		{"english month day year", "March 15, 2024", LangEnglish, "2024-03-15"},
		{"english day month year", "15 March 2024", LangEnglish, "2024-03-15"},
		{"english numeric mdy", "03/15/2024", LangEnglish, "2024-03-15"},
		{"embedded in sentence", "wordt bezorgd op 15 maart 2024 tussen 9:00", LangDutch, "2024-03-15"},
		{"invalid day", "32.03.2024", LangGerman, ""},
		{"invalid month", "15.13.2024", LangGerman, ""},
		{"no date", "hello world", LangEnglish, ""},
		{"empty", "", LangGerman, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseDate(tc.value, tc.lang)
			assert.Equal(t, tc.expected, got)

			// Output is always empty or canonical
			if got != "" && !isoDateOutputRe.MatchString(got) {
				t.Errorf("ParseDate(%q) = %q, not canonical YYYY-MM-DD", tc.value, got)
			}
		})
	}
}

func TestParseDateNeverPartiallyValid(t *testing.T) {
	// A pattern match with out-of-range components must yield nothing,
	// not a mangled date
	inputs := []string{"00.00.2024", "31.13.2024", "40.12.2024"}
	for _, input := range inputs {
		if got := ParseDate(input, LangGerman); got != "" {
			t.Errorf("ParseDate(%q) = %q, want empty", input, got)
		}
	}
}
