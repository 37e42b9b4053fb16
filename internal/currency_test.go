package internal

import (
	"testing"
)

func TestGetCurrency_Symbol(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"EUR", "€"},
		{"eur", "€"},
		{"USD", "$"},
		{"GBP", "£"},
		{"SEK", "kr"},
		{"NOK", "kr"},
		{"CHF", "CHF"},
		{"XYZ", "XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := GetCurrency(tt.code).Symbol()
			if got != tt.want {
				t.Errorf("GetCurrency(%q).Symbol() = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCurrency_CaseInsensitive(t *testing.T) {
	for _, code := range []string{"sek", "Sek", "SEK", " seK "} {
		c := GetCurrency(code)
		if c.Code != "SEK" {
			t.Errorf("GetCurrency(%q).Code = %q, want SEK", code, c.Code)
		}
	}
}

func TestParseCurrencyFromLocale(t *testing.T) {
	tests := []struct {
		locale       string
		wantCurrency string
		wantTag      string
	}{
		{"sv_SE.UTF-8", "SEK", "sv-SE"},
		{"en_US.UTF-8", "USD", "en-US"},
		{"de_DE", "EUR", "de-DE"},
		{"de_AT.UTF-8@euro", "EUR", "de-AT"},
		{"en_GB.UTF-8", "GBP", "en-GB"},
		{"C", "", ""},
		{"en", "", ""}, // No region
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			gotCurrency, gotTag := parseCurrencyFromLocale(tt.locale)
			if gotCurrency != tt.wantCurrency {
				t.Errorf("parseCurrencyFromLocale(%q) currency = %q, want %q", tt.locale, gotCurrency, tt.wantCurrency)
			}
			if tt.wantTag != "" && gotTag.String() != tt.wantTag {
				t.Errorf("parseCurrencyFromLocale(%q) tag = %q, want %q", tt.locale, gotTag.String(), tt.wantTag)
			}
		})
	}
}

func TestDetectSystemCurrency(t *testing.T) {
	// Skip OS-level locale detection so tests are predictable across platforms
	skipSystemLocale = true
	t.Cleanup(func() { skipSystemLocale = false })

	tests := []struct {
		name         string
		lcAll        string
		lcMonetary   string
		lang         string
		wantCurrency string
	}{
		{
			name:         "LC_ALL takes priority",
			lcAll:        "sv_SE.UTF-8",
			lcMonetary:   "en_US.UTF-8",
			lang:         "de_DE.UTF-8",
			wantCurrency: "SEK",
		},
		{
			name:         "LC_MONETARY when LC_ALL empty",
			lcMonetary:   "en_US.UTF-8",
			lang:         "de_DE.UTF-8",
			wantCurrency: "USD",
		},
		{
			name:         "LANG as fallback",
			lang:         "de_DE.UTF-8",
			wantCurrency: "EUR",
		},
		{
			name:         "No detection when all empty",
			wantCurrency: "",
		},
		{
			name:         "Skip C and POSIX locales",
			lcAll:        "POSIX",
			lcMonetary:   "C",
			lang:         "nb_NO.UTF-8",
			wantCurrency: "NOK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LC_MONETARY", tt.lcMonetary)
			t.Setenv("LANG", tt.lang)

			got := DetectSystemCurrency()
			if got != tt.wantCurrency {
				t.Errorf("DetectSystemCurrency() = %q, want %q", got, tt.wantCurrency)
			}
		})
	}
}
