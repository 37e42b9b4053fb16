package internal

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency resolves the cost unit label of a currency
type Currency struct {
	Code  string // "EUR", "SEK", "USD"
	known bool
	unit  currency.Unit
}

// symbolOverrides provides custom symbols where x/text defaults aren't ideal
var symbolOverrides = map[string]string{
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"ISK": "kr",
	"CHF": "CHF",
}

// GetCurrency returns the Currency for a given code (case-insensitive).
// Unknown codes are kept and use the code itself as symbol.
func GetCurrency(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	return Currency{
		Code:  code,
		known: err == nil,
		unit:  unit,
	}
}

// Symbol returns the narrow currency symbol used as the cost unit label
func (c Currency) Symbol() string {
	if sym, ok := symbolOverrides[c.Code]; ok {
		return sym
	}
	if !c.known {
		return c.Code
	}
	return message.NewPrinter(language.English).Sprint(currency.NarrowSymbol(c.unit))
}

// DetectSystemCurrency attempts to detect the system currency from the OS locale.
// On Linux/Unix: checks LC_ALL, LC_MONETARY, LANG env vars
// On macOS: checks env vars first, then falls back to AppleLocale system preference
// On Windows: uses GetUserDefaultLocaleName API
// Returns empty string if detection fails.
func DetectSystemCurrency() string {
	locale := detectSystemLocale()
	if locale == "" {
		return ""
	}
	code, _ := parseCurrencyFromLocale(locale)
	return code
}

// parseCurrencyFromLocale extracts currency code and language tag from a locale string.
// Examples: "sv_SE.UTF-8" -> ("SEK", sv-SE), "de_DE" -> ("EUR", de-DE)
func parseCurrencyFromLocale(locale string) (string, language.Tag) {
	// Remove encoding suffix (everything after .)
	base := locale
	if idx := strings.Index(base, "."); idx != -1 {
		base = base[:idx]
	}

	// Remove modifier suffix (everything after @)
	if idx := strings.Index(base, "@"); idx != -1 {
		base = base[:idx]
	}

	// Convert to BCP 47 format: "sv_SE" -> "sv-SE"
	tagStr := strings.Replace(base, "_", "-", 1)
	tag, err := language.Parse(tagStr)
	if err != nil {
		return "", language.Und
	}

	_, _, region := tag.Raw()
	if region.String() == "" || region.String() == "ZZ" {
		return "", language.Und
	}

	unit, ok := currency.FromRegion(region)
	if !ok {
		return "", language.Und
	}

	return unit.String(), tag
}
