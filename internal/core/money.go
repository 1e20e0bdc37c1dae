// Package core provides the valuation calculator: Brazilian-locale number
// handling, the valuation formula and the month-deduplicated history.
//
// This file contains the pure parse/format pair for locale-formatted numbers,
// where "." groups thousands and "," separates the decimals (1.234,56).
package core

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// leadingNumber matches the longest floating-point prefix of a string.
// The third group captures the exponent, "e" included.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// Limits on what ParseLocaleNumber accepts. Anything past them parses as
// zero, like unparsable input. Rounding a decimal with a huge exponent
// builds a power of ten of that many digits.
const (
	maxNumberLength = 64
	maxExponent     = 20
)

// maxMagnitude is the smallest absolute value rejected by ParseLocaleNumber.
var maxMagnitude = decimal.New(1, 18)

var displayLocale = language.BrazilianPortuguese

// ParseLocaleNumber interprets text in the Brazilian convention.
//
// Every "." is dropped, the first "," becomes the decimal point and the
// longest numeric prefix is parsed. Empty or unparsable input yields zero,
// as does a prefix longer than 64 characters, an exponent beyond ±20 or a
// magnitude of 10^18 or more.
//
// Examples:
//	ParseLocaleNumber("1.234,56") -> 1234.56
//	ParseLocaleNumber("12abc")    -> 12
//	ParseLocaleNumber("abc")      -> 0
//	ParseLocaleNumber("1e50")     -> 0
func ParseLocaleNumber(text string) decimal.Decimal {
	s := strings.ReplaceAll(text, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	g := leadingNumber.FindStringSubmatch(s)
	if g == nil || len(g[0]) > maxNumberLength {
		return decimal.Zero
	}
	if g[3] != "" {
		exp, err := strconv.Atoi(g[3][1:])
		if err != nil || exp > maxExponent || exp < -maxExponent {
			return decimal.Zero
		}
	}

	m := strings.TrimPrefix(g[0], "+")
	m = strings.TrimSuffix(m, ".")
	if m == "" || m == "-" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m)
	if err != nil || d.Abs().GreaterThanOrEqual(maxMagnitude) {
		return decimal.Zero
	}
	return d
}

// FormatLocaleNumber normalizes a typed amount for display once the field
// loses focus: parsed by ParseLocaleNumber, rounded half away from zero and
// rendered with exactly two decimals ("1.234,50"). Empty input stays empty.
func FormatLocaleNumber(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return formatLocale(ParseLocaleNumber(text).Round(2), 2, 2)
}

// FormatBRL renders a computed amount as reais, with at least two and at
// most three decimals ("R$ 4.500,00").
func FormatBRL(v decimal.Decimal) string {
	return "R$ " + formatLocale(v.Round(3), 2, 3)
}

// formatLocale renders v digit for digit: the integer part grouped by the
// display locale, then between minFrac and maxFrac decimals after a comma.
func formatLocale(v decimal.Decimal, minFrac, maxFrac int) string {
	whole, frac, _ := strings.Cut(v.Abs().StringFixed(int32(maxFrac)), ".")
	for len(frac) > minFrac && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
	}

	out := groupThousands(whole)
	if frac != "" {
		out += "," + frac
	}
	if v.Sign() < 0 {
		out = "-" + out
	}
	return out
}

// groupThousands separates the digits of a non-negative integer in groups
// of three. Values that fit an int64 go through the locale printer.
func groupThousands(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return message.NewPrinter(displayLocale).Sprint(number.Decimal(n))
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
