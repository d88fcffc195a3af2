// Package quantity interprets the amount and unit tokens printed on recipe
// cards: vulgar fractions, slash fractions, mixed numbers and the short unit
// abbreviations used next to them.
package quantity

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// decimalPattern is a plain integer or decimal. ParseFloat alone would also
// take "NaN", "Inf" and exponents.
var decimalPattern = regexp.MustCompile(`^\d*\.?\d+$`)

// vulgarFractions maps single-glyph fractions to their decimal value.
var vulgarFractions = map[rune]float64{
	'½': 0.5,
	'⅓': 1.0 / 3.0,
	'⅔': 2.0 / 3.0,
	'¼': 0.25,
	'¾': 0.75,
	'⅕': 0.2,
	'⅖': 0.4,
	'⅗': 0.6,
	'⅘': 0.8,
	'⅙': 1.0 / 6.0,
	'⅚': 5.0 / 6.0,
	'⅛': 0.125,
	'⅜': 0.375,
	'⅝': 0.625,
	'⅞': 0.875,
}

// fractionSlash is U+2044, which some OCR engines emit instead of '/'.
const fractionSlash = "⁄"

// IsVulgarFraction reports whether r is a single-glyph fraction such as ½.
func IsVulgarFraction(r rune) bool {
	_, ok := vulgarFractions[r]
	return ok
}

// ContainsVulgarFraction reports whether s contains any single-glyph fraction.
func ContainsVulgarFraction(s string) bool {
	for _, r := range s {
		if IsVulgarFraction(r) {
			return true
		}
	}
	return false
}

// Parse converts an amount token into its numeric value. It accepts a single
// vulgar fraction ("¾"), a slash fraction ("1/2"), a mixed number with or
// without a space ("1½", "1 1/2") and plain decimals or integers. The second
// return value is false when the token is not numeric.
func Parse(token string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(token, fractionSlash, "/"))
	if s == "" {
		return 0, false
	}

	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		if v, ok := vulgarFractions[r]; ok {
			return v, true
		}
	}

	if !strings.ContainsAny(s, " \t") && strings.Count(s, "/") == 1 {
		return parseSlash(s)
	}

	if v, ok := parseMixed(s); ok {
		return v, true
	}

	return parseDecimal(s)
}

func parseDecimal(s string) (float64, bool) {
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseSlash(s string) (float64, bool) {
	num, den, _ := strings.Cut(s, "/")
	a, ok := parseDecimal(num)
	if !ok {
		return 0, false
	}
	b, ok := parseDecimal(den)
	if !ok || b == 0 {
		return 0, false
	}
	return a / b, true
}

// parseMixed handles "1½" and "1 1/2".
func parseMixed(s string) (float64, bool) {
	if whole, frac, ok := strings.Cut(s, " "); ok {
		frac = strings.TrimSpace(frac)
		w, err := strconv.Atoi(whole)
		if err != nil || frac == "" || strings.ContainsAny(frac, " \t") {
			return 0, false
		}
		f, ok := Parse(frac)
		if !ok || f >= 1 {
			return 0, false
		}
		return float64(w) + f, true
	}

	last, size := utf8.DecodeLastRuneInString(s)
	f, ok := vulgarFractions[last]
	if !ok || size == len(s) {
		return 0, false
	}
	w, err := strconv.Atoi(s[:len(s)-size])
	if err != nil {
		return 0, false
	}
	return float64(w) + f, true
}
