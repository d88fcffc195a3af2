package quantity

import (
	"regexp"
	"strings"
)

// rangePattern matches a leading numeric range such as "1-2", "2–3" or "1•2".
var rangePattern = regexp.MustCompile(`^\d+\s*[-–•]\s*\d+`)

// units is the vocabulary of imperial and metric unit names and
// abbreviations, lower-cased and without periods.
var units = []string{
	"tsp", "tsps", "teaspoon", "teaspoons",
	"tbsp", "tbsps", "tbs", "tablespoon", "tablespoons",
	"cup", "cups",
	"oz", "ounce", "ounces", "fl",
	"lb", "lbs", "pound", "pounds",
	"pint", "pints", "pt",
	"quart", "quarts", "qt",
	"gallon", "gallons", "gal",
	"ml", "milliliter", "milliliters", "millilitre", "millilitres",
	"cl", "dl",
	"l", "liter", "liters", "litre", "litres",
	"mg", "g", "gram", "grams", "kg", "kilogram", "kilograms",
	"pinch", "pinches", "dash", "dashes", "drop", "drops",
	"clove", "cloves", "sprig", "sprigs", "bunch", "bunches",
	"head", "heads", "stick", "sticks", "piece", "pieces",
	"can", "cans", "jar", "jars", "package", "packages", "pkg",
	"handful", "handfuls", "slice", "slices",
}

// longForms expands abbreviations for display.
var longForms = map[string]string{
	"tsp":   "teaspoon",
	"tsps":  "teaspoons",
	"tbsp":  "tablespoon",
	"tbs":   "tablespoon",
	"tbsps": "tablespoons",
	"oz":    "ounce",
	"lb":    "pound",
	"lbs":   "pounds",
	"pt":    "pint",
	"qt":    "quart",
	"gal":   "gallon",
	"ml":    "milliliter",
	"cl":    "centiliter",
	"dl":    "deciliter",
	"l":     "liter",
	"mg":    "milligram",
	"g":     "gram",
	"kg":    "kilogram",
	"pkg":   "package",
}

// metricUnits are the units that mark the metric column of a card.
var metricUnits = map[string]bool{
	"ml": true, "l": true, "g": true, "kg": true,
	"cl": true, "dl": true, "mg": true,
}

// stripToken removes surrounding parentheses and commas.
func stripToken(token string) string {
	return strings.Trim(strings.TrimSpace(token), "(),")
}

// normalizeUnit lower-cases a unit token and removes periods.
func normalizeUnit(token string) string {
	return strings.ReplaceAll(strings.ToLower(stripToken(token)), ".", "")
}

// IsAmount reports whether token reads as a quantity: a fraction, a range, a
// decimal or anything starting with a digit. A slash only counts when it sits
// next to a digit, so "and/or" is not an amount.
func IsAmount(token string) bool {
	s := stripToken(token)
	if s == "" {
		return false
	}
	if strings.Contains(s, "/") || strings.Contains(s, fractionSlash) {
		if strings.ContainsAny(s, "0123456789") || ContainsVulgarFraction(s) {
			return true
		}
	}
	if ContainsVulgarFraction(s) {
		return true
	}
	if rangePattern.MatchString(s) {
		return true
	}
	if _, ok := parseDecimal(s); ok {
		return true
	}
	return s[0] >= '0' && s[0] <= '9'
}

// IsUnit reports whether token names a unit or is a prefix of one.
func IsUnit(token string) bool {
	s := normalizeUnit(token)
	if s == "" {
		return false
	}
	for _, u := range units {
		if strings.HasPrefix(u, s) {
			return true
		}
	}
	return false
}

// IsMetricUnit reports whether token is one of the metric units.
func IsMetricUnit(token string) bool {
	return metricUnits[normalizeUnit(token)]
}

// IsImperialUnit reports whether token is a unit that is not metric.
func IsImperialUnit(token string) bool {
	return IsUnit(token) && !IsMetricUnit(token)
}

// ExpandUnit returns the long form of an abbreviated unit. Unknown units are
// returned unchanged.
func ExpandUnit(unit string) string {
	switch stripToken(unit) {
	case "T", "T.":
		return "tablespoon"
	case "t", "t.":
		return "teaspoon"
	}
	if long, ok := longForms[normalizeUnit(unit)]; ok {
		return long
	}
	return unit
}
