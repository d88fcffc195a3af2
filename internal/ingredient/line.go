package ingredient

import (
	"strings"

	"recipecard/internal/quantity"
)

// Line is one logical ingredient line. Right holds the text of the metric
// column when the section was split; otherwise it is empty.
type Line struct {
	Left  string
	Right string
}

// Text returns the line as a single string, left column first.
func (l Line) Text() string {
	return joinText(l.Left, l.Right)
}

func (l Line) empty() bool {
	return strings.TrimSpace(l.Left) == "" && strings.TrimSpace(l.Right) == ""
}

func joinText(a, b string) string {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}

// IsMeasurement reports whether text is only an amount and unit with no
// ingredient name: "2", "tsp.", "2 tsp.", "1-2 tsp.", "1 tsp. 5", "1 1/2 cups".
func IsMeasurement(text string) bool {
	tokens := strings.Fields(text)
	switch len(tokens) {
	case 1:
		return quantity.IsAmount(tokens[0]) || quantity.IsUnit(tokens[0])
	case 2:
		return quantity.IsAmount(tokens[0]) && quantity.IsUnit(tokens[1])
	case 3:
		if !quantity.IsAmount(tokens[0]) {
			return false
		}
		if quantity.IsUnit(tokens[1]) {
			return quantity.IsAmount(tokens[2]) || quantity.IsUnit(tokens[2])
		}
		return isWholeNumber(tokens[0]) && isFractionToken(tokens[1]) && quantity.IsUnit(tokens[2])
	}
	return false
}

// isMeasurementLine applies IsMeasurement to a column-aware line: the left
// column must be a measurement and the right column, if any, must be one too.
func isMeasurementLine(l Line) bool {
	if !IsMeasurement(l.Left) {
		return false
	}
	return strings.TrimSpace(l.Right) == "" || IsMeasurement(l.Right)
}
