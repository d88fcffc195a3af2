package layout

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"recipecard/internal/quantity"
)

var (
	metadataWords = []string{"makes", "serves", "quart"}

	// instructionStarters open the instructions block.
	instructionStarters = []string{"blend ", "cut ", "heat ", "soak ", "marinate ", "keeps "}

	// instructionPrefixes reclassify a single line as an instruction.
	instructionPrefixes = []string{
		"blend all", "cut ", "heat ", "soak ", "marinate ", "drain ",
		"when all", "set aside", "fill ", "this ", "keeps in", "see photo",
	}

	instructionKeywords = regexp.MustCompile(`\b(quarter|chop|slice|sprinkle|add|mix|combine|blend|remove|boil|heat|stir|cook|bake|set aside|cut|soak|marinate|drain|fill|top with|rub in|keep|discard|place on)\b|\brefrigerat`)

	variationsMarker = regexp.MustCompile(`\bvariations?:`)
)

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// IsMetadataLine reports whether a line reads as a yield or servings line.
// With spatial set, "cup" together with a fraction also counts.
func IsMetadataLine(text string, spatial bool) bool {
	l := lower(text)
	for _, w := range metadataWords {
		if strings.Contains(l, w) {
			return true
		}
	}
	if spatial && strings.Contains(l, "cup") &&
		(strings.Contains(l, "/") || quantity.ContainsVulgarFraction(l)) {
		return true
	}
	return false
}

// IsVariationsLine reports whether the line opens a variations block.
func IsVariationsLine(text string) bool {
	return variationsMarker.MatchString(lower(text))
}

// IsInstructionStart reports whether the line opens the instructions block.
func IsInstructionStart(text string) bool {
	l := lower(strings.TrimSpace(text))
	for _, p := range instructionStarters {
		if strings.HasPrefix(l, p) {
			return true
		}
	}
	return strings.Contains(l, "refrigerator") && strings.Contains(l, "time")
}

// IsInstructionLine reports whether a single line reads as an instruction
// rather than an ingredient.
func IsInstructionLine(text string) bool {
	l := lower(strings.TrimSpace(text))
	for _, p := range instructionPrefixes {
		if strings.HasPrefix(l, p) {
			return true
		}
	}
	return instructionKeywords.MatchString(l)
}
