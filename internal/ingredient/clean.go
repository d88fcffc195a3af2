package ingredient

import (
	"regexp"
	"strings"
)

var (
	tasteModifier = regexp.MustCompile(`(?i)(,\s*or\s+to\s+taste|\s+or\s+to\s+taste|,\s*to\s+taste|\s+to\s+taste)`)
	orSeparator   = regexp.MustCompile(`(?i) or `)
	descriptors   = regexp.MustCompile(`(?i)\b(peeled and|washed and|diced|chopped|sliced|minced|crushed|grated|shredded|finely|coarsely|roughly|fresh|dried|ground)\b`)
	trailingParen = regexp.MustCompile(`\(([^()]*)\)\s*$`)
)

var truncateMarkers = []string{" (see ", " - ", " – "}

// CleanName normalizes an ingredient name. Cleaning is repeated until the
// name stops changing, so CleanName(CleanName(s)) == CleanName(s).
func CleanName(name string) string {
	for i := 0; i < 16; i++ {
		next := cleanOnce(name)
		if next == name {
			break
		}
		name = next
	}
	return name
}

func cleanOnce(s string) string {
	s = tasteModifier.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "*", "")

	if loc := orSeparator.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}

	s = stripTrailingDescriptors(s)

	for _, m := range truncateMarkers {
		if i := strings.Index(s, m); i >= 0 {
			s = s[:i]
		}
	}

	s = strings.Join(strings.Fields(s), " ")
	return trimStray(s)
}

// stripTrailingDescriptors removes preparation words from a trailing
// parenthetical or a trailing comma modifier. A modifier left empty is
// dropped entirely.
func stripTrailingDescriptors(s string) string {
	if loc := trailingParen.FindStringSubmatchIndex(s); loc != nil {
		inner := s[loc[2]:loc[3]]
		if descriptors.MatchString(inner) {
			inner = tidy(descriptors.ReplaceAllString(inner, ""))
			if inner == "" {
				return s[:loc[0]]
			}
			return s[:loc[0]] + "(" + inner + ")"
		}
		return s
	}

	i := strings.LastIndex(s, ",")
	if i < 0 {
		return s
	}
	modifier := s[i+1:]
	if strings.ContainsAny(modifier, "()") || !descriptors.MatchString(modifier) {
		return s
	}
	modifier = tidy(descriptors.ReplaceAllString(modifier, ""))
	if modifier == "" {
		return s[:i]
	}
	return s[:i] + ", " + modifier
}

func tidy(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, " ,")
	for strings.HasPrefix(s, "and ") {
		s = strings.TrimPrefix(s, "and ")
	}
	for strings.HasSuffix(s, " and") {
		s = strings.TrimSuffix(s, " and")
	}
	if s == "and" {
		return ""
	}
	return s
}

// trimStray trims whitespace, commas and parentheses that have no partner.
func trimStray(s string) string {
	for {
		t := strings.Trim(s, " ,")
		opens, closes := strings.Count(t, "("), strings.Count(t, ")")
		switch {
		case strings.HasPrefix(t, ")"):
			t = t[1:]
		case strings.HasSuffix(t, "("):
			t = t[:len(t)-1]
		case strings.HasPrefix(t, "(") && opens > closes:
			t = t[1:]
		case strings.HasSuffix(t, ")") && closes > opens:
			t = t[:len(t)-1]
		case strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")") && opens == 1 && closes == 1:
			t = t[1 : len(t)-1]
		}
		if t == s {
			return t
		}
		s = t
	}
}
