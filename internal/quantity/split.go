package quantity

import (
	"strings"
)

// SplitAmount separates an amount string such as "1 1/2 tbsp." into its
// numeric value and the expanded unit ("tablespoon"). ok is false when the
// string has no leading number; "to taste" is the common case.
func SplitAmount(amount string) (value float64, unit string, ok bool) {
	fields := strings.Fields(amount)
	if len(fields) == 0 {
		return 0, "", false
	}

	n := 0
	for n < len(fields) && n < 2 && IsAmount(fields[n]) {
		n++
	}
	for n > 0 {
		if v, parsed := Parse(strings.Join(stripAll(fields[:n]), " ")); parsed {
			rest := strings.Join(fields[n:], " ")
			if rest == "" {
				return v, "", true
			}
			return v, ExpandUnit(rest), true
		}
		n--
	}

	// "500g" style tokens carry the unit inline.
	head := stripToken(fields[0])
	i := 0
	for i < len(head) && (head[i] >= '0' && head[i] <= '9' || head[i] == '.') {
		i++
	}
	if i == 0 || i == len(head) {
		return 0, "", false
	}
	v, parsed := Parse(head[:i])
	if !parsed {
		return 0, "", false
	}
	rest := strings.TrimSpace(head[i:] + " " + strings.Join(fields[1:], " "))
	return v, ExpandUnit(rest), true
}

func stripAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = stripToken(t)
	}
	return out
}
