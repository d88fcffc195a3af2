package ingredient

import (
	"regexp"
	"strings"
)

const (
	metricNumber = `\d+(?:[.,]\d+)?(?:\s*[-–]\s*\d+(?:[.,]\d+)?)?`
	metricUnit   = `(?:mL|ml|L|g|kg)`
)

var (
	// "(250 mL)", "(about 1 kg)"
	parenMetric = regexp.MustCompile(`\(\s*([^()]*?` + metricNumber + `\s*` + metricUnit + `\b[^()]*?)\s*\)`)
	// "/ 250 mL"
	slashMetric = regexp.MustCompile(`/\s*(` + metricNumber + `\s*` + metricUnit + `)\b`)
	// "... 5 mL" at the end of the line
	trailingMetric = regexp.MustCompile(`(?:^|\s)(` + metricNumber + `\s*` + metricUnit + `)\s*$`)
	// "500g" as a single token
	gluedMetric = regexp.MustCompile(`^` + metricNumber + metricUnit + `$`)
)

var metricPatterns = []*regexp.Regexp{parenMetric, slashMetric, trailingMetric}

// scanMetric looks for a metric amount in the text that follows the imperial
// amount. It returns the metric amount and the text with the match removed.
func scanMetric(rest string) (metric, name string, ok bool) {
	for _, re := range metricPatterns {
		loc := re.FindStringSubmatchIndex(rest)
		if loc == nil {
			continue
		}
		metric = strings.TrimSpace(rest[loc[2]:loc[3]])
		name = rest[:loc[0]] + " " + rest[loc[1]:]
		return metric, strings.TrimSpace(name), true
	}
	return "", rest, false
}
