package ingredient

import (
	"strings"

	"recipecard/internal/quantity"
	"recipecard/pkg/models"
)

// ToTaste is the imperial amount given to lines that start without one.
const ToTaste = "to taste"

// ParseLines parses every line in order and concatenates the results.
func ParseLines(lines []Line) []models.ParsedIngredient {
	var out []models.ParsedIngredient
	for _, l := range lines {
		out = append(out, ParseLine(l.Text())...)
	}
	return out
}

// ParseLine parses one logical ingredient line. A line may hold several
// ingredients ("2 lbs. lemons 1 kg 6 cups sugar 1.5 L"); one result is
// returned per ingredient, in order. Lines with no usable name yield nothing.
func ParseLine(line string) []models.ParsedIngredient {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) < 2 || !quantity.IsAmount(tokens[0]) {
		name := CleanName(line)
		if name == "" {
			return nil
		}
		return []models.ParsedIngredient{{ImperialAmount: ToTaste, Name: name}}
	}

	var out []models.ParsedIngredient
	for _, seg := range splitSegments(tokens) {
		if ing, ok := parseSegment(seg); ok {
			out = append(out, ing)
		}
	}
	return out
}

// parseSegment extracts one ingredient from a token run that starts with
// its imperial amount.
func parseSegment(tokens []string) (models.ParsedIngredient, bool) {
	clusters := findClusters(tokens)
	if len(clusters) == 0 || clusters[0].start != 0 {
		return models.ParsedIngredient{}, false
	}
	imperial := clusters[0]
	rest := strings.Join(tokens[imperial.end:], " ")

	var metric *string
	name := rest
	if m, n, ok := scanMetric(rest); ok {
		metric, name = &m, n
	} else if c, ok := pickMetricCluster(tokens, imperial, clusters[1:]); ok {
		m := c.amount()
		metric = &m
		name = strings.Join(tokens[imperial.end:c.start], " ")
		if strings.TrimSpace(name) == "" {
			name = strings.Join(tokens[c.end:], " ")
		}
	}

	name = CleanName(name)
	if name == "" || imperial.text == "" {
		return models.ParsedIngredient{}, false
	}
	return models.ParsedIngredient{
		ImperialAmount: imperial.amount(),
		Name:           name,
		MetricAmount:   metric,
	}, true
}

// pickMetricCluster chooses the metric amount among the clusters after the
// imperial one: a cluster with a metric unit first, then a parenthesized
// cluster, then the next cluster when the imperial amount has a unit.
func pickMetricCluster(tokens []string, imperial cluster, rest []cluster) (cluster, bool) {
	for _, c := range rest {
		if c.metric(tokens) {
			return c, true
		}
	}
	for _, c := range rest {
		if c.parenthesized() {
			return c, true
		}
	}
	if len(rest) > 0 && imperial.imperial(tokens) && rest[0].start >= imperial.end {
		return rest[0], true
	}
	return cluster{}, false
}
