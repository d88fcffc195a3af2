package ingredient

import (
	"strings"

	"recipecard/internal/quantity"
)

// cluster is a run of tokens that reads as "amount [unit]". start and end
// index the segment's tokens; end is exclusive.
type cluster struct {
	start int
	end   int
	text  string
}

// parenthesized reports whether the cluster is wrapped in parentheses.
func (c cluster) parenthesized() bool {
	return strings.HasPrefix(c.text, "(")
}

// amount returns the cluster text without wrapping punctuation.
func (c cluster) amount() string {
	t := strings.TrimRight(c.text, ",")
	if strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")") {
		t = t[1 : len(t)-1]
	}
	return strings.TrimSpace(t)
}

// metric reports whether the cluster carries a metric unit, either as its
// own token or glued to the number ("500g").
func (c cluster) metric(tokens []string) bool {
	for _, t := range tokens[c.start:c.end] {
		if quantity.IsMetricUnit(t) {
			return true
		}
	}
	return gluedMetric.MatchString(strings.Trim(tokens[c.start], "(),"))
}

// imperial reports whether the cluster has a non-metric unit token.
func (c cluster) imperial(tokens []string) bool {
	for _, t := range tokens[c.start+1 : c.end] {
		if quantity.IsImperialUnit(t) {
			return true
		}
	}
	return false
}

// scanCluster reads one cluster at the stream position. The states are:
// expect an amount, optionally complete a mixed number with a fraction, then
// optionally take a unit.
func scanCluster(s *tokenStream) (cluster, bool) {
	first, ok := s.peek()
	if !ok || !quantity.IsAmount(first) {
		return cluster{}, false
	}
	c := cluster{start: s.pos}
	s.advance()

	if next, ok := s.peek(); ok && isWholeNumber(first) && isFractionToken(next) {
		s.advance()
	}
	if next, ok := s.peek(); ok && quantity.IsUnit(next) && !quantity.IsAmount(next) {
		s.advance()
	}

	c.end = s.pos
	c.text = strings.Join(s.tokens[c.start:c.end], " ")
	return c, true
}

// findClusters returns every cluster of a segment in order.
func findClusters(tokens []string) []cluster {
	s := newTokenStream(tokens)
	var out []cluster
	for !s.done() {
		if c, ok := scanCluster(s); ok {
			out = append(out, c)
			continue
		}
		s.advance()
	}
	return out
}

// splitSegments cuts a line into one token run per ingredient. A new segment
// starts at an amount when the current segment already has a name and the
// amount's cluster is followed by a name word.
func splitSegments(tokens []string) [][]string {
	s := newTokenStream(tokens)
	var segments [][]string
	start := 0
	hasName := false

	for !s.done() {
		pos := s.pos
		c, ok := scanCluster(s)
		if !ok {
			tok, _ := s.peek()
			if isNameWord(tok) {
				hasName = true
			}
			s.advance()
			continue
		}
		if pos > start && hasName && c.end < len(tokens) && isNameWord(tokens[c.end]) {
			segments = append(segments, tokens[start:pos])
			start = pos
			hasName = false
		}
	}
	return append(segments, tokens[start:])
}
