// Package ingredient turns logical ingredient lines into imperial amount,
// name and metric amount triples.
package ingredient

import (
	"strings"
	"unicode"

	"recipecard/internal/quantity"
)

// tokenStream is a cursor over the whitespace-separated tokens of a line.
type tokenStream struct {
	tokens []string
	pos    int
}

func newTokenStream(tokens []string) *tokenStream {
	return &tokenStream{tokens: tokens}
}

func (s *tokenStream) done() bool { return s.pos >= len(s.tokens) }

func (s *tokenStream) peek() (string, bool) {
	if s.done() {
		return "", false
	}
	return s.tokens[s.pos], true
}

func (s *tokenStream) advance() { s.pos++ }

// isNameWord reports whether a token can be part of an ingredient name:
// it has a letter and is neither an amount nor a unit.
func isNameWord(token string) bool {
	if quantity.IsAmount(token) || quantity.IsUnit(token) {
		return false
	}
	return strings.IndexFunc(token, unicode.IsLetter) >= 0
}

// isFractionToken reports whether token is a bare fraction that can complete
// a mixed number ("1/2", "½").
func isFractionToken(token string) bool {
	t := strings.Trim(token, "(),")
	if strings.ContainsAny(t, "/⁄") {
		return true
	}
	for _, r := range t {
		if !quantity.IsVulgarFraction(r) {
			return false
		}
	}
	return t != ""
}

func isWholeNumber(token string) bool {
	t := strings.Trim(token, "(),")
	if t == "" {
		return false
	}
	for _, r := range t {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
