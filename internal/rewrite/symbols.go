// Package rewrite applies text-to-text transforms to fetched HTML: glyph
// image tags become Unicode entities and relative URLs become absolute.
package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// Journal pages of a certain vintage render special characters as inline
// <img> tags pointing under /__chars/. The tables below cover the glyphs
// seen in practice; anything else under /__chars/ is left alone and counted
// as unrecognized.

// greekOrder maps to consecutive code points starting at U+03B1 (945).
var greekOrder = []string{
	"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta",
	"iota", "kappa", "lambda", "mu", "nu", "xi", "omicron", "pi", "rho",
	"sigma", "tau", "upsilon", "phi", "chi", "psi", "omega",
}

// mathSymbols live under /__chars/math/special/<name>/.
var mathSymbols = []struct {
	name string
	code int
}{
	{"sim", 126},     // tilde / similarity
	{"plusmn", 177},  // plus-minus
	{"times", 215},   // multiplication
	{"lfen", 9001},   // left fence / chevron
	{"rfen", 9002},   // right fence / chevron
}

// otherSymbols use one-off paths.
var otherSymbols = []struct {
	path string
	code int
}{
	{"less/special/le", 8804}, // less-than-or-equal
	{"micro", 956},            // micro, same glyph as Greek mu
	{"plus/special/plusmn", 177},
}

type symbolRule struct {
	pattern *regexp.Regexp
	entity  string
}

const unrecognizedMarker = `src="/__chars`

var symbolRules = buildSymbolRules()

func buildSymbolRules() []symbolRule {
	var rules []symbolRule
	add := func(path string, code int) {
		rules = append(rules, symbolRule{
			pattern: regexp.MustCompile(`<img\s[^>]*?src="/__chars/` + path + `/[^>]*>`),
			entity:  fmt.Sprintf("&#%d;", code),
		})
	}
	for i, name := range greekOrder {
		add(name, 945+i)
	}
	for _, s := range mathSymbols {
		add("math/special/"+s.name, s.code)
	}
	for _, s := range otherSymbols {
		add(s.path, s.code)
	}
	return rules
}

// SymbolStats reports what Symbols did, for diagnostics.
type SymbolStats struct {
	Replaced     int // glyph image tags rewritten to entities
	Unrecognized int // /__chars/ references left untouched
}

// Symbols replaces known glyph image tags with HTML numeric character
// entities. Unmatched /__chars/ references are left untouched and counted.
// Applying Symbols to its own output is a no-op: entities do not match the
// image-tag patterns.
func Symbols(html string) (string, SymbolStats) {
	var stats SymbolStats
	for _, rule := range symbolRules {
		html = rule.pattern.ReplaceAllStringFunc(html, func(string) string {
			stats.Replaced++
			return rule.entity
		})
	}
	stats.Unrecognized = strings.Count(html, unrecognizedMarker)
	return html, stats
}
