// Package substitute rewrites raw source text before it is parsed.
package substitute

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/mvdocs/internal/config"
	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
)

// VersionPlaceholder is expanded to the version slug in replacement strings.
const VersionPlaceholder = "{version}"

// Rule is a compiled pattern paired with its resolved, literal replacement.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Table is an ordered, immutable list of rules.
type Table struct {
	rules []Rule
}

// NewTable compiles rs, expanding {version} to slug once.
func NewTable(rs []config.Replacement, slug string) (*Table, error) {
	rules := make([]Rule, 0, len(rs))
	for i, r := range rs {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, ferrors.ConfigError("compile replacement pattern").
				WithCause(err).
				WithContext("index", i).
				WithContext("pattern", r.Pattern).
				Build()
		}
		rules = append(rules, Rule{
			Pattern:     re,
			Replacement: strings.ReplaceAll(r.Replacement, VersionPlaceholder, slug),
		})
	}
	return &Table{rules: rules}, nil
}

// Rules returns a copy of the compiled rules.
func (t *Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Apply rewrites every non-overlapping match of every rule, in order.
// Later rules see the output of earlier ones.
func (t *Table) Apply(text string) string {
	for _, r := range t.rules {
		text = r.Pattern.ReplaceAllLiteralString(text, r.Replacement)
	}
	return text
}

// Len returns the number of rules.
func (t *Table) Len() int { return len(t.rules) }
