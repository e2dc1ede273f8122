package versioning

import (
	"regexp"
	"strings"
)

// WhitelistPattern builds an anchored alternation that matches exactly the
// given names. It returns "" for an empty list.
func WhitelistPattern(names []string) string {
	if len(names) == 0 {
		return ""
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return "^(?:" + strings.Join(quoted, "|") + ")$"
}

// compileWhitelist compiles WhitelistPattern(names); nil matches nothing.
func compileWhitelist(names []string) *regexp.Regexp {
	pattern := WhitelistPattern(names)
	if pattern == "" {
		return nil
	}
	return regexp.MustCompile(pattern)
}

func matches(re *regexp.Regexp, s string) bool {
	return re != nil && re.MatchString(s)
}
