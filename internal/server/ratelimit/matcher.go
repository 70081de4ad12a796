package ratelimit

import (
	"strings"
)

// MatchRule returns the rule for method and path, or nil when the route is not
// limited. Exact paths win over prefixes.
func MatchRule(method, path string, rules []Rule) *Rule {
	for i := range rules {
		if rules[i].Method == method && rules[i].Path == path {
			return &rules[i]
		}
	}

	for i := range rules {
		r := &rules[i]
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r
		}
	}

	return nil
}
