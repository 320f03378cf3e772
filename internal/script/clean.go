package script

import (
	"regexp"
	"strings"
)

var (
	parenRe    = regexp.MustCompile(`\([^)]*\)`)
	bracketRe  = regexp.MustCompile(`\[[^\]]*\]`)
	reactionRe = regexp.MustCompile(`(?i)(laughter|applause|pause)`)
)

// Clean strips stage directions and audience reactions from a generated script.
//
// Parenthesized and bracketed asides are removed without nesting support, and the
// reaction words are matched as substrings, so "applaused" becomes "d". Whitespace
// runs are collapsed to single spaces.
func Clean(s string) string {
	s = parenRe.ReplaceAllString(s, "")
	s = bracketRe.ReplaceAllString(s, "")
	s = reactionRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
