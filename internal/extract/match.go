package extract

import (
	"regexp"
	"strings"
)

// PrefixMatcher matches lines carrying a known annotation token such as
// "VFX" or "ADR", tolerating the case noise OCR introduces.
type PrefixMatcher struct {
	token string
	re    *regexp.Regexp
}

// NewPrefixMatcher compiles a case-insensitive matcher for token followed
// by optional whitespace and the rest of the line.
func NewPrefixMatcher(token string) *PrefixMatcher {
	return &PrefixMatcher{
		token: token,
		re:    regexp.MustCompile(`(?i)` + regexp.QuoteMeta(token) + `\s*(.+)`),
	}
}

// Match returns the matched substring with the token normalized to upper
// case while preserving the case of the remainder, or "" when the line
// does not carry the token.
func (m *PrefixMatcher) Match(line string) string {
	matched := m.re.FindString(line)
	if matched == "" {
		return ""
	}
	n := len(m.token)
	if n > len(matched) {
		n = len(matched)
	}
	return strings.ToUpper(matched[:n]) + matched[n:]
}

// MatchPrefixed is a convenience wrapper for one-off matches.
func MatchPrefixed(line, token string) string {
	return NewPrefixMatcher(token).Match(line)
}
