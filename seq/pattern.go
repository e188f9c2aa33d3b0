package seq

import (
	"regexp"
	"strconv"
	"strings"
)

// templateFromBackrefs rewrites a \1-style substitution template into the
// ${1} form understood by regexp.ReplaceAllString. Literal dollars are
// escaped; a backslash before any other character yields that character.
func templateFromBackrefs(pat string) string {
	var b strings.Builder
	for i := 0; i < len(pat); i++ {
		c := pat[i]
		switch {
		case c == '\\' && i+1 < len(pat) && isDigit(pat[i+1]):
			j := i + 1
			for j < len(pat) && isDigit(pat[j]) {
				j++
			}
			b.WriteString("${")
			b.WriteString(pat[i+1 : j])
			b.WriteString("}")
			i = j - 1
		case c == '\\' && i+1 < len(pat):
			b.WriteByte(pat[i+1])
			i++
		case c == '$':
			b.WriteString("$$")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// spliceCaptures substitutes \N backreferences in a closing pattern with the
// quoted text captured by the opening pattern's match. groups[0] is the whole
// match; only \1..\n are valid references. A reference to a missing group
// reports ok=false and the pattern is returned untouched so the caller can
// fall back to using it literally.
func spliceCaptures(pat string, groups []string) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(pat); i++ {
		c := pat[i]
		if c == '\\' && i+1 < len(pat) && isDigit(pat[i+1]) {
			j := i + 1
			for j < len(pat) && isDigit(pat[j]) {
				j++
			}
			n, err := strconv.Atoi(pat[i+1 : j])
			if err != nil || n <= 0 || n >= len(groups) {
				return pat, false
			}
			b.WriteString(regexp.QuoteMeta(groups[n]))
			i = j - 1
			continue
		}
		if c == '\\' && i+1 < len(pat) {
			b.WriteByte(c)
			b.WriteByte(pat[i+1])
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String(), true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
