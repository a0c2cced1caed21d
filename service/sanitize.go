package service

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// maxUnescapeRounds bounds decoding of repeatedly escaped input.
const maxUnescapeRounds = 3

var strictHTMLPolicy = bluemonday.StrictPolicy()

// sanitizeVariable strips markup and control characters from a template
// variable value. Entities are decoded before the policy runs so escaped
// markup is stripped too; the policy's own escaping is decoded afterwards
// because account names are stored as plain text, and any angle bracket
// left over is dropped.
func sanitizeVariable(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsPrint(r):
			return r
		default:
			return -1
		}
	}, s)

	for i := 0; i < maxUnescapeRounds; i++ {
		unescaped := html.UnescapeString(s)
		if unescaped == s {
			break
		}
		s = unescaped
	}

	s = html.UnescapeString(strictHTMLPolicy.Sanitize(s))
	s = strings.Map(func(r rune) rune {
		if r == '<' || r == '>' {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
