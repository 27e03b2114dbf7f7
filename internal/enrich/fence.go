package enrich

import (
	"regexp"
	"strings"
)

// Generative models love wrapping JSON in Markdown fences no matter how
// firmly the prompt forbids it.
var (
	fenceOpen  = regexp.MustCompile("(?im)^```json")
	fenceClose = regexp.MustCompile("(?im)```$")
)

// StripCodeFence removes a leading ```json fence and a trailing ```
// fence from a model response, then trims surrounding whitespace. Text
// without fences passes through unchanged.
func StripCodeFence(s string) string {
	if loc := fenceOpen.FindStringIndex(s); loc != nil {
		s = s[:loc[0]] + s[loc[1]:]
	}
	if loc := fenceClose.FindStringIndex(s); loc != nil {
		s = s[:loc[0]] + s[loc[1]:]
	}
	return strings.TrimSpace(s)
}
