package scrape

import (
	"regexp"
	"strings"
)

// MaxPhotos caps how many distinct image URLs one extraction returns.
const MaxPhotos = 10

// The image URLs we want live inside minified inline scripts as JS
// string literals, with inconsistent \uXXXX escaping, not in markup
// attributes. A DOM parser is the wrong tool for that, so this is a
// deliberately bounded pattern scan over the raw page text: grab quoted
// http(s) strings, keep the ones that look like image URLs, then clean
// up whatever escaping leaked into the match.
var (
	// quotedURL matches a double-quoted string starting with http(s),
	// free of quotes and whitespace. Backslashes are allowed so that
	// escape sequences trailing the real URL stay inside the match and
	// can be cleaned up afterwards instead of breaking it.
	quotedURL = regexp.MustCompile(`(?i)"(https?://[^"\s]+)"`)

	// imageHead requires a .jpg/.jpeg/.png extension with no quote,
	// backslash or whitespace before it, followed by end of string, a
	// query string, or an escape sequence.
	imageHead = regexp.MustCompile(`(?i)^https?://[^"\\\s]+\.(?:jpg|jpeg|png)(?:$|[?\\])`)
)

// denyList marks thumbnail, favicon and Google-internal asset URLs that
// are never venue photos.
var denyList = []string{
	"encrypted-tbn0",
	"favicon",
	"gstatic.com",
	"google.com/",
}

var escapeCleaner = strings.NewReplacer(
	`\u003d`, "=",
	`\u0026`, "&",
	`\u0022`, "",
)

// ExtractPhotoURLs scans raw HTML for embedded venue photo URLs. The
// result preserves first-occurrence order, is de-duplicated and capped
// at MaxPhotos. Finding nothing is a normal outcome and yields an empty
// slice, never an error.
func ExtractPhotoURLs(html string) []string {
	seen := make(map[string]struct{})
	urls := make([]string, 0, MaxPhotos)

	for _, m := range quotedURL.FindAllStringSubmatch(html, -1) {
		candidate := m[1]
		if !imageHead.MatchString(candidate) {
			continue
		}
		if denied(candidate) {
			continue
		}

		cleaned := cleanURL(candidate)
		if !strings.HasPrefix(cleaned, "http") {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		urls = append(urls, cleaned)
		if len(urls) == MaxPhotos {
			break
		}
	}

	return urls
}

func denied(candidate string) bool {
	for _, marker := range denyList {
		if strings.Contains(candidate, marker) {
			return true
		}
	}
	return false
}

// cleanURL undoes the unicode escapes Google's script payloads use and
// truncates at the first quote or backslash that survived, which is
// where a script context extended the match past the real URL.
func cleanURL(candidate string) string {
	cleaned := escapeCleaner.Replace(candidate)
	if i := strings.IndexByte(cleaned, '"'); i >= 0 {
		cleaned = cleaned[:i]
	}
	if i := strings.IndexByte(cleaned, '\\'); i >= 0 {
		cleaned = cleaned[:i]
	}
	return cleaned
}
