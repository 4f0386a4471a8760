package extract

import (
	"regexp"
	"strings"
)

var (
	// cssURLPattern matches url(...) references in inline styles.
	cssURLPattern = regexp.MustCompile(`url\(['"]?([^'")]+)['"]?\)`)

	// rawURLPattern matches absolute and protocol-relative URLs in raw
	// HTML or JSON text, stopping at quotes, whitespace, and escapes.
	rawURLPattern = regexp.MustCompile(`(?:https?:)?//[^\s"'<>\\]+`)
)

// extractFallback sweeps the raw page text for anything that looks
// like an image URL. Only runs when structural extraction found
// nothing, to recover sites whose markup is JS-rendered or whose
// images live inside data blobs.
func (e *Extractor) extractFallback(pageURL, pageHTML string, data *PageData) {
	// JSON-escaped slashes show up inside embedded blobs; unescape
	// before matching or those URLs are invisible to the pattern.
	cleaned := strings.ReplaceAll(pageHTML, `\/`, `/`)

	seen := make(map[string]bool)
	for _, match := range rawURLPattern.FindAllString(cleaned, -1) {
		if e.full(data) {
			return
		}
		if seen[match] {
			continue
		}
		seen[match] = true
		e.addCandidate(data, absolutize(pageURL, match), "", "")
	}
}

// absolutize gives protocol-relative matches the page's scheme.
func absolutize(pageURL, match string) string {
	if strings.HasPrefix(match, "//") {
		scheme := "https:"
		if strings.HasPrefix(pageURL, "http://") {
			scheme = "http:"
		}
		return scheme + match
	}
	return match
}
