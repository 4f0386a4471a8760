package domain

import "strings"

// ImageCandidate is an unfiltered image URL discovered during
// extraction, together with the DOM context the relevance filter needs.
// Candidates are created by the extractor, consumed once by the
// filter, and not retained afterward.
type ImageCandidate struct {
	// URL is the absolute image URL.
	URL string

	// Context is the lowercased, space-joined class tokens plus id of
	// the immediate container element. Empty for candidates found
	// outside the DOM (regex fallback, JSON blobs).
	Context string

	// Alt is the lowercased alt text, when present.
	Alt string
}

// NewImageCandidate builds a candidate with context and alt lowercased
// once, so the filter can do plain substring checks.
func NewImageCandidate(url, context, alt string) ImageCandidate {
	return ImageCandidate{
		URL:     url,
		Context: strings.ToLower(strings.TrimSpace(context)),
		Alt:     strings.ToLower(strings.TrimSpace(alt)),
	}
}

// Discovery is the output of one discovery strategy: the candidates it
// found and how it found them.
type Discovery struct {
	// Strategy names the strategy that produced this discovery.
	Strategy string

	// Candidates holds every image candidate, duplicates included.
	// The relevance filter collapses them.
	Candidates []ImageCandidate

	// PagesVisited counts the pages the strategy fetched.
	PagesVisited int
}

// NewDiscovery creates an empty discovery for a strategy.
func NewDiscovery(strategy string) *Discovery {
	return &Discovery{Strategy: strategy}
}

// Add appends a candidate.
func (d *Discovery) Add(c ImageCandidate) {
	d.Candidates = append(d.Candidates, c)
}

// AddURL appends a bare-URL candidate with a fixed context label.
func (d *Discovery) AddURL(url, context string) {
	d.Add(NewImageCandidate(url, context, ""))
}
