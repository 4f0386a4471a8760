// Package filter classifies image candidates as product photography or
// chrome. The policy is conjunctive: a candidate must prove relevance
// (product context or an accept keyword), not merely avoid proving
// irrelevance.
package filter

import (
	"strings"

	"prodeck/internal/core/domain"
	"prodeck/internal/platform/config"
	"prodeck/internal/platform/logx"
	"prodeck/internal/platform/urlutil"
)

// Filter applies the relevance rules with a configured vocabulary.
type Filter struct {
	vocab  config.Vocabulary
	logger logx.Logger
}

// New creates a filter.
func New(vocab config.Vocabulary, logger logx.Logger) *Filter {
	return &Filter{
		vocab:  vocab,
		logger: logger.With("component", "filter"),
	}
}

// Apply reduces candidates to the ordered unique URLs worth
// downloading. Order is first-seen; duplicates by exact URL collapse.
//
// Rules, in order:
//  1. Ignore-container context is absolute: header/footer/nav chrome
//     never survives, whatever the URL says.
//  2. A reject keyword in the URL drops the candidate unless an accept
//     keyword is also present (accept overrides reject).
//  3. The URL must carry a recognized raster extension.
//  4. The candidate must have a positive signal: product-container
//     context or an accept keyword.
func (f *Filter) Apply(candidates []domain.ImageCandidate) []string {
	var kept []string
	seen := make(map[string]bool)

	for _, c := range candidates {
		if !f.relevant(c) {
			continue
		}
		if seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		kept = append(kept, c.URL)
	}

	f.logger.Debug("filter applied", "in", len(candidates), "out", len(kept))
	return kept
}

func (f *Filter) relevant(c domain.ImageCandidate) bool {
	if containsAny(c.Context, f.vocab.IgnoreContainers) {
		return false
	}

	urlLower := strings.ToLower(c.URL)
	hasAccept := containsAny(urlLower, f.vocab.AcceptKeywords)
	if containsAny(urlLower, f.vocab.RejectKeywords) && !hasAccept {
		return false
	}

	if !urlutil.HasRasterExtension(c.URL) {
		return false
	}

	return hasAccept || containsAny(c.Context, f.vocab.ProductContainers)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
