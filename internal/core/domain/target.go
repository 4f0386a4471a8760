package domain

import (
	"fmt"

	"prodeck/internal/platform/urlutil"
)

// Target is the site one pipeline run scrapes.
type Target struct {
	// BaseURL is the normalized entry URL, scheme included.
	BaseURL string

	// Domain is the hostname crawl scope is checked against.
	Domain string

	// Metadata carries free-form annotations for the run.
	Metadata map[string]string
}

// NewTarget builds a target from raw user input. A missing scheme is
// auto-prepended as https.
func NewTarget(rawURL string) *Target {
	base := urlutil.EnsureScheme(rawURL)
	return &Target{
		BaseURL:  base,
		Domain:   urlutil.Domain(base),
		Metadata: make(map[string]string),
	}
}

// Validate verifies the target is usable.
func (t *Target) Validate() error {
	if t.BaseURL == "" {
		return ErrEmptyTarget
	}
	if t.Domain == "" {
		return fmt.Errorf("%w: %s", ErrInvalidTarget, t.BaseURL)
	}
	return nil
}

// InScope reports whether a URL belongs to the target's domain.
func (t *Target) InScope(rawURL string) bool {
	return urlutil.SameDomain(rawURL, t.Domain)
}

func (t *Target) String() string {
	return t.Domain
}
