// Package ports declares the interfaces between the pipeline core and
// its collaborators.
package ports

import (
	"context"

	"prodeck/internal/core/domain"
)

// Strategy is the primary port for candidate discovery. A strategy
// inspects the target its own way (structured product endpoint, HTML
// crawl, rendered crawl) and returns the image candidates it found.
//
// A strategy that cannot operate on the target returns an error
// wrapping errors.ErrStrategyUnavailable; the pipeline then falls
// through to the next strategy in its ordered list. Partial results
// are never returned alongside that signal.
type Strategy interface {
	// Name returns the unique strategy name (e.g. "shopify", "crawler").
	Name() string

	// Discover runs the strategy against the target.
	Discover(ctx context.Context, target *domain.Target) (*domain.Discovery, error)

	// Close releases resources held by the strategy.
	Close() error
}
