// Package browser implements rendered-page discovery through a
// headless browser. It exists for storefronts that assemble their
// galleries entirely in JavaScript, where the static crawler sees an
// empty shell. Kept last in the strategy order: it is expensive and
// most sites never need it.
package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"prodeck/internal/core/domain"
	"prodeck/internal/extract"
	"prodeck/internal/platform/errors"
	"prodeck/internal/platform/logx"
)

// Browser renders the target's base page and runs the regular
// extractor over the resulting DOM.
type Browser struct {
	extractor *extract.Extractor
	logger    logx.Logger
	timeout   time.Duration
	userAgent string
}

// Options configures the strategy.
type Options struct {
	Extractor *extract.Extractor
	Logger    logx.Logger
	Timeout   time.Duration
	UserAgent string
}

// New creates the rendered-discovery strategy.
func New(opts Options) *Browser {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	return &Browser{
		extractor: opts.Extractor,
		logger:    opts.Logger.With("strategy", "browser"),
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
	}
}

// Name returns the strategy name.
func (b *Browser) Name() string { return "browser" }

// Close releases resources (contexts are per-Discover).
func (b *Browser) Close() error { return nil }

// Discover renders the base page headlessly and extracts candidates
// from the settled DOM. A missing or failing browser is a fallback
// signal, not a run-fatal error.
func (b *Browser) Discover(ctx context.Context, target *domain.Target) (*domain.Discovery, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(b.userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, b.timeout)
	defer cancelTimeout()

	var pageHTML string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(target.BaseURL),
		chromedp.OuterHTML("html", &pageHTML),
	)
	if err != nil {
		b.logger.Warn("rendered fetch failed", "target", target.BaseURL, "error", err.Error())
		return nil, errors.Wrapf(errors.ErrStrategyUnavailable, "browser rendering failed: %v", err)
	}

	page, err := b.extractor.Extract(target.BaseURL, pageHTML, target.Domain)
	if err != nil {
		return nil, err
	}

	discovery := domain.NewDiscovery(b.Name())
	discovery.PagesVisited = 1
	discovery.Candidates = page.Candidates
	if len(discovery.Candidates) == 0 {
		return nil, errors.Wrap(errors.ErrStrategyUnavailable, "rendered page yielded no candidates")
	}

	b.logger.Info("rendered discovery finished", "candidates", len(discovery.Candidates))
	return discovery, nil
}
