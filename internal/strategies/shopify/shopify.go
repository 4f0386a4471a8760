// Package shopify implements structured discovery for storefronts
// exposing the conventional paginated product-listing endpoint. It
// bypasses HTML crawling entirely; when the endpoint is unusable it
// tries a small set of catalog pages before signalling the pipeline to
// fall back to the generic crawler.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"prodeck/internal/core/domain"
	"prodeck/internal/core/ports"
	"prodeck/internal/platform/errors"
	"prodeck/internal/platform/httpclient"
	"prodeck/internal/platform/logx"
	"prodeck/internal/platform/urlutil"
)

const (
	// pageSize is the endpoint's maximum page size.
	pageSize = 250

	// maxAPIPages bounds pagination on adversarial or broken hosts.
	maxAPIPages = 10

	// minFallbackHits is the smallest catalog-scrape result considered
	// a success rather than noise.
	minFallbackHits = 3
)

// catalogPaths are conventional listing pages scraped when the JSON
// endpoint is unavailable.
var catalogPaths = []string{"/collections/all", "/products", "/shop", "/collections"}

// Shopify is the structured product-endpoint strategy.
type Shopify struct {
	client   *httpclient.Client
	logger   logx.Logger
	delay    time.Duration
	notifier ports.Notifier
}

// Options configures the strategy.
type Options struct {
	Client   *httpclient.Client
	Logger   logx.Logger
	Delay    time.Duration
	Notifier ports.Notifier
}

// New creates the strategy.
func New(opts Options) *Shopify {
	if opts.Delay <= 0 {
		opts.Delay = 500 * time.Millisecond
	}
	if opts.Notifier == nil {
		opts.Notifier = ports.NoopNotifier{}
	}
	return &Shopify{
		client:   opts.Client,
		logger:   opts.Logger.With("strategy", "shopify"),
		delay:    opts.Delay,
		notifier: opts.Notifier,
	}
}

// Name returns the strategy name.
func (s *Shopify) Name() string { return "shopify" }

// Close releases resources (none held).
func (s *Shopify) Close() error { return nil }

// Discover queries the product-listing endpoint page by page. Any
// unusable status or transport error abandons the endpoint with no
// partial results; the catalog fallback then gets one chance before
// the strategy reports itself unavailable.
func (s *Shopify) Discover(ctx context.Context, target *domain.Target) (*domain.Discovery, error) {
	products, err := s.fetchAllProducts(ctx, target.BaseURL)
	if err == nil {
		discovery := domain.NewDiscovery(s.Name())
		discovery.PagesVisited = 1
		for _, u := range extractImageURLs(products) {
			discovery.AddURL(u, "product-api")
		}
		if len(discovery.Candidates) == 0 {
			return nil, fmt.Errorf("endpoint returned no product images: %w", errors.ErrStrategyUnavailable)
		}
		s.logger.Info("product endpoint succeeded",
			"products", len(products),
			"candidates", len(discovery.Candidates),
		)
		return discovery, nil
	}
	if !errors.IsStrategyUnavailable(err) {
		return nil, err
	}

	s.logger.Debug("product endpoint unavailable, trying catalog pages", "error", err.Error())
	return s.catalogFallback(ctx, target)
}

// fetchAllProducts iterates the endpoint until an empty page or the
// page ceiling. A politeness delay separates requests.
func (s *Shopify) fetchAllProducts(ctx context.Context, baseURL string) ([]product, error) {
	var all []product

	for page := 1; page <= maxAPIPages; page++ {
		url := fmt.Sprintf("%s/products.json?limit=%d&page=%d", strings.TrimRight(baseURL, "/"), pageSize, page)

		resp, err := s.client.Get(ctx, url)
		if err != nil {
			// Transport errors mean the endpoint is not usable here.
			return nil, fmt.Errorf("products.json transport error: %v: %w", err, errors.ErrStrategyUnavailable)
		}

		if httpclient.IsUnavailableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, fmt.Errorf("products.json returned HTTP %d: %w", resp.StatusCode, errors.ErrStrategyUnavailable)
		}
		if err := httpclient.CheckStatus(resp); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("products.json failed: %v: %w", err, errors.ErrStrategyUnavailable)
		}

		body, err := httpclient.ReadAtMost(resp.Body, 0)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("products.json read failed: %v: %w", err, errors.ErrStrategyUnavailable)
		}

		var listing productListing
		if err := json.Unmarshal(body, &listing); err != nil {
			// HTML error pages served with 200 land here.
			return nil, fmt.Errorf("products.json parse failed: %v: %w", err, errors.ErrStrategyUnavailable)
		}

		if len(listing.Products) == 0 {
			break
		}
		all = append(all, listing.Products...)
		s.notifier.StageProgress(ports.StageDiscover, len(all), 0)

		if len(listing.Products) < pageSize {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}

	return all, nil
}

// catalogFallback scrapes the conventional listing paths and
// regex-extracts image CDN URLs from the raw HTML. The first path
// yielding a non-trivial number of hits wins.
func (s *Shopify) catalogFallback(ctx context.Context, target *domain.Target) (*domain.Discovery, error) {
	base := strings.TrimRight(target.BaseURL, "/")

	for _, path := range catalogPaths {
		body, err := s.client.FetchBody(ctx, base+path, 0)
		if err != nil {
			continue
		}

		urls := cdnImageURLs(string(body))
		if len(urls) < minFallbackHits {
			continue
		}

		discovery := domain.NewDiscovery(s.Name())
		discovery.PagesVisited = 1
		for _, u := range urls {
			discovery.AddURL(u, "product-api")
		}
		s.logger.Info("catalog fallback succeeded", "path", path, "candidates", len(urls))
		return discovery, nil
	}

	return nil, fmt.Errorf("no catalog page yielded images: %w", errors.ErrStrategyUnavailable)
}

// cdnImageURLs sweeps raw HTML for image-CDN URLs, deduplicating by
// exact string.
func cdnImageURLs(pageHTML string) []string {
	// Unescape embedded JSON first; CDN URLs often live inside script
	// blobs with escaped slashes.
	cleaned := strings.ReplaceAll(pageHTML, `\/`, `/`)

	var urls []string
	seen := make(map[string]bool)
	for _, match := range cdnURLPattern.FindAllString(cleaned, -1) {
		if seen[match] || !urlutil.IsImageURL(match) {
			continue
		}
		seen[match] = true
		urls = append(urls, match)
	}
	return urls
}
