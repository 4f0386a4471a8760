// Package crawler implements generic HTML discovery: a bounded
// breadth-first crawl of the target site, extracting image candidates
// from every page it visits.
package crawler

import (
	"context"
	"strings"

	"prodeck/internal/core/domain"
	"prodeck/internal/core/ports"
	"prodeck/internal/extract"
	"prodeck/internal/platform/httpclient"
	"prodeck/internal/platform/logx"
	"prodeck/internal/platform/urlutil"
)

// shopPathKeywords restrict traversal to pages likely to show
// products. Only consulted when FullSite is off.
var shopPathKeywords = []string{"product", "collection", "shop", "category", "furniture"}

// Crawler discovers candidates by walking same-domain links
// breadth-first up to a page ceiling.
type Crawler struct {
	client    *httpclient.Client
	extractor *extract.Extractor
	logger    logx.Logger

	maxPages int
	fullSite bool

	notifier ports.Notifier
}

// Options configures the crawler strategy.
type Options struct {
	Client    *httpclient.Client
	Extractor *extract.Extractor
	Logger    logx.Logger
	MaxPages  int
	FullSite  bool
	Notifier  ports.Notifier
}

// New creates the crawl strategy.
func New(opts Options) *Crawler {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 3
	}
	if opts.Notifier == nil {
		opts.Notifier = ports.NoopNotifier{}
	}
	return &Crawler{
		client:    opts.Client,
		extractor: opts.Extractor,
		logger:    opts.Logger.With("strategy", "crawler"),
		maxPages:  opts.MaxPages,
		fullSite:  opts.FullSite,
		notifier:  opts.Notifier,
	}
}

// Name returns the strategy name.
func (c *Crawler) Name() string { return "crawler" }

// Close releases resources (none held).
func (c *Crawler) Close() error { return nil }

// Discover runs the bounded breadth-first crawl. The frontier starts
// with the base URL; each visited page contributes candidates and
// unseen in-domain links. Traversal stops when the frontier drains or
// the page ceiling is hit, whichever comes first.
func (c *Crawler) Discover(ctx context.Context, target *domain.Target) (*domain.Discovery, error) {
	discovery := domain.NewDiscovery(c.Name())

	seed, err := urlutil.Normalize(target.BaseURL)
	if err != nil {
		return nil, err
	}

	frontier := []string{seed}
	visited := make(map[string]bool)

	for len(frontier) > 0 && len(visited) < c.maxPages {
		if err := ctx.Err(); err != nil {
			return discovery, err
		}

		pageURL := frontier[0]
		frontier = frontier[1:]
		if visited[pageURL] {
			continue
		}
		visited[pageURL] = true

		page, err := c.fetchPage(ctx, pageURL, target.Domain)
		if err != nil {
			// A single bad page never aborts the crawl.
			c.logger.Debug("page skipped", "page", pageURL, "error", err.Error())
			continue
		}

		discovery.PagesVisited++
		discovery.Candidates = append(discovery.Candidates, page.Candidates...)
		c.notifier.StageProgress(ports.StageDiscover, len(discovery.Candidates), 0)

		for _, link := range page.Links {
			if visited[link] {
				continue
			}
			if !c.fullSite && !hasShopKeyword(link) {
				continue
			}
			frontier = append(frontier, link)
		}
	}

	c.logger.Info("crawl finished",
		"pages", discovery.PagesVisited,
		"candidates", len(discovery.Candidates),
	)
	return discovery, nil
}

func (c *Crawler) fetchPage(ctx context.Context, pageURL, domainName string) (*extract.PageData, error) {
	body, err := c.client.FetchBody(ctx, pageURL, 0)
	if err != nil {
		return nil, err
	}
	return c.extractor.Extract(pageURL, string(body), domainName)
}

func hasShopKeyword(link string) bool {
	lower := strings.ToLower(link)
	for _, kw := range shopPathKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
