// Package usecases wires the pipeline stages into the single run
// operation the CLI invokes.
package usecases

import (
	"context"
	"fmt"
	"time"

	"prodeck/internal/core/domain"
	"prodeck/internal/core/ports"
	"prodeck/internal/deck"
	"prodeck/internal/filter"
	"prodeck/internal/images"
	"prodeck/internal/platform/errors"
	"prodeck/internal/platform/logx"
)

// Pipeline runs the scrape end to end: analyze the target, discover
// candidates through an ordered strategy list, filter, download, and
// compose the output artifact.
type Pipeline struct {
	strategies []ports.Strategy
	filter     *filter.Filter
	engine     *images.Engine
	composer   *deck.Composer
	notifier   ports.Notifier
	logger     logx.Logger
}

// Options carries the pipeline's collaborators.
type Options struct {
	Strategies []ports.Strategy
	Filter     *filter.Filter
	Engine     *images.Engine
	Composer   *deck.Composer
	Notifier   ports.Notifier
	Logger     logx.Logger
}

// NewPipeline creates a pipeline. Strategy order is significant: the
// first strategy to produce candidates wins.
func NewPipeline(opts Options) *Pipeline {
	if opts.Notifier == nil {
		opts.Notifier = ports.NoopNotifier{}
	}
	return &Pipeline{
		strategies: opts.Strategies,
		filter:     opts.Filter,
		engine:     opts.Engine,
		composer:   opts.Composer,
		notifier:   opts.Notifier,
		logger:     opts.Logger.With("component", "pipeline"),
	}
}

// Result is the outcome of a completed run.
type Result struct {
	// Artifact is the composed deliverable, not yet persisted.
	Artifact *domain.OutputArtifact

	// Strategy names the discovery strategy that produced candidates.
	Strategy string

	Counts   ports.RunCounts
	Duration time.Duration
}

// Run executes the full pipeline against the raw target URL. Each
// empty-stage outcome maps to its own sentinel so the CLI can explain
// exactly where the run died.
func (p *Pipeline) Run(ctx context.Context, rawURL string) (*Result, error) {
	started := time.Now()
	var counts ports.RunCounts

	p.notifier.StageStarted(ports.StageAnalyze, rawURL)
	target := domain.NewTarget(rawURL)
	if err := target.Validate(); err != nil {
		return nil, err
	}
	p.logger.Info("target analyzed", "domain", target.Domain, "base", target.BaseURL)
	p.notifier.StageFinished(ports.StageAnalyze, counts)

	discovery, err := p.discover(ctx, target)
	if err != nil {
		return nil, err
	}
	counts.PagesVisited = discovery.PagesVisited
	counts.Candidates = len(discovery.Candidates)
	p.notifier.StageFinished(ports.StageDiscover, counts)

	p.notifier.StageStarted(ports.StageFilter, fmt.Sprintf("%d candidates", counts.Candidates))
	urls := p.filter.Apply(discovery.Candidates)
	if len(urls) == 0 {
		return nil, domain.ErrNoneRelevant
	}
	counts.Filtered = len(urls)
	p.notifier.StageFinished(ports.StageFilter, counts)

	p.notifier.StageStarted(ports.StageDownload, fmt.Sprintf("%d urls", len(urls)))
	validated := p.engine.DownloadAll(ctx, urls)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(validated) == 0 {
		return nil, domain.ErrNoValidImages
	}
	counts.Downloaded = len(validated)
	p.notifier.StageFinished(ports.StageDownload, counts)

	p.notifier.StageStarted(ports.StageCompose, fmt.Sprintf("%d images", len(validated)))
	artifact, err := p.composer.Compose(validated, target.Domain)
	if err != nil {
		return nil, err
	}
	counts.Batches = artifact.Batches
	p.notifier.StageFinished(ports.StageCompose, counts)

	return &Result{
		Artifact: artifact,
		Strategy: discovery.Strategy,
		Counts:   counts,
		Duration: time.Since(started),
	}, nil
}

// discover walks the ordered strategy list. A strategy signalling
// unavailability, or returning nothing, yields to the next; any other
// error aborts the run. All strategies exhausted without candidates is
// the ErrNoCandidates condition.
func (p *Pipeline) discover(ctx context.Context, target *domain.Target) (*domain.Discovery, error) {
	if len(p.strategies) == 0 {
		return nil, domain.ErrNoStrategies
	}
	for _, s := range p.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p.notifier.StageStarted(ports.StageDiscover, s.Name())
		discovery, err := s.Discover(ctx, target)
		if err != nil {
			if errors.IsStrategyUnavailable(err) {
				p.logger.Info("strategy unavailable, falling through",
					"strategy", s.Name(),
					"reason", err.Error(),
				)
				p.notifier.Log(fmt.Sprintf("%s unavailable, trying next", s.Name()))
				continue
			}
			return nil, fmt.Errorf("strategy %s: %w", s.Name(), err)
		}

		if discovery == nil || len(discovery.Candidates) == 0 {
			p.logger.Info("strategy found nothing, falling through", "strategy", s.Name())
			continue
		}

		p.logger.Info("discovery complete",
			"strategy", s.Name(),
			"candidates", len(discovery.Candidates),
			"pages", discovery.PagesVisited,
		)
		return discovery, nil
	}

	return nil, domain.ErrNoCandidates
}

// Close releases every strategy's resources.
func (p *Pipeline) Close() {
	for _, s := range p.strategies {
		if err := s.Close(); err != nil {
			p.logger.Warn("strategy close failed", "strategy", s.Name(), "error", err.Error())
		}
	}
}
