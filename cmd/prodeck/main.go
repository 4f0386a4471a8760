// Command prodeck scrapes an e-commerce site for product images and
// packages them into slide decks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/pflag"

	"prodeck/internal/adapters/output"
	"prodeck/internal/core/domain"
	"prodeck/internal/core/ports"
	"prodeck/internal/core/usecases"
	"prodeck/internal/deck"
	"prodeck/internal/extract"
	"prodeck/internal/filter"
	"prodeck/internal/images"
	"prodeck/internal/platform/config"
	"prodeck/internal/platform/errors"
	"prodeck/internal/platform/httpclient"
	"prodeck/internal/platform/logx"
	"prodeck/internal/platform/ui"
	"prodeck/internal/strategies/browser"
	"prodeck/internal/strategies/crawler"
	"prodeck/internal/strategies/shopify"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "prodeck: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if cfg.PrintVersion {
		fmt.Printf("prodeck %s (%s)\n", version, commit)
		return nil
	}

	// The visual presenter owns the terminal; the logger only speaks
	// in quiet mode so the two never interleave.
	logger := logx.NewSilent()
	var presenter ui.Presenter
	if cfg.Quiet {
		logger = logx.New()
		presenter = ui.NewQuietPresenter(logger)
	} else {
		presenter = ui.NewPTermPresenter()
	}
	defer presenter.Close()

	if cfg.Target == "" {
		if cfg.Quiet {
			return fmt.Errorf("no target: pass -u or set PRODECK_TARGET")
		}
		if err := promptForRun(&cfg); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := httpclient.New(httpclient.Config{
		Timeout: time.Duration(cfg.TimeoutS) * time.Second,
	}, logger)
	extractor := extract.New(cfg.Crawl.CandidatesPerPage, logger)

	strategies := []ports.Strategy{
		shopify.New(shopify.Options{
			Client:   client,
			Logger:   logger,
			Delay:    time.Duration(cfg.Crawl.DelayMS) * time.Millisecond,
			Notifier: presenter,
		}),
		crawler.New(crawler.Options{
			Client:    client,
			Extractor: extractor,
			Logger:    logger,
			MaxPages:  cfg.Crawl.MaxPages,
			FullSite:  cfg.Crawl.FullSite,
			Notifier:  presenter,
		}),
	}
	if cfg.Browser {
		strategies = append(strategies, browser.New(browser.Options{
			Extractor: extractor,
			Logger:    logger,
		}))
	}

	pipeline := usecases.NewPipeline(usecases.Options{
		Strategies: strategies,
		Filter:     filter.New(cfg.Filter, logger),
		Engine:     images.NewEngine(client, cfg.Download, presenter, logger),
		Composer:   deck.NewComposer(cfg.Deck, presenter, logger),
		Notifier:   presenter,
		Logger:     logger,
	})
	defer pipeline.Close()

	presenter.Start(ui.RunInfo{
		Target:         cfg.Target,
		Workers:        cfg.Download.Workers,
		MaxImages:      cfg.Download.MaxImages,
		MaxPages:       cfg.Crawl.MaxPages,
		ImagesPerSlide: cfg.Deck.ImagesPerSlide,
	})

	result, err := pipeline.Run(ctx, cfg.Target)
	if err != nil {
		return explain(err)
	}

	writer := output.NewWriter(cfg.OutputDir, logger)
	path, err := writer.Write(result.Artifact)
	if err != nil {
		return err
	}

	presenter.Finish(ui.RunStats{
		Duration:      result.Duration,
		PagesVisited:  result.Counts.PagesVisited,
		Candidates:    result.Counts.Candidates,
		Filtered:      result.Counts.Filtered,
		Images:        result.Counts.Downloaded,
		Batches:       result.Counts.Batches,
		ArtifactBytes: len(result.Artifact.Data),
		Filename:      path,
	})
	return nil
}

// promptForRun collects the target URL and layout interactively when
// the command line did not supply a target.
func promptForRun(cfg *config.Config) error {
	perSlide := cfg.Deck.ImagesPerSlide

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Site to scrape").
				Placeholder("example-store.com").
				Description("Base URL of the shop; https:// is assumed if omitted.").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a site URL is required")
					}
					return nil
				}).
				Value(&cfg.Target),
			huh.NewSelect[int]().
				Title("Images per slide").
				Options(
					huh.NewOption("1 (full slide)", 1),
					huh.NewOption("2 (side by side)", 2),
					huh.NewOption("3 (grid, one empty)", 3),
					huh.NewOption("4 (grid)", 4),
				).
				Value(&perSlide),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Target = strings.TrimSpace(cfg.Target)
	cfg.Deck.ImagesPerSlide = perSlide
	return nil
}

// explain maps pipeline sentinels to actionable messages.
func explain(err error) error {
	switch {
	case errors.Is(err, domain.ErrNoCandidates):
		return fmt.Errorf("no image candidates found; try --browser for JavaScript-heavy sites or --full-site to widen the crawl")
	case errors.Is(err, domain.ErrNoneRelevant):
		return fmt.Errorf("candidates found, but none looked like product photography")
	case errors.Is(err, domain.ErrNoValidImages):
		return fmt.Errorf("no downloads survived validation; the site may block direct image requests")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("interrupted")
	default:
		return err
	}
}
