// Package config centralizes every tunable of the pipeline. Values
// resolve in order: defaults, then an optional YAML file, then
// environment variables (PRODECK_*), then command-line flags.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Target is the site base URL (scheme optional on input).
	Target string `yaml:"target"`

	// OutputDir is where artifacts are written.
	OutputDir string `yaml:"output_dir"`

	// TimeoutS bounds each HTTP request, in seconds.
	TimeoutS int `yaml:"timeout_s"`

	// Quiet disables the visual presenter.
	Quiet bool `yaml:"quiet"`

	// Browser enables the chromedp-rendered discovery fallback.
	Browser bool `yaml:"browser"`

	PrintVersion bool `yaml:"-"`

	Crawl    Crawl      `yaml:"crawl"`
	Download Download   `yaml:"download"`
	Filter   Vocabulary `yaml:"filter"`
	Deck     Deck       `yaml:"deck"`
}

// Crawl bounds page discovery.
type Crawl struct {
	// MaxPages is the hard traversal ceiling.
	MaxPages int `yaml:"max_pages"`

	// FullSite crawls every in-domain link instead of only links whose
	// path contains a shop-relevant keyword.
	FullSite bool `yaml:"full_site"`

	// CandidatesPerPage caps extraction per page as memory protection.
	CandidatesPerPage int `yaml:"candidates_per_page"`

	// DelayMS is the politeness delay between structured-endpoint
	// requests, in milliseconds.
	DelayMS int `yaml:"delay_ms"`
}

// Download bounds the fetch-validate-dedupe engine.
type Download struct {
	// Workers is the fixed pool size. A deliberate ceiling to respect
	// memory and connection limits, not a performance optimum.
	Workers int `yaml:"workers"`

	// MaxImages is the global cap on validated images per run.
	MaxImages int `yaml:"max_images"`

	// MaxFileBytes aborts any single download past this size.
	MaxFileBytes int64 `yaml:"max_file_bytes"`

	MinWidth     int `yaml:"min_width"`
	MinHeight    int `yaml:"min_height"`
	MinSquare    int `yaml:"min_square"`
	MaxDimension int `yaml:"max_dimension"`
	JPEGQuality  int `yaml:"jpeg_quality"`
}

// Vocabulary holds the filter's keyword sets.
type Vocabulary struct {
	ProductContainers []string `yaml:"product_containers"`
	IgnoreContainers  []string `yaml:"ignore_containers"`
	RejectKeywords    []string `yaml:"reject_keywords"`
	AcceptKeywords    []string `yaml:"accept_keywords"`
}

// Deck shapes the output documents.
type Deck struct {
	// BatchSize is the image count per output document.
	BatchSize int `yaml:"batch_size"`

	// ImagesPerSlide is 1, 2, 3, or 4 (grid layout).
	ImagesPerSlide int `yaml:"images_per_slide"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		OutputDir: "prodeck_out",
		TimeoutS:  10,

		Crawl: Crawl{
			MaxPages:          3,
			FullSite:          false,
			CandidatesPerPage: 50,
			DelayMS:           500,
		},

		Download: Download{
			Workers:      3,
			MaxImages:    30,
			MaxFileBytes: 800 * 1024,
			MinWidth:     500,
			MinHeight:    500,
			MinSquare:    350,
			MaxDimension: 1920,
			JPEGQuality:  75,
		},

		Filter: Vocabulary{
			ProductContainers: []string{
				"product", "item", "card", "collection", "gallery", "grid", "listing",
			},
			IgnoreContainers: []string{
				"header", "footer", "nav", "menu", "svg", "button", "icon", "logo",
			},
			RejectKeywords: []string{
				"logo", "icon", "sprite", "badge", "arrow", "cart", "heart", "star",
				"payment", "visa", "mastercard", "banner", "slider", "ad", "thumb",
			},
			AcceptKeywords: []string{
				"product", "item", "furniture", "sofa", "chair", "table", "bed",
				"cabinet", "desk", "couch", "dresser", "shelf",
			},
		},

		Deck: Deck{
			BatchSize:      200,
			ImagesPerSlide: 1,
		},
	}
}

// Load resolves the configuration: defaults, YAML file, env, flags.
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	fs := pflag.NewFlagSet("prodeck", pflag.ContinueOnError)
	configFile := fs.StringP("config", "c", "", "path to YAML config file")
	target := fs.StringP("url", "u", "", "e-commerce site base URL")
	outputDir := fs.StringP("output", "o", cfg.OutputDir, "output directory")
	perSlide := fs.IntP("per-slide", "s", cfg.Deck.ImagesPerSlide, "images per slide (1-4)")
	workers := fs.IntP("workers", "w", cfg.Download.Workers, "concurrent downloads")
	maxImages := fs.Int("max-images", cfg.Download.MaxImages, "global image cap")
	maxPages := fs.Int("max-pages", cfg.Crawl.MaxPages, "crawl page ceiling")
	fullSite := fs.Bool("full-site", cfg.Crawl.FullSite, "crawl all in-domain links, not just shop paths")
	browser := fs.Bool("browser", false, "enable browser-rendered discovery fallback")
	quiet := fs.BoolP("quiet", "q", false, "disable visual progress output")
	version := fs.BoolP("version", "V", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	// YAML file, when given, overrides defaults but not env/flags.
	if *configFile != "" {
		if err := loadFromFile(&cfg, *configFile); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", *configFile, err)
		}
	}

	loadFromEnv(&cfg)

	// Flags win. Only apply the ones the user actually set.
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "url":
			cfg.Target = *target
		case "output":
			cfg.OutputDir = *outputDir
		case "per-slide":
			cfg.Deck.ImagesPerSlide = *perSlide
		case "workers":
			cfg.Download.Workers = *workers
		case "max-images":
			cfg.Download.MaxImages = *maxImages
		case "max-pages":
			cfg.Crawl.MaxPages = *maxPages
		case "full-site":
			cfg.Crawl.FullSite = *fullSite
		case "browser":
			cfg.Browser = *browser
		case "quiet":
			cfg.Quiet = *quiet
		case "version":
			cfg.PrintVersion = *version
		}
	})

	normalize(&cfg)
	return cfg, cfg.Validate()
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("PRODECK_TARGET"); v != "" {
		cfg.Target = v
	}
	if v := os.Getenv("PRODECK_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("PRODECK_WORKERS"); v != "" {
		cfg.Download.Workers = parseInt(v, cfg.Download.Workers)
	}
	if v := os.Getenv("PRODECK_MAX_IMAGES"); v != "" {
		cfg.Download.MaxImages = parseInt(v, cfg.Download.MaxImages)
	}
	if v := os.Getenv("PRODECK_MAX_PAGES"); v != "" {
		cfg.Crawl.MaxPages = parseInt(v, cfg.Crawl.MaxPages)
	}
	if v := os.Getenv("PRODECK_FULL_SITE"); v != "" {
		cfg.Crawl.FullSite = parseBool(v)
	}
	if v := os.Getenv("PRODECK_QUIET"); v != "" {
		cfg.Quiet = parseBool(v)
	}
}

// normalize clamps values into their working ranges.
func normalize(cfg *Config) {
	if cfg.Download.Workers < 1 {
		cfg.Download.Workers = 1
	}
	if cfg.Download.MaxImages < 1 {
		cfg.Download.MaxImages = 1
	}
	if cfg.Crawl.MaxPages < 1 {
		cfg.Crawl.MaxPages = 1
	}
	if cfg.Deck.ImagesPerSlide < 1 {
		cfg.Deck.ImagesPerSlide = 1
	}
	if cfg.Deck.ImagesPerSlide > 4 {
		cfg.Deck.ImagesPerSlide = 4
	}
	if cfg.TimeoutS < 1 {
		cfg.TimeoutS = 10
	}
	cfg.Target = strings.TrimSpace(cfg.Target)
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Deck.BatchSize < 1 {
		return fmt.Errorf("deck.batch_size must be positive, got %d", c.Deck.BatchSize)
	}
	if c.Download.MaxFileBytes < 1 {
		return fmt.Errorf("download.max_file_bytes must be positive, got %d", c.Download.MaxFileBytes)
	}
	if c.Download.JPEGQuality < 1 || c.Download.JPEGQuality > 100 {
		return fmt.Errorf("download.jpeg_quality must be 1-100, got %d", c.Download.JPEGQuality)
	}
	return nil
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
