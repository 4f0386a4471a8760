// Package images implements the concurrent download-validate-dedupe
// engine. Every per-URL failure short-circuits to "drop, no error":
// a bad image costs the run one candidate, never the run itself.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	"prodeck/internal/core/domain"
	"prodeck/internal/core/ports"
	"prodeck/internal/platform/config"
	"prodeck/internal/platform/httpclient"
	"prodeck/internal/platform/logx"
	"prodeck/internal/platform/workerpool"
)

// Engine downloads candidate URLs with bounded concurrency and keeps
// only unique, decodable, correctly-sized images, normalized to
// bounded JPEG payloads.
type Engine struct {
	client   *httpclient.Client
	cfg      config.Download
	logger   logx.Logger
	notifier ports.Notifier
}

// NewEngine creates an engine. The engine itself is stateless; all
// mutable scrape state lives in a per-run object.
func NewEngine(client *httpclient.Client, cfg config.Download, notifier ports.Notifier, logger logx.Logger) *Engine {
	if notifier == nil {
		notifier = ports.NoopNotifier{}
	}
	return &Engine{
		client:   client,
		cfg:      cfg,
		logger:   logger.With("component", "download-engine"),
		notifier: notifier,
	}
}

// runState is the shared mutable state of one DownloadAll call: the
// seen-hash set and the growing result list, guarded by one mutex.
// Discarded when the run ends; nothing crosses runs.
type runState struct {
	mu     sync.Mutex
	seen   map[domain.ContentHash]bool
	images []*domain.ValidatedImage
	cap    int

	// cancel aborts in-flight fetches once the image cap is reached.
	cancel context.CancelFunc
}

// claimHash inserts the hash into the seen set and reports whether it
// was new. Insertion happens here, immediately after hash computation
// and under the lock, so two concurrent fetches of byte-identical
// content can never both proceed. A deliberate consequence: a hash
// whose image later fails validation stays claimed, because re-fetching
// bytes that already failed once cannot end differently within a run.
func (s *runState) claimHash(h domain.ContentHash) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[h] {
		return false
	}
	s.seen[h] = true
	return true
}

// full reports whether the global image cap is reached.
func (s *runState) full() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images) >= s.cap
}

// add appends a validated image unless the cap was reached in the
// meantime. On hitting the cap it cancels outstanding work: no new
// fetch starts, and in-flight fetches abort at their next read.
func (s *runState) add(img *domain.ValidatedImage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.images) >= s.cap {
		return false
	}
	s.images = append(s.images, img)
	if len(s.images) >= s.cap {
		s.cancel()
	}
	return true
}

// DownloadAll processes every URL through the fetch-hash-decode-
// normalize pipeline on a fixed worker pool. Results are collected in
// completion order, not submission order. Returns the validated
// images; an empty result is the caller's ErrNoValidImages condition.
func (e *Engine) DownloadAll(ctx context.Context, urls []string) []*domain.ValidatedImage {
	if len(urls) == 0 {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := &runState{
		seen:   make(map[domain.ContentHash]bool),
		cap:    e.cfg.MaxImages,
		cancel: cancel,
	}

	pool := workerpool.New(workerpool.Config{
		Workers: e.cfg.Workers,
		Logger:  e.logger,
	})
	pool.Start()
	defer pool.Stop()

	tasks := make([]workerpool.Task, 0, len(urls))
	for _, u := range urls {
		tasks = append(tasks, &downloadTask{engine: e, state: state, ctx: runCtx, url: u})
	}

	total := len(tasks)
	processed := 0
	pool.Submit(tasks, func(workerpool.TaskResult) {
		processed++
		e.notifier.StageProgress(ports.StageDownload, processed, total)
	})

	e.logger.Info("download stage finished",
		"urls", len(urls),
		"validated", len(state.images),
	)
	return state.images
}

// downloadTask is one URL's trip through the engine.
type downloadTask struct {
	engine *Engine
	state  *runState

	// ctx is the run-scoped context; it dies when the image cap is
	// reached or the caller gives up.
	ctx context.Context

	url string
}

func (t *downloadTask) Name() string { return t.url }

// Execute runs the per-URL pipeline. The returned error is
// informational only; every failure mode is a silent drop.
func (t *downloadTask) Execute(context.Context) error {
	if t.state.full() || t.ctx.Err() != nil {
		return nil
	}

	raw, err := t.engine.fetchRaw(t.ctx, t.url)
	if err != nil {
		t.engine.logger.Debug("fetch dropped", "url", t.url, "error", err.Error())
		return nil
	}

	hash := domain.HashBytes(raw)
	if !t.state.claimHash(hash) {
		t.engine.logger.Debug("duplicate content dropped", "url", t.url)
		return nil
	}

	img, err := t.engine.normalize(raw)
	if err != nil {
		t.engine.logger.Debug("validation dropped", "url", t.url, "reason", err.Error())
		return nil
	}

	img.SourceURL = t.url
	img.Hash = hash
	t.state.add(img)
	return nil
}

// fetchRaw streams the image body with a running byte counter,
// aborting as soon as the cumulative size passes the ceiling. An
// oversized response is never fully buffered.
func (e *Engine) fetchRaw(ctx context.Context, url string) ([]byte, error) {
	resp, err := e.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := httpclient.CheckStatus(resp); err != nil {
		return nil, err
	}

	// Trust a declared length when it already exceeds the ceiling.
	if resp.ContentLength > e.cfg.MaxFileBytes {
		return nil, fmt.Errorf("declared size %d over ceiling", resp.ContentLength)
	}

	return httpclient.ReadAtMost(resp.Body, e.cfg.MaxFileBytes)
}

// normalize decodes, gates, downscales, flattens, and re-encodes one
// raw payload.
func (e *Engine) normalize(raw []byte) (*domain.ValidatedImage, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode failed: %v", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width < e.cfg.MinWidth || height < e.cfg.MinHeight {
		return nil, fmt.Errorf("too small: %dx%d", width, height)
	}
	// Icons and logos are disproportionately square and smaller than
	// genuine product photography, hence the separate square gate.
	if width == height && width < e.cfg.MinSquare {
		return nil, fmt.Errorf("square below threshold: %dx%d", width, height)
	}

	flat := flattenToRGB(src, e.cfg.MaxDimension)

	var buf bytes.Buffer
	if err := encodeJPEG(&buf, flat, e.cfg.JPEGQuality); err != nil {
		return nil, fmt.Errorf("encode failed: %v", err)
	}

	out := flat.Bounds()
	return &domain.ValidatedImage{
		Data:   buf.Bytes(),
		Width:  out.Dx(),
		Height: out.Dy(),
	}, nil
}
