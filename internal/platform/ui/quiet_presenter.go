package ui

import (
	"time"

	"prodeck/internal/core/ports"
	"prodeck/internal/platform/logx"
)

// QuietPresenter reports milestones through the logger only. Used for
// -q runs and anywhere a terminal is not available.
type QuietPresenter struct {
	logger logx.Logger
}

// NewQuietPresenter creates a presenter that logs instead of drawing.
func NewQuietPresenter(logger logx.Logger) *QuietPresenter {
	return &QuietPresenter{logger: logger.With("component", "presenter")}
}

func (q *QuietPresenter) Start(info RunInfo) {
	q.logger.Info("run started",
		"target", info.Target,
		"workers", info.Workers,
		"max_images", info.MaxImages,
		"max_pages", info.MaxPages,
	)
}

func (q *QuietPresenter) StageStarted(stage ports.Stage, detail string) {
	q.logger.Info("stage started", "stage", stage, "detail", detail)
}

func (q *QuietPresenter) StageProgress(stage ports.Stage, done, total int) {
	q.logger.Debug("stage progress", "stage", stage, "done", done, "total", total)
}

func (q *QuietPresenter) StageFinished(stage ports.Stage, counts ports.RunCounts) {
	q.logger.Info("stage finished",
		"stage", stage,
		"pages", counts.PagesVisited,
		"candidates", counts.Candidates,
		"filtered", counts.Filtered,
		"downloaded", counts.Downloaded,
		"batches", counts.Batches,
	)
}

func (q *QuietPresenter) Log(msg string) {
	q.logger.Info(msg)
}

func (q *QuietPresenter) Finish(stats RunStats) {
	q.logger.Info("run finished",
		"duration", stats.Duration.Round(time.Millisecond),
		"images", stats.Images,
		"batches", stats.Batches,
		"artifact", stats.Filename,
		"bytes", stats.ArtifactBytes,
	)
}

func (q *QuietPresenter) Close() error { return nil }
