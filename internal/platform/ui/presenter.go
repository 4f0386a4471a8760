// Package ui renders pipeline progress on the terminal. The core only
// knows the ports.Notifier interface; everything here is presentation.
package ui

import (
	"time"

	"prodeck/internal/core/ports"
)

// RunInfo describes the run a presenter is about to display.
type RunInfo struct {
	Target         string
	Workers        int
	MaxImages      int
	MaxPages       int
	ImagesPerSlide int
}

// RunStats holds the final numbers shown when a run completes.
type RunStats struct {
	Duration      time.Duration
	PagesVisited  int
	Candidates    int
	Filtered      int
	Images        int
	Batches       int
	ArtifactBytes int
	Filename      string
}

// Presenter extends the core progress sink with lifecycle hooks that
// only the terminal front-end needs.
type Presenter interface {
	ports.Notifier

	// Start renders the run header.
	Start(info RunInfo)

	// Finish renders the final summary.
	Finish(stats RunStats)

	// Close releases presenter resources.
	Close() error
}
