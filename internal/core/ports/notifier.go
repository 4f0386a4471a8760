package ports

// Stage identifies a pipeline phase for progress reporting.
type Stage string

const (
	StageAnalyze  Stage = "analyze"
	StageDiscover Stage = "discover"
	StageFilter   Stage = "filter"
	StageDownload Stage = "download"
	StageCompose  Stage = "compose"
)

// RunCounts carries the discrete milestone counters the pipeline
// reports as it advances.
type RunCounts struct {
	PagesVisited int
	Candidates   int
	Filtered     int
	Downloaded   int
	Batches      int
}

// Notifier is the progress sink the pipeline reports into. The UI that
// renders these events lives outside the core; a no-op implementation
// is valid.
type Notifier interface {
	// StageStarted announces a phase, with a short human detail line.
	StageStarted(stage Stage, detail string)

	// StageProgress reports done/total within the current phase.
	// total may be 0 when unknown.
	StageProgress(stage Stage, done, total int)

	// StageFinished reports the counters as of the end of a phase.
	StageFinished(stage Stage, counts RunCounts)

	// Log emits a free-form status line.
	Log(msg string)
}

// NoopNotifier discards all events.
type NoopNotifier struct{}

func (NoopNotifier) StageStarted(Stage, string)     {}
func (NoopNotifier) StageProgress(Stage, int, int)  {}
func (NoopNotifier) StageFinished(Stage, RunCounts) {}
func (NoopNotifier) Log(string)                     {}
