package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"prodeck/internal/core/ports"
)

// stageTitles maps pipeline stages to the labels shown next to their
// spinners.
var stageTitles = map[ports.Stage]string{
	ports.StageAnalyze:  "Analyzing site",
	ports.StageDiscover: "Discovering images",
	ports.StageFilter:   "Filtering candidates",
	ports.StageDownload: "Downloading images",
	ports.StageCompose:  "Composing decks",
}

// PTermPresenter renders progress with pterm spinners and a progress
// bar for the download stage.
type PTermPresenter struct {
	mu sync.Mutex

	spinners map[ports.Stage]*pterm.SpinnerPrinter
	bar      *pterm.ProgressbarPrinter
	start    time.Time
}

// NewPTermPresenter creates a pterm-backed presenter.
func NewPTermPresenter() *PTermPresenter {
	return &PTermPresenter{
		spinners: make(map[ports.Stage]*pterm.SpinnerPrinter),
	}
}

// Start renders the run header.
func (p *PTermPresenter) Start(info RunInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.start = time.Now()

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("prodeck - Product Image Deck Builder")

	pterm.Info.Printfln("target: %s  workers: %d  image cap: %d  pages: %d  per slide: %d",
		info.Target, info.Workers, info.MaxImages, info.MaxPages, info.ImagesPerSlide)
	pterm.Println()
}

// StageStarted opens a spinner for the stage.
func (p *PTermPresenter) StageStarted(stage ports.Stage, detail string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	title := stageTitles[stage]
	if detail != "" {
		title = fmt.Sprintf("%s (%s)", title, detail)
	}
	spinner, err := pterm.DefaultSpinner.Start(title)
	if err != nil {
		return
	}
	p.spinners[stage] = spinner
}

// StageProgress drives the download progress bar; other stages only
// update their spinner text.
func (p *PTermPresenter) StageProgress(stage ports.Stage, done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if stage == ports.StageDownload && total > 0 {
		if p.bar == nil {
			bar, err := pterm.DefaultProgressbar.
				WithTotal(total).
				WithTitle("downloading").
				Start()
			if err != nil {
				return
			}
			p.bar = bar
		}
		if delta := done - p.bar.Current; delta > 0 {
			p.bar.Add(delta)
		}
		return
	}

	if spinner, ok := p.spinners[stage]; ok {
		spinner.UpdateText(fmt.Sprintf("%s: %d", stageTitles[stage], done))
	}
}

// StageFinished resolves the stage spinner with its counters.
func (p *PTermPresenter) StageFinished(stage ports.Stage, counts ports.RunCounts) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if stage == ports.StageDownload && p.bar != nil {
		p.bar.Stop()
		p.bar = nil
	}

	spinner, ok := p.spinners[stage]
	if !ok {
		return
	}
	delete(p.spinners, stage)

	switch stage {
	case ports.StageDiscover:
		spinner.Success(fmt.Sprintf("found %d candidates across %d pages", counts.Candidates, counts.PagesVisited))
	case ports.StageFilter:
		spinner.Success(fmt.Sprintf("kept %d of %d candidates", counts.Filtered, counts.Candidates))
	case ports.StageDownload:
		spinner.Success(fmt.Sprintf("validated %d images", counts.Downloaded))
	case ports.StageCompose:
		spinner.Success(fmt.Sprintf("composed %d batch(es)", counts.Batches))
	default:
		spinner.Success(stageTitles[stage])
	}
}

// Log prints a status line without disturbing active spinners.
func (p *PTermPresenter) Log(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pterm.Debug.Println(msg)
}

// Finish renders the final summary table.
func (p *PTermPresenter) Finish(stats RunStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Println()
	pterm.Success.Printfln("done in %s", stats.Duration.Round(time.Millisecond))

	data := pterm.TableData{
		{"Pages visited", fmt.Sprintf("%d", stats.PagesVisited)},
		{"Candidates", fmt.Sprintf("%d", stats.Candidates)},
		{"After filter", fmt.Sprintf("%d", stats.Filtered)},
		{"Images", fmt.Sprintf("%d", stats.Images)},
		{"Batches", fmt.Sprintf("%d", stats.Batches)},
		{"Artifact", fmt.Sprintf("%s (%.1f MB)", stats.Filename, float64(stats.ArtifactBytes)/1024/1024)},
	}
	pterm.DefaultTable.WithData(data).Render()
}

// Close stops any spinner still running.
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for stage, spinner := range p.spinners {
		spinner.Stop()
		delete(p.spinners, stage)
	}
	if p.bar != nil {
		p.bar.Stop()
		p.bar = nil
	}
	return nil
}
