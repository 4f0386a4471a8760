package deck

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"time"

	"prodeck/internal/core/domain"
	"prodeck/internal/core/ports"
	"prodeck/internal/platform/config"
	"prodeck/internal/platform/logx"
)

// Composer turns the validated image sequence into the run's output
// artifact: one presentation, or a zip of presentations when the
// sequence spans multiple batches.
type Composer struct {
	cfg      config.Deck
	logger   logx.Logger
	notifier ports.Notifier

	// now is swappable so tests get deterministic filenames.
	now func() time.Time
}

// NewComposer creates a composer.
func NewComposer(cfg config.Deck, notifier ports.Notifier, logger logx.Logger) *Composer {
	if notifier == nil {
		notifier = ports.NoopNotifier{}
	}
	return &Composer{
		cfg:      cfg,
		logger:   logger.With("component", "composer"),
		notifier: notifier,
		now:      time.Now,
	}
}

// Compose builds the artifact for the given site domain. Batch ranges
// and filenames are deterministic for a given image sequence and
// timestamp. Unlike the per-image stages, a failure here is fatal:
// there is no artifact to salvage.
func (c *Composer) Compose(images []*domain.ValidatedImage, siteDomain string) (*domain.OutputArtifact, error) {
	if len(images) == 0 {
		return nil, domain.ErrNoValidImages
	}

	batches := domain.PartitionBatches(len(images), c.cfg.BatchSize)
	for i := range batches {
		batches[i].Images = images[batches[i].Start-1 : batches[i].End]
	}

	base := baseName(siteDomain, c.now())

	if len(batches) == 1 {
		c.notifier.StageProgress(ports.StageCompose, 0, 1)
		data, err := buildDeck(batches[0].Images, c.cfg.ImagesPerSlide)
		if err != nil {
			return nil, fmt.Errorf("composing deck: %w", err)
		}
		c.notifier.StageProgress(ports.StageCompose, 1, 1)
		c.logger.Info("deck composed", "images", len(images), "bytes", len(data))
		return &domain.OutputArtifact{
			Kind:     domain.ArtifactDeck,
			Filename: base + ".pptx",
			Data:     data,
			Batches:  1,
		}, nil
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, batch := range batches {
		c.notifier.StageProgress(ports.StageCompose, i, len(batches))

		data, err := buildDeck(batch.Images, c.cfg.ImagesPerSlide)
		if err != nil {
			return nil, fmt.Errorf("composing %s: %w", batch.Label(), err)
		}

		entry := fmt.Sprintf("%s_%s.pptx", base, batch.Label())
		w, err := zw.Create(entry)
		if err != nil {
			return nil, fmt.Errorf("archiving %s: %w", entry, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("archiving %s: %w", entry, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}
	c.notifier.StageProgress(ports.StageCompose, len(batches), len(batches))

	c.logger.Info("deck archive composed",
		"images", len(images),
		"decks", len(batches),
		"bytes", buf.Len(),
	)
	return &domain.OutputArtifact{
		Kind:     domain.ArtifactArchive,
		Filename: base + ".zip",
		Data:     buf.Bytes(),
		Batches:  len(batches),
	}, nil
}

// baseName derives the artifact stem: the site domain with dots
// flattened to underscores, plus a second-resolution timestamp.
func baseName(siteDomain string, ts time.Time) string {
	flat := strings.ReplaceAll(siteDomain, ".", "_")
	return fmt.Sprintf("%s_products_%s", flat, ts.Format("20060102_150405"))
}
