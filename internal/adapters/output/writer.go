// Package output persists run artifacts to the local filesystem.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"prodeck/internal/core/domain"
	"prodeck/internal/platform/logx"
)

// Writer writes artifacts under a fixed output directory, creating it
// on first use.
type Writer struct {
	dir    string
	logger logx.Logger
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string, logger logx.Logger) *Writer {
	return &Writer{
		dir:    dir,
		logger: logger.With("component", "output"),
	}
}

// Write persists the artifact and returns its full path.
func (w *Writer) Write(artifact *domain.OutputArtifact) (string, error) {
	if artifact == nil || len(artifact.Data) == 0 {
		return "", fmt.Errorf("empty artifact")
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", w.dir, err)
	}

	path := filepath.Join(w.dir, artifact.Filename)
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	w.logger.Info("artifact written",
		"path", path,
		"kind", string(artifact.Kind),
		"bytes", len(artifact.Data),
	)
	return path, nil
}
