package domain

import "errors"

// Domain-level errors. The three zero-result sentinels distinguish
// which stage of the pipeline came up empty, so the caller can tell
// the user where the run died.
var (
	ErrEmptyTarget   = errors.New("target URL is empty")
	ErrInvalidTarget = errors.New("target URL has no usable host")

	// ErrNoStrategies means no discovery strategy was configured.
	ErrNoStrategies = errors.New("no discovery strategies available")

	// ErrNoCandidates means discovery found zero image candidates.
	ErrNoCandidates = errors.New("no image candidates discovered")

	// ErrNoneRelevant means the relevance filter rejected everything.
	ErrNoneRelevant = errors.New("no candidates survived relevance filtering")

	// ErrNoValidImages means every download failed validation.
	ErrNoValidImages = errors.New("no images survived download and validation")
)
