package domain

import (
	"crypto/sha256"
	"fmt"
)

// ContentHash is a digest of raw downloaded bytes, computed before any
// normalization. It is the global dedupe key within one run: no two
// ValidatedImage entries in a final set share a ContentHash.
type ContentHash string

// HashBytes computes the content hash of a raw payload.
func HashBytes(data []byte) ContentHash {
	sum := sha256.Sum256(data)
	return ContentHash(fmt.Sprintf("%x", sum))
}

// ValidatedImage is an image that survived download, validation, and
// normalization. Immutable after creation; owned exclusively by the
// run that produced it.
type ValidatedImage struct {
	// SourceURL is the URL the raw bytes were fetched from.
	SourceURL string

	// Data is the normalized payload: opaque RGB, bounded dimensions,
	// JPEG-encoded at the configured quality.
	Data []byte

	// Width and Height are the dimensions of the normalized image.
	Width  int
	Height int

	// Hash is the content hash of the raw (pre-normalization) bytes.
	Hash ContentHash
}

// AspectRatio returns width/height. Zero-height images report 1.
func (v *ValidatedImage) AspectRatio() float64 {
	if v.Height == 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}
