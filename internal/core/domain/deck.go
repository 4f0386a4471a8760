package domain

import "fmt"

// DeckBatch is a contiguous slice of the final image sequence, sized
// for one output document.
type DeckBatch struct {
	// Index is the zero-based batch position.
	Index int

	// Start and End are the one-based image range the batch covers,
	// used for deterministic file naming.
	Start int
	End   int

	// Images holds the batch contents in final order.
	Images []*ValidatedImage
}

// ArtifactKind distinguishes the two output shapes.
type ArtifactKind string

const (
	// ArtifactDeck is a single presentation document.
	ArtifactDeck ArtifactKind = "deck"

	// ArtifactArchive is a zip containing one document per batch.
	ArtifactArchive ArtifactKind = "archive"
)

// OutputArtifact is the run's final deliverable.
type OutputArtifact struct {
	Kind     ArtifactKind
	Filename string
	Data     []byte

	// Batches is the number of documents the artifact holds (1 for a
	// plain deck).
	Batches int
}

// PartitionBatches splits total images into batches of batchSize:
// ceil(total/batchSize) batches, all full except possibly the last.
// It is a pure function of the two counts; callers slice the image
// list with the returned ranges.
func PartitionBatches(total, batchSize int) []DeckBatch {
	if total <= 0 || batchSize <= 0 {
		return nil
	}
	count := (total + batchSize - 1) / batchSize
	batches := make([]DeckBatch, 0, count)
	for i := 0; i < count; i++ {
		start := i * batchSize
		end := start + batchSize
		if end > total {
			end = total
		}
		batches = append(batches, DeckBatch{
			Index: i,
			Start: start + 1,
			End:   end,
		})
	}
	return batches
}

// Label returns the deterministic name fragment for a batch file.
func (b DeckBatch) Label() string {
	return fmt.Sprintf("batch%d_%d-%d", b.Index+1, b.Start, b.End)
}
