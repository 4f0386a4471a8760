package errors

import (
	"fmt"
	"testing"

	"prodeck/internal/testutil"
)

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrap(ErrStrategyUnavailable, "endpoint returned HTTP 403")
	testutil.AssertTrue(t, IsStrategyUnavailable(err), "sentinel visible through wrap")
	testutil.AssertContains(t, err.Error(), "HTTP 403", "context message kept")
	testutil.AssertContains(t, err.Error(), "strategy unavailable", "cause message kept")
}

func TestWrapfThroughMultipleLayers(t *testing.T) {
	inner := Wrapf(ErrTooLarge, "downloading %s", "a.jpg")
	outer := Wrap(inner, "image stage")
	testutil.AssertTrue(t, IsTooLarge(outer), "sentinel survives two layers")
}

func TestWrapNil(t *testing.T) {
	testutil.AssertNil(t, Wrap(nil, "context"), "wrap of nil is nil")
	testutil.AssertNil(t, Wrapf(nil, "context %d", 1), "wrapf of nil is nil")
}

func TestStdlibInterop(t *testing.T) {
	// Sentinels wrapped with %w by plain fmt must still match.
	err := fmt.Errorf("products.json returned HTTP 503: %w", ErrStrategyUnavailable)
	testutil.AssertTrue(t, IsStrategyUnavailable(err), "fmt.Errorf %%w chain")
}

func TestSentinelsAreDistinct(t *testing.T) {
	testutil.AssertFalse(t, Is(ErrNotFound, ErrUnauthorized), "distinct sentinels")
	testutil.AssertFalse(t, IsTooLarge(ErrTimeout), "distinct sentinels")
}

func TestUnwrap(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "looking up page")
	testutil.AssertTrue(t, Unwrap(wrapped) == ErrNotFound, "unwrap returns cause")
}
