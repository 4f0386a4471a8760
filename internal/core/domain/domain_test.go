package domain

import (
	"testing"

	"prodeck/internal/testutil"
)

func TestNewTarget(t *testing.T) {
	target := NewTarget("shop.example.com")
	testutil.AssertEqual(t, target.BaseURL, "https://shop.example.com", "scheme prepended")
	testutil.AssertEqual(t, target.Domain, "shop.example.com", "domain extracted")
	testutil.AssertNoError(t, target.Validate(), "valid target")

	target = NewTarget("http://shop.example.com/path")
	testutil.AssertEqual(t, target.BaseURL, "http://shop.example.com/path", "explicit scheme kept")
	testutil.AssertEqual(t, target.Domain, "shop.example.com", "path ignored for domain")
}

func TestTargetValidate(t *testing.T) {
	empty := NewTarget("")
	testutil.AssertTrue(t, empty.Validate() == ErrEmptyTarget, "empty target sentinel")
}

func TestTargetInScope(t *testing.T) {
	target := NewTarget("shop.example.com")
	testutil.AssertTrue(t, target.InScope("https://shop.example.com/products"), "same host")
	testutil.AssertTrue(t, target.InScope("https://www.shop.example.com/products"), "www variant")
	testutil.AssertFalse(t, target.InScope("https://cdn.example.com/a.jpg"), "other host")
}

func TestNewImageCandidateNormalizes(t *testing.T) {
	c := NewImageCandidate("https://shop.com/A.jpg", "  Product-Card ", " Red SOFA ")
	testutil.AssertEqual(t, c.URL, "https://shop.com/A.jpg", "url untouched")
	testutil.AssertEqual(t, c.Context, "product-card", "context lowercased and trimmed")
	testutil.AssertEqual(t, c.Alt, "red sofa", "alt lowercased and trimmed")
}

func TestDiscoveryAdd(t *testing.T) {
	d := NewDiscovery("crawler")
	d.AddURL("https://shop.com/a.jpg", "product-api")
	d.Add(NewImageCandidate("https://shop.com/b.jpg", "gallery", ""))

	testutil.AssertEqual(t, d.Strategy, "crawler", "strategy name")
	testutil.AssertEqual(t, len(d.Candidates), 2, "candidates appended")
	testutil.AssertEqual(t, d.Candidates[0].Context, "product-api", "context label")
}

func TestHashBytes(t *testing.T) {
	a := HashBytes([]byte("payload"))
	b := HashBytes([]byte("payload"))
	c := HashBytes([]byte("other"))

	testutil.AssertEqual(t, a, b, "deterministic")
	testutil.AssertNotEqual(t, a, c, "content sensitive")
	testutil.AssertEqual(t, len(string(a)), 64, "sha-256 hex length")
}

func TestValidatedImageAspectRatio(t *testing.T) {
	img := &ValidatedImage{Width: 1600, Height: 800}
	testutil.AssertEqual(t, img.AspectRatio(), 2.0, "ratio")

	degenerate := &ValidatedImage{Width: 100, Height: 0}
	testutil.AssertEqual(t, degenerate.AspectRatio(), 1.0, "zero height guarded")
}
