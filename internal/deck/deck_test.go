package deck

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"prodeck/internal/core/domain"
	"prodeck/internal/platform/config"
	"prodeck/internal/platform/logx"
	"prodeck/internal/testutil"
)

func testImages(n int) []*domain.ValidatedImage {
	imgs := make([]*domain.ValidatedImage, n)
	for i := range imgs {
		imgs[i] = &domain.ValidatedImage{
			SourceURL: fmt.Sprintf("https://shop.com/img/%d.jpg", i),
			Data:      []byte(fmt.Sprintf("jpeg-bytes-%d", i)),
			Width:     1600,
			Height:    1200,
		}
	}
	return imgs
}

func zipEntries(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	testutil.AssertNoError(t, err, "open archive")

	entries := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		testutil.AssertNoError(t, err, "open entry "+f.Name)
		content, err := io.ReadAll(rc)
		rc.Close()
		testutil.AssertNoError(t, err, "read entry "+f.Name)
		entries[f.Name] = content
	}
	return entries
}

func TestPartitionBatches(t *testing.T) {
	t.Run("overflow splits", func(t *testing.T) {
		batches := domain.PartitionBatches(250, 200)
		testutil.AssertEqual(t, len(batches), 2, "batch count")
		testutil.AssertEqual(t, batches[0].Start, 1, "first start")
		testutil.AssertEqual(t, batches[0].End, 200, "first end")
		testutil.AssertEqual(t, batches[1].Start, 201, "second start")
		testutil.AssertEqual(t, batches[1].End, 250, "second end")
	})

	t.Run("exact fit is one batch", func(t *testing.T) {
		batches := domain.PartitionBatches(200, 200)
		testutil.AssertEqual(t, len(batches), 1, "batch count")
		testutil.AssertEqual(t, batches[0].End, 200, "end")
	})

	t.Run("empty input", func(t *testing.T) {
		testutil.AssertEqual(t, len(domain.PartitionBatches(0, 200)), 0, "no batches")
	})

	t.Run("label", func(t *testing.T) {
		batches := domain.PartitionBatches(250, 200)
		testutil.AssertEqual(t, batches[1].Label(), "batch2_201-250", "label format")
	})
}

func TestCellsFor(t *testing.T) {
	for n, want := range map[int]int{1: 1, 2: 2, 3: 3, 4: 4} {
		testutil.AssertEqual(t, len(cellsFor(n)), want, fmt.Sprintf("%d per slide", n))
	}
	// Out-of-range falls back to a single full-canvas cell.
	testutil.AssertEqual(t, len(cellsFor(0)), 1, "zero falls back")

	full := cellsFor(1)[0]
	testutil.AssertEqual(t, emu(full.w), emu(slideWidth), "single cell spans the canvas")

	quads := cellsFor(4)
	testutil.AssertEqual(t, emu(quads[3].x), emu(slideWidth/2), "bottom-right x")
	testutil.AssertEqual(t, emu(quads[3].y), emu(slideHeight/2), "bottom-right y")
}

func TestPlaceInCell(t *testing.T) {
	cell := rect{x: 0, y: 0, w: slideWidth, h: slideHeight}

	t.Run("wide image binds on width", func(t *testing.T) {
		p := placeInCell(4000, 1000, cell)
		testutil.AssertEqual(t, emu(p.w), emu(slideWidth*marginScale), "width fills usable area")
		testutil.AssertTrue(t, emu(p.h) < emu(slideHeight*marginScale), "height scaled down")
	})

	t.Run("tall image binds on height", func(t *testing.T) {
		p := placeInCell(1000, 4000, cell)
		testutil.AssertEqual(t, emu(p.h), emu(slideHeight*marginScale), "height fills usable area")
		testutil.AssertTrue(t, emu(p.w) < emu(slideWidth*marginScale), "width scaled down")
	})

	t.Run("centered on both axes", func(t *testing.T) {
		p := placeInCell(1000, 1000, cell)
		// Margins on both sides must match within EMU rounding noise.
		hDiff := emu(slideWidth) - emu(p.x)*2 - emu(p.w)
		vDiff := emu(slideHeight) - emu(p.y)*2 - emu(p.h)
		testutil.AssertTrue(t, hDiff >= -2 && hDiff <= 2, "horizontal center")
		testutil.AssertTrue(t, vDiff >= -2 && vDiff <= 2, "vertical center")
	})

	t.Run("offset cell keeps its origin", func(t *testing.T) {
		quad := cellsFor(4)[3]
		p := placeInCell(1000, 1000, quad)
		testutil.AssertTrue(t, emu(p.x) >= emu(quad.x), "stays inside cell x")
		testutil.AssertTrue(t, emu(p.y) >= emu(quad.y), "stays inside cell y")
	})
}

func TestBuildDeckStructure(t *testing.T) {
	data, err := buildDeck(testImages(3), 2)
	testutil.AssertNoError(t, err, "build")

	entries := zipEntries(t, data)

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/media/image1.jpeg",
		"ppt/media/image2.jpeg",
		"ppt/media/image3.jpeg",
	} {
		_, ok := entries[name]
		testutil.AssertTrue(t, ok, "missing part "+name)
	}

	// 3 images at 2 per slide: slide 3 must not exist.
	_, ok := entries["ppt/slides/slide3.xml"]
	testutil.AssertFalse(t, ok, "no surplus slides")

	// Media carries the image bytes untouched.
	testutil.AssertEqual(t, string(entries["ppt/media/image3.jpeg"]), "jpeg-bytes-2", "media payload")

	// Both slides are registered everywhere they need to be.
	types := string(entries["[Content_Types].xml"])
	testutil.AssertContains(t, types, "/ppt/slides/slide2.xml", "content type registered")
	pres := string(entries["ppt/presentation.xml"])
	testutil.AssertContains(t, pres, `r:id="rId3"`, "slide id list")

	// Second slide holds the odd image and references its own media.
	slide2 := string(entries["ppt/slides/slide2.xml"])
	testutil.AssertEqual(t, strings.Count(slide2, "<p:pic>"), 1, "one picture on the last slide")
	rels2 := string(entries["ppt/slides/_rels/slide2.xml.rels"])
	testutil.AssertContains(t, rels2, "../media/image3.jpeg", "slide rel targets its media")
}

func TestBuildDeckRejectsEmpty(t *testing.T) {
	_, err := buildDeck(nil, 1)
	testutil.AssertError(t, err, "empty deck")
}

func newTestComposer(batchSize, perSlide int) *Composer {
	c := NewComposer(config.Deck{BatchSize: batchSize, ImagesPerSlide: perSlide}, nil, logx.NewSilent())
	c.now = func() time.Time {
		return time.Date(2026, 8, 27, 15, 4, 5, 0, time.UTC)
	}
	return c
}

func TestComposeSingleBatch(t *testing.T) {
	c := newTestComposer(200, 1)
	artifact, err := c.Compose(testImages(5), "shop.example.com")
	testutil.AssertNoError(t, err, "compose")

	testutil.AssertEqual(t, artifact.Kind, domain.ArtifactDeck, "plain deck")
	testutil.AssertEqual(t, artifact.Batches, 1, "single batch")
	testutil.AssertEqual(t, artifact.Filename, "shop_example_com_products_20260827_150405.pptx", "deterministic name")

	// Sanity: the payload is a presentation package.
	entries := zipEntries(t, artifact.Data)
	_, ok := entries["ppt/presentation.xml"]
	testutil.AssertTrue(t, ok, "pptx payload")
}

func TestComposeMultipleBatchesZips(t *testing.T) {
	c := newTestComposer(2, 1)
	artifact, err := c.Compose(testImages(5), "shop.example.com")
	testutil.AssertNoError(t, err, "compose")

	testutil.AssertEqual(t, artifact.Kind, domain.ArtifactArchive, "archive")
	testutil.AssertEqual(t, artifact.Batches, 3, "batch count")
	testutil.AssertTrue(t, strings.HasSuffix(artifact.Filename, ".zip"), "zip filename")

	entries := zipEntries(t, artifact.Data)
	testutil.AssertEqual(t, len(entries), 3, "one deck per batch")
	for _, name := range []string{
		"shop_example_com_products_20260827_150405_batch1_1-2.pptx",
		"shop_example_com_products_20260827_150405_batch2_3-4.pptx",
		"shop_example_com_products_20260827_150405_batch3_5-5.pptx",
	} {
		_, ok := entries[name]
		testutil.AssertTrue(t, ok, "missing deck "+name)
	}

	// Each inner entry is itself a valid pptx with its own images.
	inner := zipEntries(t, entries["shop_example_com_products_20260827_150405_batch3_5-5.pptx"])
	testutil.AssertEqual(t, string(inner["ppt/media/image1.jpeg"]), "jpeg-bytes-4", "batch slicing")
}

func TestComposeEmpty(t *testing.T) {
	c := newTestComposer(200, 1)
	_, err := c.Compose(nil, "shop.example.com")
	testutil.AssertTrue(t, err == domain.ErrNoValidImages, "sentinel for empty input")
}

func TestBaseName(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	testutil.AssertEqual(t, baseName("www.shop.co.uk", ts), "www_shop_co_uk_products_20260102_030405", "dots flattened")
}
