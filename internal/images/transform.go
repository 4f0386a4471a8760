package images

import (
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"

	// Registered decode formats. WebP comes from the extended image
	// repertoire; the rest are standard.
	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/png"
)

// flattenToRGB produces an opaque RGB-compatible image bounded by
// maxDimension on its longer side. Transparent and paletted sources
// are composited onto a white background so the JPEG encoder never
// sees alpha.
func flattenToRGB(src image.Image, maxDimension int) *image.RGBA {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	targetW, targetH := fitWithin(width, height, maxDimension)

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if targetW == width && targetH == height {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
		return dst
	}

	// Catmull-Rom keeps product edges crisp at large downscale ratios.
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

// fitWithin returns dimensions scaled so neither side exceeds limit,
// preserving aspect ratio. Images already within the limit pass
// through unchanged; nothing is ever upscaled.
func fitWithin(width, height, limit int) (int, int) {
	if limit <= 0 || (width <= limit && height <= limit) {
		return width, height
	}

	ratio := float64(limit) / float64(width)
	if height > width {
		ratio = float64(limit) / float64(height)
	}

	scaledW := int(math.Round(float64(width) * ratio))
	scaledH := int(math.Round(float64(height) * ratio))
	if scaledW < 1 {
		scaledW = 1
	}
	if scaledH < 1 {
		scaledH = 1
	}
	return scaledW, scaledH
}

// encodeJPEG writes the image as JPEG at the given quality.
func encodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}
