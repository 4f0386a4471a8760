// Package deck composes validated images into widescreen slide
// documents, batching large runs into multiple files and zipping the
// result when more than one file is produced.
package deck

import "baliance.com/gooxml/measurement"

// Slide canvas, 16:9 widescreen.
const (
	slideWidth  measurement.Distance = 10 * measurement.Inch
	slideHeight measurement.Distance = 5.625 * measurement.Inch

	// marginScale shrinks the placed image relative to its cell so
	// neighbouring images never touch.
	marginScale = 0.9
)

// rect is a placement rectangle in EMUs.
type rect struct {
	x, y, w, h measurement.Distance
}

// cellsFor returns the slide cells for n images per slide. One image
// gets the whole canvas; two get the left and right halves; three and
// four get quadrants, with three leaving the bottom-right empty.
func cellsFor(n int) []rect {
	halfW := slideWidth / 2
	halfH := slideHeight / 2

	switch n {
	case 2:
		return []rect{
			{0, 0, halfW, slideHeight},
			{halfW, 0, halfW, slideHeight},
		}
	case 3:
		return []rect{
			{0, 0, halfW, halfH},
			{halfW, 0, halfW, halfH},
			{0, halfH, halfW, halfH},
		}
	case 4:
		return []rect{
			{0, 0, halfW, halfH},
			{halfW, 0, halfW, halfH},
			{0, halfH, halfW, halfH},
			{halfW, halfH, halfW, halfH},
		}
	default:
		return []rect{{0, 0, slideWidth, slideHeight}}
	}
}

// placeInCell scales an image of the given pixel dimensions to fit the
// cell's usable area, preserving aspect ratio, and centers it on both
// axes. The usable area is the cell shrunk by marginScale.
func placeInCell(imgW, imgH int, cell rect) rect {
	if imgW <= 0 || imgH <= 0 {
		return rect{x: cell.x, y: cell.y}
	}

	availW := cell.w * marginScale
	availH := cell.h * marginScale

	aspect := float64(imgW) / float64(imgH)

	// Wider than the cell's usable area: width binds. Otherwise height.
	w := availW
	h := measurement.Distance(float64(availW) / aspect)
	if h > availH {
		h = availH
		w = measurement.Distance(float64(availH) * aspect)
	}

	return rect{
		x: cell.x + (cell.w-w)/2,
		y: cell.y + (cell.h-h)/2,
		w: w,
		h: h,
	}
}

// emu converts a distance to the integer EMU value OOXML stores.
func emu(d measurement.Distance) int64 {
	return int64(d)
}
