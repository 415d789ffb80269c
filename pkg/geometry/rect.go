// Package geometry resolves ignore rectangles declared in inches into pixel
// space for a single rendered page, and provides the overlap and containment
// predicates used by the chunk differ.
package geometry

import (
	"fmt"
	"image"
	"math"
)

const (
	// TargetHeight is the default raster height pages are rendered at.
	TargetHeight = 2000

	// PointsPerInch is the PDF user space unit.
	PointsPerInch = 72.0
)

// Rectangle is an ignore zone as declared in configuration, in inches from
// the top-left corner of the page.
type Rectangle struct {
	Page        Selector
	TopLeft     [2]float64
	BottomRight [2]float64
}

// Rect is a Rectangle resolved to pixel coordinates for one page. Both
// corners are inclusive.
type Rect struct {
	Min, Max image.Point
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// Overlaps reports whether r touches or intersects the chunk whose top-left
// corner is (x, y). The chunk box extends to x+chunkSize and y+chunkSize.
func (r Rect) Overlaps(x, y, chunkSize int) bool {
	left := r.Max.X < x
	right := r.Min.X > x+chunkSize
	above := r.Max.Y < y
	below := r.Min.Y > y+chunkSize
	return !(left || right || above || below)
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Min.X && x <= r.Max.X && y >= r.Min.Y && y <= r.Max.Y
}

// ResolveForPage returns the rectangles that apply to page (1-based),
// converted to pixels for a page pageHeightPoints tall rendered at
// TargetHeight pixels.
func ResolveForPage(rects []Rectangle, page int, pageHeightPoints int) []Rect {
	return ResolveForRaster(rects, page, pageHeightPoints, TargetHeight)
}

// ResolveForRaster is ResolveForPage for a page rendered rasterHeight pixels
// tall. A non-positive rasterHeight means TargetHeight.
func ResolveForRaster(rects []Rectangle, page, pageHeightPoints, rasterHeight int) []Rect {
	if len(rects) == 0 || pageHeightPoints <= 0 {
		return nil
	}
	if rasterHeight <= 0 {
		rasterHeight = TargetHeight
	}
	pixelsPerPoint := float64(rasterHeight) / float64(pageHeightPoints)

	var out []Rect
	for _, rect := range rects {
		if !rect.Page.Matches(page) {
			continue
		}
		out = append(out, rect.toPixels(pixelsPerPoint))
	}
	return out
}

func (r Rectangle) toPixels(pixelsPerPoint float64) Rect {
	return Rect{
		Min: image.Pt(toPixel(r.TopLeft[0], pixelsPerPoint), toPixel(r.TopLeft[1], pixelsPerPoint)),
		Max: image.Pt(toPixel(r.BottomRight[0], pixelsPerPoint), toPixel(r.BottomRight[1], pixelsPerPoint)),
	}
}

func toPixel(inches, pixelsPerPoint float64) int {
	px := math.Round(inches * PointsPerInch * pixelsPerPoint)
	if px < 0 || math.IsNaN(px) {
		return 0
	}
	return int(px)
}
