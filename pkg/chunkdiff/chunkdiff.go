// Package chunkdiff compares two equally sized page rasters tile by tile and
// reports the tiles that contain at least one differing pixel.
package chunkdiff

import (
	"fmt"
	"image"
	"strings"

	"matchpdf/pkg/geometry"
)

// ChunkSize is the edge length of a comparison tile in pixels.
const ChunkSize = 10

// Result lists the origins of differing chunks in scan order: rows top to
// bottom, columns left to right within a row.
type Result []image.Point

// Empty reports whether no chunk differs.
func (r Result) Empty() bool {
	return len(r) == 0
}

func (r Result) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range r {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%d, %d)", p.X, p.Y)
	}
	b.WriteByte(']')
	return b.String()
}

type chunkStatus int

const (
	chunkClear chunkStatus = iota
	chunkPartial
	chunkIgnored
)

// CompareChunks returns the chunks in which a and b differ. Chunks fully
// covered by one of the ignore rectangles are never reported; inside chunks
// that only partly overlap a rectangle, pixels covered by any rectangle are
// skipped.
//
// a and b must have identical bounds.
func CompareChunks(a, b *image.RGBA, ignore []geometry.Rect) Result {
	bounds := a.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var result Result
	for y := 0; y < height; y += ChunkSize {
		for x := 0; x < width; x += ChunkSize {
			status := classify(x, y, ignore)
			if status == chunkIgnored {
				continue
			}
			if chunkDiffers(a, b, x, y, status == chunkPartial, ignore) {
				result = append(result, image.Pt(x, y))
			}
		}
	}
	return result
}

// classify determines how the ignore rectangles affect the chunk at (x, y).
func classify(x, y int, ignore []geometry.Rect) chunkStatus {
	status := chunkClear
	for _, rect := range ignore {
		if rect.Contains(x, y) && rect.Contains(x+ChunkSize-1, y+ChunkSize-1) {
			return chunkIgnored
		}
		if rect.Overlaps(x, y, ChunkSize) {
			status = chunkPartial
		}
	}
	return status
}

func chunkDiffers(a, b *image.RGBA, x0, y0 int, partial bool, ignore []geometry.Rect) bool {
	bounds, origin := a.Bounds(), b.Bounds().Min
	for y := y0; y < y0+ChunkSize; y++ {
		if y >= bounds.Dy() {
			break
		}
		for x := x0; x < x0+ChunkSize; x++ {
			if x >= bounds.Dx() {
				break
			}
			if partial && ignored(x, y, ignore) {
				continue
			}
			i := a.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			j := b.PixOffset(origin.X+x, origin.Y+y)
			pa := a.Pix[i : i+4 : i+4]
			pb := b.Pix[j : j+4 : j+4]
			if pa[0] != pb[0] || pa[1] != pb[1] || pa[2] != pb[2] || pa[3] != pb[3] {
				return true
			}
		}
	}
	return false
}

func ignored(x, y int, ignore []geometry.Rect) bool {
	for _, rect := range ignore {
		if rect.Contains(x, y) {
			return true
		}
	}
	return false
}
