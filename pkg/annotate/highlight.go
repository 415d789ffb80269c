// Package annotate produces reviewable copies of page rasters: differing
// chunks tinted and ignore rectangles outlined.
package annotate

import (
	"image"
	"image/color"

	"matchpdf/pkg/chunkdiff"
)

// Highlight colours. Dark pixels become light pink so they stay readable,
// red-ish light pixels become deep pink, everything else maroon.
var (
	LightPink = color.RGBA{249, 133, 139, 255}
	DeepPink  = color.RGBA{118, 17, 55, 255}
	Maroon    = color.RGBA{237, 51, 95, 255}
)

// Highlight returns a copy of img with every pixel of the listed chunks
// recoloured. The colour is chosen from the original pixel; alpha is kept.
func Highlight(img *image.RGBA, chunks chunkdiff.Result) *image.RGBA {
	out := Clone(img)
	bounds := out.Bounds()

	for _, origin := range chunks {
		tile := image.Rect(origin.X, origin.Y, origin.X+chunkdiff.ChunkSize, origin.Y+chunkdiff.ChunkSize).
			Add(bounds.Min).
			Intersect(bounds)
		for y := tile.Min.Y; y < tile.Max.Y; y++ {
			for x := tile.Min.X; x < tile.Max.X; x++ {
				i := img.PixOffset(x, y)
				src := img.Pix[i : i+4 : i+4]
				c := highlightColor(src[0], src[1], src[2])
				j := out.PixOffset(x, y)
				dst := out.Pix[j : j+4 : j+4]
				dst[0], dst[1], dst[2] = c.R, c.G, c.B
			}
		}
	}
	return out
}

func highlightColor(r, g, b uint8) color.RGBA {
	switch {
	case r < 150 && g < 150 && b < 150:
		return LightPink
	case r > 215 && g < 215 && b < 215:
		return DeepPink
	default:
		return Maroon
	}
}

// Clone returns a deep copy of img with the same bounds.
func Clone(img *image.RGBA) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	rowLen := 4 * bounds.Dx()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		i := img.PixOffset(bounds.Min.X, y)
		j := out.PixOffset(bounds.Min.X, y)
		copy(out.Pix[j:j+rowLen], img.Pix[i:i+rowLen])
	}
	return out
}
