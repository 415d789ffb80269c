package annotate

import (
	"image"

	"github.com/fogleman/gg"
	"matchpdf/pkg/geometry"
)

// DrawIgnored returns a copy of img with the border of every rectangle
// drawn in an alternating red and black pattern. Border pixels outside the
// image are skipped.
func DrawIgnored(img *image.RGBA, rects []geometry.Rect) *image.RGBA {
	out := Clone(img)
	if len(rects) == 0 {
		return out
	}

	o := &outliner{
		dc:     gg.NewContextForRGBA(out),
		bounds: out.Bounds(),
	}
	for _, r := range rects {
		o.drawRect(r)
	}
	return out
}

type outliner struct {
	dc     *gg.Context
	bounds image.Rectangle
}

func (o *outliner) drawRect(r geometry.Rect) {
	// Top and bottom edges cover the corners.
	for x := r.Min.X; x <= r.Max.X; x++ {
		o.plot(x, r.Min.Y)
		o.plot(x, r.Max.Y)
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		o.plot(r.Min.X, y)
		o.plot(r.Max.X, y)
	}
}

func (o *outliner) plot(x, y int) {
	px, py := o.bounds.Min.X+x, o.bounds.Min.Y+y
	if !image.Pt(px, py).In(o.bounds) {
		return
	}
	if (x+y)%2 == 0 {
		o.dc.SetRGB255(255, 0, 0)
	} else {
		o.dc.SetRGB255(0, 0, 0)
	}
	o.dc.SetPixel(px, py)
}
