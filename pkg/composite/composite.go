// Package composite joins the annotated rasters of both documents into one
// side-by-side review image and computes how that image is placed on an
// output page.
package composite

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// DefaultWidthInches is the physical width of an output comparison page.
const DefaultWidthInches = 17.0

// Compose places a and b side by side, separated by a one pixel wide opaque
// black column. The result is as tall as a.
func Compose(a, b *image.RGBA) *image.RGBA {
	aw, ah := a.Bounds().Dx(), a.Bounds().Dy()
	bw := b.Bounds().Dx()

	out := image.NewRGBA(image.Rect(0, 0, aw+bw+1, ah))
	draw.Copy(out, image.Pt(0, 0), a, a.Bounds(), draw.Src, nil)
	draw.Copy(out, image.Pt(aw+1, 0), b, b.Bounds(), draw.Src, nil)

	dc := gg.NewContextForRGBA(out)
	dc.SetColor(color.Black)
	for y := 0; y < ah; y++ {
		dc.SetPixel(aw, y)
	}
	return out
}

// PageLayout describes where a composite image goes on an output page.
// All lengths are in PDF points.
type PageLayout struct {
	Scale       float64
	PageWidth   float64
	PageHeight  float64
	ImageX      float64
	ImageY      float64
	ImageWidth  float64
	ImageHeight float64
}

// Layout scales an image of the given bounds uniformly so that it is
// widthInches wide, anchored at the page origin.
func Layout(bounds image.Rectangle, widthInches float64) PageLayout {
	if widthInches <= 0 {
		widthInches = DefaultWidthInches
	}
	if bounds.Empty() {
		return PageLayout{}
	}
	widthPoints := widthInches * 72
	scale := widthPoints / float64(bounds.Dx())
	w := float64(bounds.Dx()) * scale
	h := float64(bounds.Dy()) * scale
	return PageLayout{
		Scale:       scale,
		PageWidth:   w,
		PageHeight:  h,
		ImageWidth:  w,
		ImageHeight: h,
	}
}
