package chunkdiff

import (
	"image"
	"image/color"
	"math/rand"
	"reflect"
	"testing"

	"matchpdf/pkg/geometry"
)

func newFilled(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func clone(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

var white = color.RGBA{255, 255, 255, 255}

func TestCompareChunks_Identical(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := image.NewRGBA(image.Rect(0, 0, 37, 23))
	rng.Read(a.Pix)
	b := clone(a)

	if got := CompareChunks(a, b, nil); !got.Empty() {
		t.Errorf("expected no differences, got %v", got)
	}
}

func TestCompareChunks_SinglePixel(t *testing.T) {
	a := newFilled(20, 20, white)
	b := clone(a)
	b.SetRGBA(5, 5, color.RGBA{0, 0, 0, 255})

	got := CompareChunks(a, b, nil)
	want := Result{image.Pt(0, 0)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCompareChunks_SinglePixelAnywhere(t *testing.T) {
	base := newFilled(45, 33, white)
	points := []image.Point{{0, 0}, {9, 9}, {10, 0}, {44, 32}, {27, 19}, {40, 30}}
	for _, p := range points {
		b := clone(base)
		b.SetRGBA(p.X, p.Y, color.RGBA{255, 255, 254, 255})
		got := CompareChunks(base, b, nil)
		want := Result{image.Pt(10*(p.X/10), 10*(p.Y/10))}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("pixel %v: expected %v, got %v", p, want, got)
		}
	}
}

func TestCompareChunks_AlphaOnly(t *testing.T) {
	a := newFilled(10, 10, white)
	b := clone(a)
	b.Pix[b.PixOffset(3, 3)+3] = 254

	if got := CompareChunks(a, b, nil); len(got) != 1 {
		t.Errorf("expected alpha difference to be detected, got %v", got)
	}
}

func TestCompareChunks_FullyIgnored(t *testing.T) {
	a := newFilled(20, 20, white)
	b := clone(a)
	b.SetRGBA(5, 5, color.RGBA{0, 0, 0, 255})

	ignore := []geometry.Rect{{Min: image.Pt(0, 0), Max: image.Pt(9, 9)}}
	if got := CompareChunks(a, b, ignore); !got.Empty() {
		t.Errorf("expected no differences, got %v", got)
	}
}

func TestCompareChunks_FullyIgnoredBySecondRect(t *testing.T) {
	a := newFilled(20, 20, white)
	b := clone(a)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			b.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
		}
	}

	ignore := []geometry.Rect{
		{Min: image.Pt(0, 0), Max: image.Pt(2, 2)},
		{Min: image.Pt(0, 0), Max: image.Pt(15, 15)},
	}
	if got := CompareChunks(a, b, ignore); !got.Empty() {
		t.Errorf("expected no differences, got %v", got)
	}
}

func TestCompareChunks_PartialOverlap(t *testing.T) {
	a := newFilled(20, 20, white)
	ignore := []geometry.Rect{{Min: image.Pt(0, 0), Max: image.Pt(4, 4)}}

	// A difference inside the rectangle is skipped.
	inside := clone(a)
	inside.SetRGBA(2, 2, color.RGBA{0, 0, 0, 255})
	if got := CompareChunks(a, inside, ignore); !got.Empty() {
		t.Errorf("expected difference inside rect to be ignored, got %v", got)
	}

	// A difference elsewhere in the same chunk still flags it.
	outside := clone(inside)
	outside.SetRGBA(7, 7, color.RGBA{0, 0, 0, 255})
	got := CompareChunks(a, outside, ignore)
	want := Result{image.Pt(0, 0)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCompareChunks_RectSpanningChunks(t *testing.T) {
	a := newFilled(30, 30, white)
	b := clone(a)
	// Inside the rect in chunk (10,10) and outside it in chunk (20,20).
	b.SetRGBA(12, 12, color.RGBA{0, 0, 0, 255})
	b.SetRGBA(25, 25, color.RGBA{0, 0, 0, 255})

	ignore := []geometry.Rect{{Min: image.Pt(5, 5), Max: image.Pt(22, 22)}}
	got := CompareChunks(a, b, ignore)
	want := Result{image.Pt(20, 20)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCompareChunks_ScanOrder(t *testing.T) {
	a := newFilled(35, 25, white)
	b := clone(a)
	for _, p := range []image.Point{{31, 21}, {3, 14}, {25, 1}, {1, 1}, {14, 14}} {
		b.SetRGBA(p.X, p.Y, color.RGBA{10, 20, 30, 255})
	}

	got := CompareChunks(a, b, nil)
	want := Result{
		image.Pt(0, 0), image.Pt(20, 0),
		image.Pt(0, 10), image.Pt(10, 10),
		image.Pt(30, 20),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCompareChunks_PartialEdgeChunks(t *testing.T) {
	a := newFilled(12, 11, white)
	b := clone(a)
	b.SetRGBA(11, 10, color.RGBA{0, 0, 0, 255})

	got := CompareChunks(a, b, nil)
	want := Result{image.Pt(10, 10)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCompareChunks_NonZeroOrigin(t *testing.T) {
	a := image.NewRGBA(image.Rect(100, 100, 120, 120))
	b := image.NewRGBA(image.Rect(100, 100, 120, 120))
	b.SetRGBA(115, 103, color.RGBA{1, 2, 3, 4})

	got := CompareChunks(a, b, nil)
	want := Result{image.Pt(10, 0)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestResultString(t *testing.T) {
	r := Result{image.Pt(0, 0), image.Pt(10, 20)}
	if got := r.String(); got != "[(0, 0), (10, 20)]" {
		t.Errorf("unexpected string %q", got)
	}
	if got := Result(nil).String(); got != "[]" {
		t.Errorf("unexpected string %q", got)
	}
}
