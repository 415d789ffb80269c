// Package images loads page rasters from disk and normalises them to the
// RGBA layout the comparison engine works on.
package images

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Extensions lists the file extensions LoadImage can decode.
var Extensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsImageFile reports whether path has a decodable image extension.
func IsImageFile(path string) bool {
	return Extensions[strings.ToLower(filepath.Ext(path))]
}

// LoadImage decodes the image at path into an RGBA raster whose bounds
// start at (0,0).
func LoadImage(path string) (*image.RGBA, error) {
	img, err := gg.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return ToRGBA(img), nil
}

// ToRGBA returns img as an *image.RGBA anchored at the origin. An RGBA
// image that already is anchored there is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// SavePNG writes img to path as a PNG.
func SavePNG(path string, img image.Image) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
