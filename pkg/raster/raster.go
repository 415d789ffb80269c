// Package raster supplies rendered pages to the comparison loop, either
// from a directory of pre-rendered page images or by rasterizing a PDF
// with poppler.
package raster

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"matchpdf/pkg/images"
)

// naturalLess orders names with runs of digits compared by value, so
// page-2.png sorts before page-10.png.
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		da, db := digitPrefix(a), digitPrefix(b)
		if da != "" && db != "" {
			na, nb := strings.TrimLeft(da, "0"), strings.TrimLeft(db, "0")
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			a, b = a[len(da):], b[len(db):]
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func digitPrefix(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

// TargetSize is the edge of the square envelope pages are rendered into.
const TargetSize = 2000

// Page is one rendered page.
type Page struct {
	Number       int // 1-based
	WidthPoints  float64
	HeightPoints float64
	Image        *image.RGBA
}

// Source yields the rendered pages of one document.
type Source interface {
	NumPages() int
	// Page renders the page at the 0-based index.
	Page(ctx context.Context, index int) (*Page, error)
	Close() error
}

// DirSource reads page images from a directory, in file name order. All
// pages share one physical size.
type DirSource struct {
	files        []string
	widthPoints  float64
	heightPoints float64
}

// OpenDir lists the page images in dir.
func OpenDir(dir string, widthPoints, heightPoints float64) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read page directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !images.IsImageFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.SliceStable(files, func(i, j int) bool {
		return naturalLess(filepath.Base(files[i]), filepath.Base(files[j]))
	})
	return &DirSource{files: files, widthPoints: widthPoints, heightPoints: heightPoints}, nil
}

func (s *DirSource) NumPages() int {
	return len(s.files)
}

func (s *DirSource) Page(ctx context.Context, index int) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(s.files) {
		return nil, fmt.Errorf("page index %d out of range (%d pages)", index, len(s.files))
	}
	img, err := images.LoadImage(s.files[index])
	if err != nil {
		return nil, err
	}
	return &Page{
		Number:       index + 1,
		WidthPoints:  s.widthPoints,
		HeightPoints: s.heightPoints,
		Image:        img,
	}, nil
}

func (s *DirSource) Close() error {
	return nil
}

// TempDir creates a run-scoped working directory named
// <base>/<app>-<UTC timestamp>-<id>. An empty base uses the TEMP
// environment variable, falling back to os.TempDir.
func TempDir(base, app string, id uuid.UUID) (string, error) {
	if base == "" {
		base = os.Getenv("TEMP")
	}
	if base == "" {
		base = os.TempDir()
	}
	name := fmt.Sprintf("%s-%s-%s", app, time.Now().UTC().Format("2006-01-02-15-04-05"), id.String()[:8])
	dir := filepath.Join(base, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	return dir, nil
}
