package geometry

import (
	"strconv"
	"strings"
	"sync"
)

// Resolver caches resolved rectangles. Pages that share their heights and match
// the same set of rectangles get identical pixel geometry, so a portrait
// document only converts its rectangles once per page class.
type Resolver struct {
	rects []Rectangle
	cache map[string][]Rect
	mu    sync.RWMutex
}

// NewResolver returns a Resolver for the given configured rectangles.
func NewResolver(rects []Rectangle) *Resolver {
	return &Resolver{
		rects: rects,
		cache: make(map[string][]Rect),
	}
}

// ForPage behaves like ResolveForPage. The returned slice is shared between
// callers and must not be modified.
func (r *Resolver) ForPage(page int, pageHeightPoints int) []Rect {
	return r.ForRaster(page, pageHeightPoints, TargetHeight)
}

// ForRaster behaves like ResolveForRaster, with the same sharing rules as
// ForPage.
func (r *Resolver) ForRaster(page, pageHeightPoints, rasterHeight int) []Rect {
	if len(r.rects) == 0 || pageHeightPoints <= 0 {
		return nil
	}
	if rasterHeight <= 0 {
		rasterHeight = TargetHeight
	}
	key := r.key(page, pageHeightPoints, rasterHeight)

	r.mu.RLock()
	if rects, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return rects
	}
	r.mu.RUnlock()

	rects := ResolveForRaster(r.rects, page, pageHeightPoints, rasterHeight)

	r.mu.Lock()
	r.cache[key] = rects
	r.mu.Unlock()

	return rects
}

// key encodes the page and raster heights and which rectangles match the
// page.
func (r *Resolver) key(page, pageHeightPoints, rasterHeight int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(pageHeightPoints))
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(rasterHeight))
	b.WriteByte(':')
	for _, rect := range r.rects {
		if rect.Page.Matches(page) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
