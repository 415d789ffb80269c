// Package matcher runs the page-by-page comparison of two documents and
// hands annotated side-by-side pages to an output sink.
package matcher

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"matchpdf/pkg/annotate"
	"matchpdf/pkg/chunkdiff"
	"matchpdf/pkg/composite"
	"matchpdf/pkg/geometry"
	"matchpdf/pkg/logging"
	"matchpdf/pkg/raster"
)

// Options controls when the page loop stops and which pages reach the sink.
type Options struct {
	// StopOnFirst stops after the first page with differences.
	StopOnFirst bool
	// JustDiff only sends pages with differences to the sink.
	JustDiff bool
	// Pages stops after page Pages when differences were found by then.
	// Zero disables the check.
	Pages int
	// MaxPages stops after page MaxPages. Zero compares all pages.
	MaxPages int
	// Ignore supplies the exclusion zones. Nil ignores nothing.
	Ignore *geometry.Resolver
}

// PageResult is the outcome for one compared page.
type PageResult struct {
	Number    int
	Chunks    chunkdiff.Result
	Rects     []geometry.Rect
	Composite *image.RGBA // nil when no sink was attached
}

// Differs reports whether any chunk of the page differs.
func (p PageResult) Differs() bool {
	return !p.Chunks.Empty()
}

// PageSink receives the composite of each page selected for output.
type PageSink interface {
	AddPage(ctx context.Context, page PageResult) error
}

// Summary is the accumulated state of a run.
type Summary struct {
	RunID            uuid.UUID
	PagesA, PagesB   int
	PagesCompared    int
	PageCountDiffers bool
	// SizeMismatchPage is the first page whose size differs between the
	// documents; comparison stops there. Zero when all sizes matched.
	SizeMismatchPage int
	DifferingPages   []int
}

// Match reports whether the documents were found to be identical.
func (s Summary) Match() bool {
	return !s.PageCountDiffers && s.SizeMismatchPage == 0 && len(s.DifferingPages) == 0
}

func (s Summary) withPage(p PageResult) Summary {
	s.PagesCompared++
	if p.Differs() {
		s.DifferingPages = append(append([]int(nil), s.DifferingPages...), p.Number)
	}
	return s
}

func (s Summary) foundDifferences() bool {
	return s.SizeMismatchPage != 0 || len(s.DifferingPages) > 0
}

// Run compares a and b page by page. sink may be nil.
func Run(ctx context.Context, a, b raster.Source, opts Options, sink PageSink) (Summary, error) {
	summary := Summary{
		RunID:  uuid.New(),
		PagesA: a.NumPages(),
		PagesB: b.NumPages(),
	}
	log := logging.Log.WithField("run", summary.RunID.String())

	if summary.PagesA != summary.PagesB {
		summary.PageCountDiffers = true
		log.WithFields(logrus.Fields{"pages_a": summary.PagesA, "pages_b": summary.PagesB}).
			Debug("the number of pages in the documents is different")
		return summary, nil
	}

	for index := 0; index < summary.PagesA; index++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		number := index + 1
		if index%10 == 0 {
			log.WithField("page", number).Debug("processing page")
		}

		pa, err := a.Page(ctx, index)
		if err != nil {
			return summary, fmt.Errorf("page %d of first document: %w", number, err)
		}
		pb, err := b.Page(ctx, index)
		if err != nil {
			return summary, fmt.Errorf("page %d of second document: %w", number, err)
		}

		if !sameSize(pa, pb) {
			summary.SizeMismatchPage = number
			log.WithField("page", number).Debug("pages of the two documents are different sizes, ending the comparison")
			break
		}

		result := comparePage(pa, pb, opts.Ignore)
		summary = summary.withPage(result)
		if result.Differs() {
			log.WithFields(logrus.Fields{"page": number, "chunks": result.Chunks.String()}).Debug("page differs")
		}

		if sink != nil && (result.Differs() || !opts.JustDiff) {
			result.Composite = render(pa.Image, pb.Image, result)
			if err := sink.AddPage(ctx, result); err != nil {
				return summary, fmt.Errorf("page %d: %w", number, err)
			}
		}

		if stop, reason := shouldStop(summary, number, opts); stop {
			log.WithField("page", number).Debug(reason)
			break
		}
	}
	return summary, nil
}

func sameSize(a, b *raster.Page) bool {
	return a.WidthPoints == b.WidthPoints &&
		a.HeightPoints == b.HeightPoints &&
		a.Image.Bounds().Size() == b.Image.Bounds().Size()
}

func comparePage(a, b *raster.Page, ignore *geometry.Resolver) PageResult {
	var rects []geometry.Rect
	if ignore != nil {
		rects = ignore.ForRaster(a.Number, int(math.Round(a.HeightPoints)), a.Image.Bounds().Dy())
	}
	return PageResult{
		Number: a.Number,
		Chunks: chunkdiff.CompareChunks(a.Image, b.Image, rects),
		Rects:  rects,
	}
}

// render builds the annotated side-by-side image for one page.
func render(a, b *image.RGBA, result PageResult) *image.RGBA {
	if result.Differs() {
		a = annotate.Highlight(a, result.Chunks)
		b = annotate.Highlight(b, result.Chunks)
	}
	if len(result.Rects) > 0 {
		a = annotate.DrawIgnored(a, result.Rects)
		b = annotate.DrawIgnored(b, result.Rects)
	}
	return composite.Compose(a, b)
}

func shouldStop(s Summary, page int, opts Options) (bool, string) {
	switch {
	case opts.StopOnFirst && s.foundDifferences():
		return true, "stopping after the first page with differences"
	case opts.Pages > 0 && page == opts.Pages && s.foundDifferences():
		return true, fmt.Sprintf("differences found within the first %d pages, stopping", opts.Pages)
	case opts.MaxPages > 0 && page == opts.MaxPages:
		return true, fmt.Sprintf("reached the maximum of %d pages, stopping", opts.MaxPages)
	}
	return false, ""
}
