// Package report writes the outputs of a comparison run: a review PDF with
// one side-by-side page per compared page, PNG composites, and a JSON
// result file.
package report

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/go-pdf/fpdf"
	"matchpdf/pkg/composite"
	"matchpdf/pkg/logging"
	"matchpdf/pkg/matcher"
)

// PDFWriter collects composites into a PDF, one custom sized page each.
type PDFWriter struct {
	path        string
	widthInches float64
	doc         *fpdf.Fpdf
	pages       int
}

// NewPDFWriter returns a writer that saves to path on Close. Pages are
// widthInches wide.
func NewPDFWriter(path string, widthInches float64) *PDFWriter {
	if widthInches <= 0 {
		widthInches = composite.DefaultWidthInches
	}
	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: widthInches * 72, Ht: widthInches * 72},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("matchpdf", true)
	return &PDFWriter{path: path, widthInches: widthInches, doc: doc}
}

// AddPage adds a page holding the composite of p, scaled to the page width.
func (w *PDFWriter) AddPage(ctx context.Context, p matcher.PageResult) error {
	if p.Composite == nil {
		return nil
	}
	layout := composite.Layout(p.Composite.Bounds(), w.widthInches)

	var buf bytes.Buffer
	if err := png.Encode(&buf, p.Composite); err != nil {
		return fmt.Errorf("failed to encode composite: %w", err)
	}

	name := fmt.Sprintf("page-%d", p.Number)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	w.doc.AddPageFormat("P", fpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight})
	w.doc.RegisterImageOptionsReader(name, opts, &buf)
	w.doc.ImageOptions(name, layout.ImageX, layout.ImageY, layout.ImageWidth, layout.ImageHeight, false, opts, 0, "")
	if w.doc.Err() {
		return fmt.Errorf("failed to add page %d to output PDF: %w", p.Number, w.doc.Error())
	}
	w.pages++

	logging.Log.WithField("page", p.Number).WithField("scale", layout.Scale).Debug("added page to output PDF")
	return nil
}

// Pages returns the number of pages added so far.
func (w *PDFWriter) Pages() int {
	return w.pages
}

// Close writes the PDF. Nothing is written when no page was added.
func (w *PDFWriter) Close() error {
	if w.pages == 0 {
		return nil
	}
	if err := w.doc.OutputFileAndClose(w.path); err != nil {
		return fmt.Errorf("failed to write output PDF %s: %w", w.path, err)
	}
	return nil
}
