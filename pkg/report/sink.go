package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"matchpdf/pkg/images"
	"matchpdf/pkg/matcher"
)

// PNGWriter saves each composite as page-NNNN.png in a directory.
type PNGWriter struct {
	dir   string
	files []string
}

// NewPNGWriter creates dir if needed.
func NewPNGWriter(dir string) (*PNGWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &PNGWriter{dir: dir}, nil
}

func (w *PNGWriter) AddPage(ctx context.Context, p matcher.PageResult) error {
	if p.Composite == nil {
		return nil
	}
	path := filepath.Join(w.dir, fmt.Sprintf("page-%04d.png", p.Number))
	if err := images.SavePNG(path, p.Composite); err != nil {
		return err
	}
	w.files = append(w.files, path)
	return nil
}

// Files returns the paths written so far.
func (w *PNGWriter) Files() []string {
	return w.files
}

// MultiSink sends every page to all of its sinks in order.
type MultiSink []matcher.PageSink

func (m MultiSink) AddPage(ctx context.Context, p matcher.PageResult) error {
	for _, s := range m {
		if err := s.AddPage(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Result messages, as written to the result file.
const (
	ResultDifferent = "Differences were found"
	ResultMatch     = "Documents match"
)

// Result is the content of the JSON result file.
type Result struct {
	MatchResult      string `json:"match_result"`
	RunID            string `json:"run_id"`
	PagesCompared    int    `json:"pages_compared"`
	PageCountDiffers bool   `json:"page_count_differs,omitempty"`
	SizeMismatchPage int    `json:"size_mismatch_page,omitempty"`
	DifferingPages   []int  `json:"differing_pages"`
}

// NewResult summarises a run.
func NewResult(s matcher.Summary) Result {
	r := Result{
		MatchResult:      ResultMatch,
		RunID:            s.RunID.String(),
		PagesCompared:    s.PagesCompared,
		PageCountDiffers: s.PageCountDiffers,
		SizeMismatchPage: s.SizeMismatchPage,
		DifferingPages:   s.DifferingPages,
	}
	if !s.Match() {
		r.MatchResult = ResultDifferent
	}
	if r.DifferingPages == nil {
		r.DifferingPages = []int{}
	}
	return r
}

// WriteResult writes the run result to path as indented JSON.
func WriteResult(path string, s matcher.Summary) error {
	data, err := json.MarshalIndent(NewResult(s), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error creating result file: %w", err)
	}
	return nil
}

// CheckParentDir returns an error when the directory that would hold path
// does not exist.
func CheckParentDir(path string) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("the folder for %s does not exist", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a folder", dir)
	}
	return nil
}
