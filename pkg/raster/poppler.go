package raster

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"

	"matchpdf/pkg/images"
	"matchpdf/pkg/logging"
)

// PopplerOptions locates the poppler command line tools.
type PopplerOptions struct {
	Pdftoppm string
	Pdfinfo  string
	// ScaleTo is the pixel size of the longer page edge. Zero means
	// TargetSize.
	ScaleTo int
}

func (o PopplerOptions) withDefaults() PopplerOptions {
	if o.Pdftoppm == "" {
		o.Pdftoppm = "pdftoppm"
	}
	if o.Pdfinfo == "" {
		o.Pdfinfo = "pdfinfo"
	}
	if o.ScaleTo <= 0 {
		o.ScaleTo = TargetSize
	}
	return o
}

type pageSize struct {
	width, height float64
}

// PopplerSource rasterizes a PDF one page at a time with pdftoppm. Page
// images are written to workDir, loaded, and removed again.
type PopplerSource struct {
	path    string
	workDir string
	opts    PopplerOptions
	sizes   []pageSize
}

// OpenPDF reads the page count and page sizes of the PDF at path.
func OpenPDF(ctx context.Context, path, workDir string, opts PopplerOptions) (*PopplerSource, error) {
	opts = opts.withDefaults()

	out, err := run(ctx, opts.Pdfinfo, path)
	if err != nil {
		return nil, err
	}
	count, err := parsePageCount(out)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var sizes []pageSize
	if count > 0 {
		out, err = run(ctx, opts.Pdfinfo, "-f", "1", "-l", strconv.Itoa(count), path)
		if err != nil {
			return nil, err
		}
		sizes, err = parsePageSizes(out, count)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	logging.Log.WithField("pdf", path).WithField("pages", count).Debug("opened PDF")
	return &PopplerSource{path: path, workDir: workDir, opts: opts, sizes: sizes}, nil
}

func (s *PopplerSource) NumPages() int {
	return len(s.sizes)
}

func (s *PopplerSource) Page(ctx context.Context, index int) (*Page, error) {
	if index < 0 || index >= len(s.sizes) {
		return nil, fmt.Errorf("page index %d out of range (%d pages)", index, len(s.sizes))
	}
	n := strconv.Itoa(index + 1)
	prefix := filepath.Join(s.workDir, fmt.Sprintf("%s-page-%s", filepath.Base(s.path), n))
	_, err := run(ctx, s.opts.Pdftoppm,
		"-png",
		"-scale-to", strconv.Itoa(s.opts.ScaleTo),
		"-f", n, "-l", n,
		"-singlefile",
		s.path, prefix)
	if err != nil {
		return nil, err
	}

	file := prefix + ".png"
	img, err := images.LoadImage(file)
	os.Remove(file)
	if err != nil {
		return nil, err
	}
	return &Page{
		Number:       index + 1,
		WidthPoints:  s.sizes[index].width,
		HeightPoints: s.sizes[index].height,
		Image:        img,
	}, nil
}

func (s *PopplerSource) Close() error {
	return nil
}

func run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", name, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}

var (
	pagesLine    = regexp.MustCompile(`(?m)^Pages:\s+(\d+)`)
	pageSizeLine = regexp.MustCompile(`(?m)^Page\s+(\d+)\s+size:\s+([\d.]+)\s+x\s+([\d.]+)\s+pts`)
)

func parsePageCount(out []byte) (int, error) {
	m := pagesLine.FindSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("pdfinfo output has no page count")
	}
	return strconv.Atoi(string(m[1]))
}

func parsePageSizes(out []byte, count int) ([]pageSize, error) {
	sizes := make([]pageSize, count)
	seen := 0
	for _, m := range pageSizeLine.FindAllSubmatch(out, -1) {
		n, _ := strconv.Atoi(string(m[1]))
		if n < 1 || n > count {
			continue
		}
		w, err := strconv.ParseFloat(string(m[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad width for page %d: %w", n, err)
		}
		h, err := strconv.ParseFloat(string(m[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad height for page %d: %w", n, err)
		}
		sizes[n-1] = pageSize{width: w, height: h}
		seen++
	}
	if seen != count {
		return nil, fmt.Errorf("pdfinfo reported sizes for %d of %d pages", seen, count)
	}
	return sizes, nil
}
