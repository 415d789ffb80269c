package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"matchpdf/pkg/images"
	"matchpdf/pkg/matcher"
)

func pageResult(n int) matcher.PageResult {
	img := image.NewRGBA(image.Rect(0, 0, 41, 20))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return matcher.PageResult{Number: n, Composite: img}
}

func TestPDFWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	w := NewPDFWriter(path, 17)
	require.NoError(t, w.AddPage(context.Background(), pageResult(1)))
	require.NoError(t, w.AddPage(context.Background(), pageResult(2)))
	assert.Equal(t, 2, w.Pages())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	// 17in wide page: 1224pt, height 20 * 1224/41.
	assert.Contains(t, string(data), "597.07")
}

func TestPDFWriter_NoPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	w := NewPDFWriter(path, 0)
	require.NoError(t, w.AddPage(context.Background(), matcher.PageResult{Number: 1}))
	require.NoError(t, w.Close())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "expected no file to be written")
}

func TestPNGWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pngs")
	w, err := NewPNGWriter(dir)
	require.NoError(t, err)
	require.NoError(t, w.AddPage(context.Background(), pageResult(7)))

	require.Len(t, w.Files(), 1)
	assert.Equal(t, filepath.Join(dir, "page-0007.png"), w.Files()[0])
	img, err := images.LoadImage(w.Files()[0])
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 41, 20), img.Bounds())
}

type failingSink struct{ calls int }

func (s *failingSink) AddPage(ctx context.Context, p matcher.PageResult) error {
	s.calls++
	return errors.New("disk full")
}

func TestMultiSink(t *testing.T) {
	first := &failingSink{}
	second := &failingSink{}
	err := MultiSink{first, second}.AddPage(context.Background(), pageResult(1))
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestWriteResult(t *testing.T) {
	dir := t.TempDir()
	id := uuid.New()

	tests := []struct {
		summary matcher.Summary
		want    string
	}{
		{matcher.Summary{RunID: id, PagesCompared: 3}, ResultMatch},
		{matcher.Summary{RunID: id, PagesCompared: 3, DifferingPages: []int{2}}, ResultDifferent},
		{matcher.Summary{RunID: id, PageCountDiffers: true}, ResultDifferent},
		{matcher.Summary{RunID: id, SizeMismatchPage: 1}, ResultDifferent},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, "result.json")
		require.NoError(t, WriteResult(path, tt.summary))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var got Result
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, tt.want, got.MatchResult)
		assert.Equal(t, id.String(), got.RunID)
		assert.NotNil(t, got.DifferingPages)
	}
}

func TestCheckParentDir(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, CheckParentDir(filepath.Join(dir, "out.pdf")))
	assert.Error(t, CheckParentDir(filepath.Join(dir, "missing", "out.pdf")))

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.Error(t, CheckParentDir(filepath.Join(file, "out.pdf")))
}
