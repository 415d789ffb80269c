package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"matchpdf/pkg/images"
	"matchpdf/pkg/report"
)

func writePages(t *testing.T, dir string, n int, dirty ...int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for i := 1; i <= n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 30, 40))
		for p := range img.Pix {
			img.Pix[p] = 255
		}
		for _, d := range dirty {
			if d == i {
				img.SetRGBA(15, 25, color.RGBA{0, 0, 0, 255})
			}
		}
		require.NoError(t, images.SavePNG(filepath.Join(dir, fmt.Sprintf("p%02d.png", i)), img))
	}
}

func runApp(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("MATCHPDF_TEMP_DIR", t.TempDir())
	app := newApp()
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app.Run(append([]string{"matchpdf"}, args...))
}

func readResult(t *testing.T, path string) report.Result {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var r report.Result
	require.NoError(t, json.Unmarshal(data, &r))
	return r
}

func TestCompare_DirectoriesMatch(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a"), filepath.Join(dir, "b")
	writePages(t, a, 2)
	writePages(t, b, 2)
	result := filepath.Join(dir, "result.json")

	require.NoError(t, runApp(t, "--result", result, a, b))

	r := readResult(t, result)
	assert.Equal(t, report.ResultMatch, r.MatchResult)
	assert.Equal(t, 2, r.PagesCompared)
}

func TestCompare_DirectoriesDiffer(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a"), filepath.Join(dir, "b")
	writePages(t, a, 3)
	writePages(t, b, 3, 2)
	result := filepath.Join(dir, "result.json")
	pngDir := filepath.Join(dir, "review")
	output := filepath.Join(dir, "review.pdf")

	require.NoError(t, runApp(t, "--justdiff", "--result", result, "--pngdir", pngDir, "--output", output, a, b))

	r := readResult(t, result)
	assert.Equal(t, report.ResultDifferent, r.MatchResult)
	assert.Equal(t, []int{2}, r.DifferingPages)

	pngs, err := filepath.Glob(filepath.Join(pngDir, "page-*.png"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(pngDir, "page-0002.png")}, pngs)
	_, err = os.Stat(output)
	assert.NoError(t, err)
}

func TestCompare_IgnoreConfig(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a"), filepath.Join(dir, "b")
	writePages(t, a, 1)
	writePages(t, b, 1, 1)
	cfg := filepath.Join(dir, "ignore.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{"ignored_rectangles": [
		{"page": "all", "top_left": [0, 0], "bottom_right": [11, 11]}
	]}`), 0644))
	result := filepath.Join(dir, "result.json")

	require.NoError(t, runApp(t, "--config", cfg, "--result", result, a, b))
	assert.Equal(t, report.ResultMatch, readResult(t, result).MatchResult)
}

func TestCompare_Errors(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, runApp(t, dir))
	assert.Error(t, runApp(t, "--config", filepath.Join(dir, "missing.json"), dir, dir))
	assert.Error(t, runApp(t, "--result", filepath.Join(dir, "missing", "r.json"), dir, dir))
	assert.Error(t, runApp(t, filepath.Join(dir, "nope.pdf"), dir))
}
