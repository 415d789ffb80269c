package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"matchpdf/pkg/config"
	"matchpdf/pkg/geometry"
	"matchpdf/pkg/logging"
	"matchpdf/pkg/matcher"
	"matchpdf/pkg/raster"
	"matchpdf/pkg/report"
)

const appName = "pdf_match"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "matchpdf",
		Usage:     "compare two PDF documents page by page",
		ArgsUsage: "<first.pdf|dir> <second.pdf|dir>",
		Version:   "1.0.1",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "verbose output; keep the temp directory"},
			&cli.BoolFlag{Name: "stop", Aliases: []string{"s"}, Usage: "stop after the first page with differences"},
			&cli.BoolFlag{Name: "justdiff", Aliases: []string{"j"}, Usage: "only include pages with differences in the output"},
			&cli.IntFlag{Name: "pages", Aliases: []string{"p"}, Usage: "stop after `N` pages if differences were found by then"},
			&cli.IntFlag{Name: "maxpages", Aliases: []string{"m"}, Usage: "compare at most `N` pages"},
			&cli.PathFlag{Name: "output", Aliases: []string{"o"}, Usage: "write a review PDF to `FILE`"},
			&cli.PathFlag{Name: "pngdir", Usage: "write review PNGs to `DIR`"},
			&cli.PathFlag{Name: "result", Aliases: []string{"r"}, Usage: "write a JSON result to `FILE`"},
			&cli.PathFlag{Name: "config", Aliases: []string{"c"}, Usage: "JSON `FILE` of ignored rectangles"},
			&cli.Float64Flag{Name: "page-width", Usage: "page width in points for image directory inputs"},
			&cli.Float64Flag{Name: "page-height", Usage: "page height in points for image directory inputs"},
		},
		Action: compare,
	}
}

func compare(c *cli.Context) error {
	debug := c.Bool("debug")
	logging.Init(debug)
	log := logging.Log

	if c.NArg() != 2 {
		return cli.Exit("two documents are required", 1)
	}
	pathA, pathB := c.Args().Get(0), c.Args().Get(1)

	for _, flag := range []string{"debug", "stop", "justdiff", "pages", "maxpages", "output", "pngdir", "result", "config"} {
		if c.IsSet(flag) {
			log.WithField(flag, c.Value(flag)).Debug("flag set")
		}
	}

	for _, flag := range []string{"output", "result"} {
		if path := c.Path(flag); path != "" {
			if err := report.CheckParentDir(path); err != nil {
				return cli.Exit(err, 1)
			}
		}
	}

	settings, err := config.LoadSettings(".")
	if err != nil {
		return cli.Exit(err, 1)
	}
	if c.IsSet("page-width") {
		settings.PageWidthPoints = c.Float64("page-width")
	}
	if c.IsSet("page-height") {
		settings.PageHeightPoints = c.Float64("page-height")
	}

	var resolver *geometry.Resolver
	if path := c.Path("config"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return cli.Exit("the specified config file does not exist", 1)
		}
		cfg, err := config.LoadIgnoreConfig(path)
		if err != nil {
			return cli.Exit(err, 1)
		}
		resolver = geometry.NewResolver(cfg.Rectangles)
	}

	tempDir, err := raster.TempDir(settings.TempDir, appName, uuid.New())
	if err != nil {
		return cli.Exit(err, 1)
	}
	log.WithField("dir", tempDir).Debug("app-specific temp directory")
	defer func() {
		if debug {
			log.WithField("dir", tempDir).Debug("debug mode, temp directory not removed")
			return
		}
		os.RemoveAll(tempDir)
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	poppler := raster.PopplerOptions{
		Pdftoppm: settings.Pdftoppm,
		Pdfinfo:  settings.Pdfinfo,
		ScaleTo:  settings.TargetHeight,
	}
	srcA, err := openSource(ctx, pathA, tempDir, settings, poppler)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer srcA.Close()
	srcB, err := openSource(ctx, pathB, tempDir, settings, poppler)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer srcB.Close()

	var sinks report.MultiSink
	var pdfOut *report.PDFWriter
	if path := c.Path("output"); path != "" {
		pdfOut = report.NewPDFWriter(path, settings.OutputWidthInches)
		sinks = append(sinks, pdfOut)
	}
	if dir := c.Path("pngdir"); dir != "" {
		pngOut, err := report.NewPNGWriter(dir)
		if err != nil {
			return cli.Exit(err, 1)
		}
		sinks = append(sinks, pngOut)
	}
	var sink matcher.PageSink
	if len(sinks) > 0 {
		sink = sinks
	}

	opts := matcher.Options{
		StopOnFirst: c.Bool("stop"),
		JustDiff:    c.Bool("justdiff"),
		Pages:       c.Int("pages"),
		MaxPages:    c.Int("maxpages"),
		Ignore:      resolver,
	}
	summary, err := matcher.Run(ctx, srcA, srcB, opts, sink)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if pdfOut != nil {
		if err := pdfOut.Close(); err != nil {
			return cli.Exit(err, 1)
		}
	}

	if summary.Match() {
		fmt.Println("The PDF documents match.")
	} else {
		fmt.Println("Differences were found.")
	}

	if path := c.Path("result"); path != "" {
		if err := report.WriteResult(path, summary); err != nil {
			return cli.Exit(err, 1)
		}
	}
	return nil
}

func openSource(ctx context.Context, path, tempDir string, settings *config.Settings, poppler raster.PopplerOptions) (raster.Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	if info.IsDir() {
		return raster.OpenDir(path, settings.PageWidthPoints, settings.PageHeightPoints)
	}
	return raster.OpenPDF(ctx, path, tempDir, poppler)
}
