package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"matchpdf/pkg/images"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <pngdir>\n", os.Args[0])
		os.Exit(1)
	}
	pages, err := reviewPages(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(pages) == 0 {
		fmt.Fprintf(os.Stderr, "No review pages in %s\n", os.Args[1])
		os.Exit(1)
	}

	a := app.New()
	w := a.NewWindow("matchview")
	w.Resize(fyne.NewSize(1280, 800))

	canvasImg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	canvasImg.FillMode = canvas.ImageFillContain
	status := widget.NewLabel("")

	current := 0
	show := func(i int) {
		img, err := images.LoadImage(pages[i])
		if err != nil {
			status.SetText("Error: " + err.Error())
			return
		}
		current = i
		canvasImg.Image = img
		canvasImg.Refresh()
		status.SetText(pageLabel(i, len(pages)))
		w.SetTitle(fmt.Sprintf("matchview - %s", filepath.Base(pages[i])))
	}

	prev := widget.NewButton("Previous", func() {
		if current > 0 {
			show(current - 1)
		}
	})
	next := widget.NewButton("Next", func() {
		if current < len(pages)-1 {
			show(current + 1)
		}
	})

	bottomBar := container.NewBorder(nil, nil, prev, next, status)
	w.SetContent(container.NewBorder(nil, bottomBar, nil, nil, canvasImg))
	show(0)
	w.ShowAndRun()
}

// reviewPages lists the page-*.png files written by matchpdf --pngdir, in
// page order.
func reviewPages(dir string) ([]string, error) {
	pages, err := filepath.Glob(filepath.Join(dir, "page-*.png"))
	if err != nil {
		return nil, err
	}
	sort.Strings(pages)
	return pages, nil
}

func pageLabel(i, n int) string {
	return fmt.Sprintf("page %d of %d", i+1, n)
}
