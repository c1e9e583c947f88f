package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
)

// ContactSheet lays the views out on a grid of cell-sized thumbnails,
// cols per row, for eyeballing a turnaround at a glance.
func ContactSheet(views []image.Image, cols, cell int) *image.NRGBA {
	if len(views) == 0 || cols < 1 || cell < 1 {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}
	rows := (len(views) + cols - 1) / cols
	sheet := image.NewNRGBA(image.Rect(0, 0, cols*cell, rows*cell))

	for i, view := range views {
		col := i % cols
		row := i / cols
		dst := image.Rect(col*cell, row*cell, (col+1)*cell, (row+1)*cell)
		xdraw.ApproxBiLinear.Scale(sheet, dst, view, view.Bounds(), xdraw.Src, nil)
	}
	return sheet
}

// SavePNG writes the image to path, creating parent directories.
func SavePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
