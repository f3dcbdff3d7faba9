package framebuffer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/df07/ascii-raytracer/pkg/core"
	"github.com/nfnt/resize"
)

// ImageConfig controls how cells become pixels
type ImageConfig struct {
	PixelScale  int     // Pixel width of one cell
	AspectScale float64 // Cell width / cell height; cells are PixelScale/AspectScale tall
	Background  byte    // Cells holding this symbol are drawn white, all others black
}

// Rasterize converts the grid to a grayscale image scaled per config
func Rasterize(grid core.Grid, cfg ImageConfig) image.Image {
	w, h := grid.Width(), grid.Height()
	img := image.NewGray(image.Rect(0, 0, w, h))

	for y, row := range grid {
		for x, c := range row {
			if c == cfg.Background {
				img.SetGray(x, y, color.Gray{Y: 255})
			} else {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}

	if w == 0 || h == 0 || (cfg.PixelScale <= 1 && cfg.AspectScale == 1) {
		return img
	}

	scale := max(1, cfg.PixelScale)
	aspect := cfg.AspectScale
	if aspect <= 0 {
		aspect = 1
	}
	outW := uint(w * scale)
	outH := uint(math.Round(float64(h*scale) / aspect))
	return resize.Resize(outW, outH, img, resize.NearestNeighbor)
}

// PNGSink encodes the grid as a PNG image
type PNGSink struct {
	w      io.Writer
	config ImageConfig
}

// NewPNGSink creates a sink writing PNG data to w
func NewPNGSink(w io.Writer, cfg ImageConfig) *PNGSink {
	return &PNGSink{w: w, config: cfg}
}

// Write rasterizes and encodes the grid
func (s *PNGSink) Write(ctx context.Context, grid core.Grid) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return EncodePNG(s.w, grid, s.config)
}

// EncodePNG rasterizes grid and writes it as PNG to w
func EncodePNG(w io.Writer, grid core.Grid, cfg ImageConfig) error {
	if err := png.Encode(w, Rasterize(grid, cfg)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// PNGBytes returns the encoded PNG for grid
func PNGBytes(grid core.Grid, cfg ImageConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, grid, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
