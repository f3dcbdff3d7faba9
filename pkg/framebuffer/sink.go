// Package framebuffer delivers rendered character grids to their destination:
// a text stream, a PNG image or an object store.
package framebuffer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/df07/ascii-raytracer/pkg/core"
)

// Sink accepts a finished grid
type Sink interface {
	Write(ctx context.Context, grid core.Grid) error
}

// TextSink writes the grid as lines of text
type TextSink struct {
	w io.Writer
}

// NewTextSink creates a sink writing to w
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

// Write emits each row followed by a newline
func (s *TextSink) Write(ctx context.Context, grid core.Grid) error {
	bw := bufio.NewWriter(s.w)
	for _, row := range grid {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// NewFileName returns a timestamped output path such as output/render_20240102_150405.png
func NewFileName(dir, ext string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("render_%s.%s", timestamp, ext))
}
