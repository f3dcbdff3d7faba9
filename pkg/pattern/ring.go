// Package pattern draws flat character patterns without ray tracing.
package pattern

import "github.com/df07/ascii-raytracer/pkg/core"

// Symbols used by RingBoard
const (
	Empty = ' '
	Light = 'L'
	Dark  = 'N'
)

// RingBoard is a chessboard with an aspect-corrected ring drawn over it.
// Inside the ring, light squares turn dark and empty squares turn light.
type RingBoard struct {
	Rows         int // Squares vertically
	Cols         int // Squares horizontally
	SquareHeight int // Cells per square vertically
	SquareWidth  int // Cells per square horizontally
	Radius       int // Inner ring radius, in horizontal cells
	Thickness    int // Ring width, in horizontal cells
}

// DefaultRingBoard returns a 10x16 board of 10x20-cell squares with a ring of radius 50
func DefaultRingBoard() RingBoard {
	return RingBoard{
		Rows:         10,
		Cols:         16,
		SquareHeight: 10,
		SquareWidth:  20,
		Radius:       50,
		Thickness:    15,
	}
}

// Height returns the grid height in cells
func (b RingBoard) Height() int {
	return b.Rows * b.SquareHeight
}

// Width returns the grid width in cells
func (b RingBoard) Width() int {
	return b.Cols * b.SquareWidth
}

// Render draws the board
func (b RingBoard) Render() core.Grid {
	h, w := b.Height(), b.Width()
	grid := core.NewGrid(h, w, Empty)
	centerX, centerY := w/2, h/2
	outer := b.Radius + b.Thickness

	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			light := b.isLightSquare(i, j)
			x, y := j-centerX, i-centerY
			if !b.inside(x, y, b.Radius) && b.inside(x, y, outer) {
				light = !light
				if !light {
					grid[i][j] = Dark
					continue
				}
			}
			if light {
				grid[i][j] = Light
			}
		}
	}
	return grid
}

func (b RingBoard) isLightSquare(i, j int) bool {
	return (i/b.SquareHeight+j/b.SquareWidth)%2 == 1
}

// inside reports whether (x, y) lies within radius r, stretching y by the
// square aspect so the ring looks round in character cells
func (b RingBoard) inside(x, y, r int) bool {
	aspect := float64(b.SquareWidth) / float64(b.SquareHeight)
	ay := float64(y) * aspect
	return float64(x*x)+ay*ay <= float64(r*r)
}
