package core

import "strings"

// Grid is a rectangular character framebuffer, indexed [row][column].
// Row 0 is the top line of the image.
type Grid [][]byte

// NewGrid creates a grid of the given size filled with fill
func NewGrid(rows, cols int, fill byte) Grid {
	g := make(Grid, rows)
	for r := range g {
		row := make([]byte, cols)
		for c := range row {
			row[c] = fill
		}
		g[r] = row
	}
	return g
}

// Height returns the number of rows
func (g Grid) Height() int {
	return len(g)
}

// Width returns the number of columns
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// At returns the character at the given row and column
func (g Grid) At(row, col int) byte {
	return g[row][col]
}

// Count returns how many cells hold symbol
func (g Grid) Count(symbol byte) int {
	n := 0
	for _, row := range g {
		for _, c := range row {
			if c == symbol {
				n++
			}
		}
	}
	return n
}

// String renders the grid with a newline after every row
func (g Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.Height() * (g.Width() + 1))
	for _, row := range g {
		sb.Write(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}
