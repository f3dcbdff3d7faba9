package pattern

import "testing"

func TestRingBoard_Dimensions(t *testing.T) {
	board := DefaultRingBoard()
	grid := board.Render()

	if grid.Height() != 100 || grid.Width() != 320 {
		t.Errorf("Expected 100x320 grid, got %dx%d", grid.Height(), grid.Width())
	}
}

func TestRingBoard_Cells(t *testing.T) {
	grid := DefaultRingBoard().Render()

	tests := []struct {
		name     string
		row, col int
		expected byte
	}{
		{"empty corner square", 0, 0, Empty},
		{"light square next to corner", 0, 20, Light},
		{"light square below corner", 10, 0, Light},
		{"ring over light square turns dark", 50, 215, Dark},
		{"ring over empty square turns light", 50, 225, Light},
		{"inside inner circle is untouched", 50, 205, Light},
		{"center of board", 50, 160, Light},
		{"ring is stretched vertically", 20, 160, Light},
		{"outside the ring", 50, 230, Empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grid.At(tt.row, tt.col); got != tt.expected {
				t.Errorf("Cell (%d, %d): expected %q, got %q", tt.row, tt.col, tt.expected, got)
			}
		})
	}
}

func TestRingBoard_DarkOnlyInRing(t *testing.T) {
	board := DefaultRingBoard()
	grid := board.Render()
	outer := board.Radius + board.Thickness

	for i := 0; i < grid.Height(); i++ {
		for j := 0; j < grid.Width(); j++ {
			if grid.At(i, j) != Dark {
				continue
			}
			x, y := j-board.Width()/2, i-board.Height()/2
			if board.inside(x, y, board.Radius) || !board.inside(x, y, outer) {
				t.Fatalf("Dark cell (%d, %d) lies outside the ring", i, j)
			}
		}
	}
	if grid.Count(Dark) == 0 {
		t.Error("Expected the ring to produce dark cells")
	}
}
