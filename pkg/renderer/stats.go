package renderer

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Rows        int       // Number of grid rows
	Columns     int       // Number of grid columns
	TotalPixels int       // Total number of cells rendered
	HitPixels   int       // Cells marked as hit
	RowCoverage []float64 // Fraction of hit cells per row, top to bottom
	Coverage    float64   // Mean of RowCoverage
	Workers     int       // Number of workers used
}

// finalize derives the aggregate figures from the per-row hit counts
func (s *RenderStats) finalize(rowHits []int) {
	s.RowCoverage = make([]float64, len(rowHits))
	s.HitPixels = 0
	for i, hits := range rowHits {
		s.HitPixels += hits
		if s.Columns > 0 {
			s.RowCoverage[i] = float64(hits) / float64(s.Columns)
		}
	}
	s.TotalPixels = s.Rows * s.Columns
	if len(s.RowCoverage) > 0 {
		s.Coverage = stat.Mean(s.RowCoverage, nil)
	}
}

// String summarizes the statistics for logging
func (s RenderStats) String() string {
	return fmt.Sprintf("%d/%d cells hit, coverage %.1f%%", s.HitPixels, s.TotalPixels, s.Coverage*100)
}
