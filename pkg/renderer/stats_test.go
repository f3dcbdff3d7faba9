package renderer

import (
	"math"
	"strings"
	"testing"
)

func TestRenderStats_Finalize(t *testing.T) {
	stats := RenderStats{Rows: 3, Columns: 4}
	stats.finalize([]int{0, 2, 4})

	if stats.TotalPixels != 12 {
		t.Errorf("Expected 12 pixels, got %d", stats.TotalPixels)
	}
	if stats.HitPixels != 6 {
		t.Errorf("Expected 6 hits, got %d", stats.HitPixels)
	}

	expectedRows := []float64{0, 0.5, 1}
	for i, want := range expectedRows {
		if math.Abs(stats.RowCoverage[i]-want) > 1e-12 {
			t.Errorf("Row %d: expected coverage %f, got %f", i, want, stats.RowCoverage[i])
		}
	}
	if math.Abs(stats.Coverage-0.5) > 1e-12 {
		t.Errorf("Expected coverage 0.5, got %f", stats.Coverage)
	}
}

func TestRenderStats_FinalizeEmpty(t *testing.T) {
	stats := RenderStats{}
	stats.finalize(nil)

	if stats.TotalPixels != 0 || stats.HitPixels != 0 || stats.Coverage != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}

func TestRenderStats_String(t *testing.T) {
	stats := RenderStats{Rows: 2, Columns: 2}
	stats.finalize([]int{1, 1})

	s := stats.String()
	if !strings.Contains(s, "2/4") || !strings.Contains(s, "50.0%") {
		t.Errorf("Unexpected summary %q", s)
	}
}
