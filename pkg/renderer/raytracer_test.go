package renderer

import (
	"strings"
	"testing"

	"github.com/df07/ascii-raytracer/pkg/config"
	"github.com/df07/ascii-raytracer/pkg/core"
	"github.com/df07/ascii-raytracer/pkg/scene"
)

// MockScene implements Scene for testing
type MockScene struct {
	intersectFn func(ray core.Ray) bool
}

func (m MockScene) IntersectFirst(ray core.Ray) bool {
	return m.intersectFn(ray)
}

// recordingLogger captures log lines
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, format)
}

func smallCamera() *Camera {
	return NewCamera(CameraConfig{
		Origin:      core.NewVec3(0, 0, 3),
		HalfHeight:  0.5,
		Resolution:  20,
		AspectScale: 0.4,
	})
}

func TestRaytracer_RenderAllHitsAndMisses(t *testing.T) {
	tests := []struct {
		name     string
		hit      bool
		expected byte
	}{
		{"always hit", true, 'N'},
		{"always miss", false, ' '},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MockScene{intersectFn: func(core.Ray) bool { return tt.hit }}
			rt := NewRaytracer(s, smallCamera(), DefaultRenderConfig())

			grid, stats := rt.Render()
			if grid.Count(tt.expected) != stats.TotalPixels {
				t.Errorf("Expected every cell to be %q", tt.expected)
			}
			if tt.hit && stats.Coverage != 1 {
				t.Errorf("Expected full coverage, got %f", stats.Coverage)
			}
			if !tt.hit && stats.HitPixels != 0 {
				t.Errorf("Expected no hits, got %d", stats.HitPixels)
			}
		})
	}
}

func TestRaytracer_CustomSymbols(t *testing.T) {
	// Mark only the upper half of the image plane
	s := MockScene{intersectFn: func(ray core.Ray) bool { return ray.Direction.Y > 0 }}
	rt := NewRaytracer(s, smallCamera(), RenderConfig{NumWorkers: 2, HitSymbol: '#', MissSymbol: '.'})

	grid, stats := rt.Render()
	if grid.At(0, 0) != '#' {
		t.Errorf("Expected top row marked, got %q", grid.At(0, 0))
	}
	if grid.At(grid.Height()-1, 0) != '.' {
		t.Errorf("Expected bottom row unmarked, got %q", grid.At(grid.Height()-1, 0))
	}
	if grid.Count('#') != stats.HitPixels {
		t.Errorf("Stats disagree with grid: %d vs %d", stats.HitPixels, grid.Count('#'))
	}
}

func TestRaytracer_SameSymbolsStillCountHits(t *testing.T) {
	s := MockScene{intersectFn: func(ray core.Ray) bool { return ray.Direction.X > 0 }}
	rt := NewRaytracer(s, smallCamera(), RenderConfig{NumWorkers: 1, HitSymbol: 'x', MissSymbol: 'x'})

	_, stats := rt.Render()
	if stats.HitPixels == 0 || stats.HitPixels == stats.TotalPixels {
		t.Errorf("Expected a partial hit count, got %d of %d", stats.HitPixels, stats.TotalPixels)
	}
}

func TestRaytracer_DefaultScene(t *testing.T) {
	rt := NewRaytracer(scene.NewDefaultScene(), NewCamera(DefaultCameraConfig()), DefaultRenderConfig())
	grid, stats := rt.Render()

	if grid.Height() != 121 || grid.Width() != 751 {
		t.Fatalf("Expected 121x751 grid, got %dx%d", grid.Height(), grid.Width())
	}
	if stats.HitPixels != grid.Count('N') {
		t.Errorf("Stats report %d hits, grid has %d", stats.HitPixels, grid.Count('N'))
	}

	// Looking straight at sphere 1: (-0.49, 0.26, -1) projects to x=-0.3675, y=0.195
	if grid.At(37, 265) != 'N' {
		t.Errorf("Expected sphere 1 to cover its projected center")
	}
	if grid.At(0, 0) != ' ' {
		t.Errorf("Expected empty sky in the top-left corner")
	}

	// The bottom row sees the checkerboard: both marked and unmarked cells
	bottom := string(grid[grid.Height()-1])
	if !strings.Contains(bottom, "N") || !strings.Contains(bottom, " ") {
		t.Errorf("Expected checker pattern in bottom row, got %q", bottom)
	}
}

func TestRaytracer_DeterministicAcrossWorkers(t *testing.T) {
	s := scene.NewDefaultScene()
	camera := NewCamera(DefaultCameraConfig())

	single, _ := NewRaytracer(s, camera, RenderConfig{NumWorkers: 1, HitSymbol: 'N', MissSymbol: ' '}).Render()
	parallel, _ := NewRaytracer(s, camera, RenderConfig{NumWorkers: 8, HitSymbol: 'N', MissSymbol: ' '}).Render()

	if single.String() != parallel.String() {
		t.Error("Render output must not depend on worker count")
	}
}

func TestRaytracer_MirroredSceneGivesMirroredImage(t *testing.T) {
	cfg := config.DefaultSceneConfig()
	cfg.Floor = nil // The checkerboard is anchored at x=0 and does not mirror cell-for-cell
	s, err := scene.NewSceneFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}

	camera := NewCamera(DefaultCameraConfig())
	original, _ := NewRaytracer(s, camera, DefaultRenderConfig()).Render()
	mirrored, _ := NewRaytracer(s.MirrorX(), camera, DefaultRenderConfig()).Render()

	width := original.Width()
	for row := 0; row < original.Height(); row++ {
		for col := 0; col < width; col++ {
			if original.At(row, col) != mirrored.At(row, width-1-col) {
				t.Fatalf("Cell (%d, %d) does not mirror (%d, %d)", row, col, row, width-1-col)
			}
		}
	}
	if original.Count('N') == 0 {
		t.Error("Expected the spheres to be visible")
	}
}

func TestRaytracer_Logger(t *testing.T) {
	logger := &recordingLogger{}
	s := MockScene{intersectFn: func(core.Ray) bool { return false }}
	rt := NewRaytracer(s, smallCamera(), DefaultRenderConfig())
	rt.SetLogger(logger)

	rt.Render()
	if len(logger.lines) != 2 {
		t.Errorf("Expected start and completion messages, got %v", logger.lines)
	}

	// A nil logger falls back to discarding output
	rt.SetLogger(nil)
	rt.Render()
}

func TestRenderConfigFrom(t *testing.T) {
	rc := RenderConfigFrom(config.RenderConfig{Workers: 3, HitSymbol: "@", MissSymbol: "-"})
	if rc.NumWorkers != 3 || rc.HitSymbol != '@' || rc.MissSymbol != '-' {
		t.Errorf("Unexpected render config %+v", rc)
	}
}
