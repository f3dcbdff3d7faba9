package renderer

import (
	"log"
	"os"
	"time"

	"github.com/df07/ascii-raytracer/pkg/config"
	"github.com/df07/ascii-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stderr, keeping stdout
// free for the rendered grid
type DefaultLogger struct {
	logger *log.Logger
}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	dl.logger.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{logger: log.New(os.Stderr, "", log.LstdFlags)}
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...interface{}) {}

// Scene interface to avoid circular imports
type Scene interface {
	IntersectFirst(ray core.Ray) bool
}

// RenderConfig contains rendering configuration
type RenderConfig struct {
	NumWorkers int  // Number of parallel workers (0 = use CPU count)
	HitSymbol  byte // Cell written when the ray is marked
	MissSymbol byte // Cell written otherwise
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		NumWorkers: 0,
		HitSymbol:  'N',
		MissSymbol: ' ',
	}
}

// RenderConfigFrom converts file configuration to render parameters.
// Symbols must already be validated as single ASCII characters.
func RenderConfigFrom(c config.RenderConfig) RenderConfig {
	return RenderConfig{
		NumWorkers: c.Workers,
		HitSymbol:  c.HitSymbol[0],
		MissSymbol: c.MissSymbol[0],
	}
}

// Raytracer sweeps the camera over the image plane, one ray per cell
type Raytracer struct {
	scene  Scene
	camera *Camera
	config RenderConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, camera *Camera, config RenderConfig) *Raytracer {
	return &Raytracer{
		scene:  scene,
		camera: camera,
		config: config,
		logger: discardLogger{},
	}
}

// SetLogger sets the logger for render progress
func (rt *Raytracer) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = discardLogger{}
	}
	rt.logger = logger
}

// Camera returns the camera
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// HitAt reports whether the ray for one cell is marked by the scene
func (rt *Raytracer) HitAt(row, col int) bool {
	return rt.scene.IntersectFirst(rt.camera.GetRay(row, col))
}

// RenderRow fills cells for one scanline and returns the number of hits
func (rt *Raytracer) RenderRow(row int, cells []byte) int {
	hits := 0
	for col := range cells {
		if rt.HitAt(row, col) {
			cells[col] = rt.config.HitSymbol
			hits++
		} else {
			cells[col] = rt.config.MissSymbol
		}
	}
	return hits
}

// Render produces the full character grid, rows top to bottom.
// Output does not depend on the number of workers.
func (rt *Raytracer) Render() (core.Grid, RenderStats) {
	startTime := time.Now()
	rows, cols := rt.camera.Rows(), rt.camera.Cols()
	grid := core.NewGrid(rows, cols, rt.config.MissSymbol)

	pool := NewWorkerPool(rt, rt.config.NumWorkers)
	rt.logger.Printf("Rendering %dx%d cells using %d workers...", cols, rows, pool.GetNumWorkers())

	pool.Start()
	for row := 0; row < rows; row++ {
		pool.SubmitTask(RowTask{Row: row, Cells: grid[row]})
	}
	pool.Stop()

	rowHits := make([]int, rows)
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		rowHits[result.Row] = result.Hits
	}

	stats := RenderStats{Rows: rows, Columns: cols, Workers: pool.GetNumWorkers()}
	stats.finalize(rowHits)

	rt.logger.Printf("Render completed in %v (%s)", time.Since(startTime), stats)
	return grid, stats
}
