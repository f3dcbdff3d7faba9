package renderer

import (
	"math"

	"github.com/df07/ascii-raytracer/pkg/config"
	"github.com/df07/ascii-raytracer/pkg/core"
)

// Camera maps grid cells to rays from a fixed eye point through the z=0 image plane.
// Rows run from +HalfHeight down to -HalfHeight; columns from left to right.
type Camera struct {
	origin core.Vec3
	rows   int
	cols   int
	top    float64
	vStep  float64
	hStep  float64
}

// CameraConfig contains camera parameters
type CameraConfig struct {
	Origin      core.Vec3 // Eye point
	HalfHeight  float64   // Vertical half-extent of the image plane
	Resolution  int       // Vertical steps; the sweep includes both ends
	AspectScale float64   // Horizontal step relative to the vertical step
}

// DefaultCameraConfig returns the camera used by the classic scene
func DefaultCameraConfig() CameraConfig {
	return CameraConfigFrom(config.DefaultCameraConfig())
}

// CameraConfigFrom converts file configuration to camera parameters
func CameraConfigFrom(c config.CameraConfig) CameraConfig {
	return CameraConfig{
		Origin:      core.NewVec3(c.Origin.X, c.Origin.Y, c.Origin.Z),
		HalfHeight:  c.HalfHeight,
		Resolution:  c.Resolution,
		AspectScale: c.AspectScale,
	}
}

// NewCamera creates a camera. The horizontal extent is HalfHeight/AspectScale
// on each side, sampled with a step of vStep*AspectScale.
func NewCamera(cfg CameraConfig) *Camera {
	vStep := 2 * cfg.HalfHeight / float64(cfg.Resolution)
	hStep := vStep * cfg.AspectScale
	halfWidth := cfg.HalfHeight / cfg.AspectScale

	return &Camera{
		origin: cfg.Origin,
		rows:   cfg.Resolution + 1,
		cols:   int(math.Round(2*halfWidth/hStep)) + 1,
		top:    cfg.HalfHeight,
		vStep:  vStep,
		hStep:  hStep,
	}
}

// Rows returns the number of grid rows
func (c *Camera) Rows() int {
	return c.rows
}

// Cols returns the number of grid columns
func (c *Camera) Cols() int {
	return c.cols
}

// Origin returns the eye point
func (c *Camera) Origin() core.Vec3 {
	return c.origin
}

// SampleY returns the image-plane y coordinate for row
func (c *Camera) SampleY(row int) float64 {
	return c.top - float64(row)*c.vStep
}

// SampleX returns the image-plane x coordinate for col. Columns are placed
// symmetrically about x=0 so that col and cols-1-col mirror exactly.
func (c *Camera) SampleX(col int) float64 {
	return (float64(col) - float64(c.cols-1)/2) * c.hStep
}

// GetRay returns the ray for the given grid cell
func (c *Camera) GetRay(row, col int) core.Ray {
	target := core.NewVec3(c.SampleX(col), c.SampleY(row), 0)
	return core.NewRayTo(c.origin, target)
}
