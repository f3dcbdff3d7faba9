package geometry

import (
	"math"

	"github.com/df07/ascii-raytracer/pkg/core"
)

// FloorEpsilon is the smallest downward direction component that can reach the floor
const FloorEpsilon = 1e-4

// Floor represents a bounded horizontal checkerboard
type Floor struct {
	center core.Vec3
	Side   float64   // Full edge length of the square floor
	Cell   float64   // Edge length of one checker cell
	Normal core.Vec3 // Always (0, 1, 0)
}

// NewFloor creates a square floor of the given side centered at center
func NewFloor(center core.Vec3, side, cell float64) *Floor {
	return &Floor{
		center: center,
		Side:   side,
		Cell:   cell,
		Normal: core.NewVec3(0, 1, 0),
	}
}

// Center returns the floor center
func (f *Floor) Center() core.Vec3 {
	return f.center
}

// HitPoint returns where the ray's line crosses the floor plane.
// Callers must ensure the ray is not parallel to the plane.
func (f *Floor) HitPoint(ray core.Ray) core.Vec3 {
	t := f.center.Subtract(ray.Origin).Dot(f.Normal) / ray.Direction.Dot(f.Normal)
	return ray.At(t)
}

// Contains reports whether p lies within the floor's square bounds (x and z only)
func (f *Floor) Contains(p core.Vec3) bool {
	half := f.Side / 2
	return math.Abs(p.X-f.center.X) <= half && math.Abs(p.Z-f.center.Z) <= half
}

// CellIndex returns the checker cell containing p, using floored division
// so that cells keep alternating across negative coordinates.
func (f *Floor) CellIndex(p core.Vec3) (int, int) {
	return int(math.Floor(p.X / f.Cell)), int(math.Floor(p.Z / f.Cell))
}

// Marked reports whether p lies on a dark checker cell
func (f *Floor) Marked(p core.Vec3) bool {
	cx, cz := f.CellIndex(p)
	return parity(cx) != parity(cz)
}

// Test intersects the ray with the floor. Any downward ray is moved onto the
// plane; inside the bounds it is also reflected. Only dark cells report a hit.
func (f *Floor) Test(ray core.Ray) core.HitResult {
	if ray.Direction.Y > -FloorEpsilon {
		return core.Miss(ray)
	}

	point := f.HitPoint(ray)
	if !f.Contains(point) {
		return core.Miss(ray.WithOrigin(point))
	}

	radial := f.Normal.Multiply(ray.Direction.Dot(f.Normal))
	tangential := ray.Direction.Subtract(radial)
	reflected := tangential.Subtract(radial).Normalize()

	return core.HitResult{Ray: core.NewRay(point, reflected), Hit: f.Marked(point)}
}

// MirrorX returns a copy of the floor reflected through the YZ plane
func (f *Floor) MirrorX() *Floor {
	return NewFloor(f.center.MirrorX(), f.Side, f.Cell)
}

func parity(n int) int {
	return n & 1
}
