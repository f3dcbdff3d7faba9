package geometry

import (
	"math"

	"github.com/df07/ascii-raytracer/pkg/core"
)

// Sphere represents a perfectly reflective ball
type Sphere struct {
	center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{
		center: center,
		Radius: radius,
	}
}

// Center returns the sphere center
func (s *Sphere) Center() core.Vec3 {
	return s.center
}

// DistanceFromRay returns the perpendicular distance from the sphere center
// to the infinite line carrying the ray. The direction must be unit length.
func (s *Sphere) DistanceFromRay(ray core.Ray) float64 {
	return ray.Origin.Subtract(s.center).Cross(ray.Direction).Length()
}

// HitPoint returns the nearer intersection of the ray's line with the sphere.
// When rounding leaves the discriminant negative the ray origin is returned.
func (s *Sphere) HitPoint(ray core.Ray) core.Vec3 {
	oc := ray.Origin.Subtract(s.center)
	halfB := ray.Direction.Dot(oc)
	discriminant := halfB*halfB - oc.LengthSquared() + s.Radius*s.Radius

	if discriminant < 0 {
		return ray.Origin
	}

	return ray.At(-halfB - math.Sqrt(discriminant))
}

// Test moves the ray onto the sphere surface and bounces it.
// Reflected rays always leave heading downward: an upward reflection is flipped.
func (s *Sphere) Test(ray core.Ray) core.HitResult {
	if s.DistanceFromRay(ray) >= s.Radius {
		return core.Miss(ray)
	}

	point := s.HitPoint(ray)
	normal := point.Subtract(s.center).Normalize()
	d := ray.Direction
	reflected := d.Subtract(normal.Multiply(2 * d.Dot(normal))).Normalize()

	if reflected.Y >= 0 {
		reflected = reflected.Negate()
	}

	return core.HitResult{Ray: core.NewRay(point, reflected), Hit: true}
}

// MirrorX returns a copy of the sphere reflected through the YZ plane
func (s *Sphere) MirrorX() *Sphere {
	return NewSphere(s.center.MirrorX(), s.Radius)
}
