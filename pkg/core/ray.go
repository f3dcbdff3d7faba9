package core

// Ray represents a ray with an origin (support point) and a unit direction.
// Rays are values: objects hand back an updated copy instead of mutating.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// NewRayTo creates a ray from origin aimed at target with a normalized direction
func NewRayTo(origin, target Vec3) Ray {
	return Ray{Origin: origin, Direction: target.Subtract(origin).Normalize()}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// WithOrigin returns a copy of the ray moved to origin
func (r Ray) WithOrigin(origin Vec3) Ray {
	return Ray{Origin: origin, Direction: r.Direction}
}

// WithDirection returns a copy of the ray pointing along direction
func (r Ray) WithDirection(direction Vec3) Ray {
	return Ray{Origin: r.Origin, Direction: direction}
}
