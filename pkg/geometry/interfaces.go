package geometry

import "github.com/df07/ascii-raytracer/pkg/core"

var (
	_ core.Hittable = (*Sphere)(nil)
	_ core.Hittable = (*Floor)(nil)
)
