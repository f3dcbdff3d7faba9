package scene

import (
	"github.com/df07/ascii-raytracer/pkg/core"
	"github.com/df07/ascii-raytracer/pkg/geometry"
)

// Contact records where a probe ray crosses one sphere
type Contact struct {
	Index  int       // Position of the sphere in the scene
	Center core.Vec3 // Sphere center
	Point  core.Vec3 // Nearer intersection along the ray's line
}

// Probe tests the ray against every sphere independently, without bouncing,
// and lists each sphere whose surface the ray's line crosses.
func (s *Scene) Probe(ray core.Ray) []Contact {
	ray = ray.WithDirection(ray.Direction.Normalize())

	var contacts []Contact
	for i, obj := range s.objects {
		sphere, ok := obj.(*geometry.Sphere)
		if !ok {
			continue
		}
		if sphere.DistanceFromRay(ray) >= sphere.Radius {
			continue
		}
		contacts = append(contacts, Contact{
			Index:  i,
			Center: sphere.Center(),
			Point:  sphere.HitPoint(ray),
		})
	}
	return contacts
}
