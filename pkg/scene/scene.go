package scene

import (
	"fmt"

	"github.com/df07/ascii-raytracer/pkg/config"
	"github.com/df07/ascii-raytracer/pkg/core"
	"github.com/df07/ascii-raytracer/pkg/geometry"
)

// Scene is an ordered, read-only list of objects. Order matters: a ray is
// handed from object to object and the first hit decides the pixel.
type Scene struct {
	objects []core.Hittable
}

// NewScene creates a scene testing objects in the given order
func NewScene(objects ...core.Hittable) *Scene {
	owned := make([]core.Hittable, len(objects))
	copy(owned, objects)
	return &Scene{objects: owned}
}

// NewSceneFromConfig builds the floor (if any) followed by the spheres
func NewSceneFromConfig(cfg config.SceneConfig) (*Scene, error) {
	objects := make([]core.Hittable, 0, len(cfg.Spheres)+1)

	if f := cfg.Floor; f != nil {
		if f.Side <= 0 || f.Cell <= 0 {
			return nil, fmt.Errorf("floor needs positive side and cell, got side=%g cell=%g", f.Side, f.Cell)
		}
		objects = append(objects, geometry.NewFloor(toVec3(f.Center), f.Side, f.Cell))
	}

	for i, s := range cfg.Spheres {
		if s.Radius <= 0 {
			return nil, fmt.Errorf("sphere %d: radius must be positive, got %g", i, s.Radius)
		}
		objects = append(objects, geometry.NewSphere(toVec3(s.Center), s.Radius))
	}

	return &Scene{objects: objects}, nil
}

// Objects returns the objects in test order
func (s *Scene) Objects() []core.Hittable {
	return s.objects
}

// Len returns the number of objects
func (s *Scene) Len() int {
	return len(s.objects)
}

// Trace threads the ray through every object in order and returns the final
// ray state. It stops at the first object that reports a hit.
func (s *Scene) Trace(ray core.Ray) (core.Ray, bool) {
	for _, obj := range s.objects {
		result := obj.Test(ray)
		ray = result.Ray
		if result.Hit {
			return ray, true
		}
	}
	return ray, false
}

// IntersectFirst reports whether any object marks the ray
func (s *Scene) IntersectFirst(ray core.Ray) bool {
	_, hit := s.Trace(ray)
	return hit
}

// MirrorX returns a new scene with every object reflected through the YZ plane
func (s *Scene) MirrorX() *Scene {
	mirrored := make([]core.Hittable, len(s.objects))
	for i, obj := range s.objects {
		switch o := obj.(type) {
		case *geometry.Sphere:
			mirrored[i] = o.MirrorX()
		case *geometry.Floor:
			mirrored[i] = o.MirrorX()
		default:
			mirrored[i] = obj
		}
	}
	return &Scene{objects: mirrored}
}

func toVec3(v config.Vec) core.Vec3 {
	return core.NewVec3(v.X, v.Y, v.Z)
}
