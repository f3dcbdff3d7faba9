package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// HitResult is the outcome of testing a ray against one object.
// Ray holds the ray state after the interaction; it equals the input ray
// when the object left it untouched. Hit reports whether the pixel is marked.
type HitResult struct {
	Ray Ray
	Hit bool
}

// Miss returns a result that leaves the ray unchanged
func Miss(ray Ray) HitResult {
	return HitResult{Ray: ray}
}

// Hittable is implemented by every object a ray can strike
type Hittable interface {
	Test(ray Ray) HitResult
	Center() Vec3
}
