package scene

import "github.com/df07/ascii-raytracer/pkg/config"

// NewDefaultScene creates the classic scene: checkerboard floor, then three spheres
func NewDefaultScene() *Scene {
	s, err := NewSceneFromConfig(config.DefaultSceneConfig())
	if err != nil {
		// The default config is static and valid
		panic(err)
	}
	return s
}
