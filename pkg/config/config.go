package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides, e.g. ASCIITRACER_RENDER_WORKERS
const EnvPrefix = "ASCIITRACER"

// MaxGridDimension bounds the rows and columns a camera may sweep
const MaxGridDimension = 8192

// Output formats
const (
	FormatText = "text"
	FormatPNG  = "png"
	FormatS3   = "s3"
)

// Config holds everything needed to build a scene, render it and deliver the result
type Config struct {
	Camera CameraConfig `yaml:"camera" mapstructure:"camera"`
	Scene  SceneConfig  `yaml:"scene" mapstructure:"scene"`
	Render RenderConfig `yaml:"render" mapstructure:"render"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// Vec is a point in scene space
type Vec struct {
	X float64 `yaml:"x" mapstructure:"x"`
	Y float64 `yaml:"y" mapstructure:"y"`
	Z float64 `yaml:"z" mapstructure:"z"`
}

// CameraConfig describes the eye point and the image-plane sweep
type CameraConfig struct {
	Origin      Vec     `yaml:"origin" mapstructure:"origin"`
	HalfHeight  float64 `yaml:"half_height" mapstructure:"half_height"`   // Vertical sweep covers [-HalfHeight, +HalfHeight]
	Resolution  int     `yaml:"resolution" mapstructure:"resolution"`     // Vertical steps; rows = Resolution + 1
	AspectScale float64 `yaml:"aspect_scale" mapstructure:"aspect_scale"` // Character width / height correction
}

// SceneConfig lists the objects in test order: the floor first, then spheres
type SceneConfig struct {
	Floor   *FloorConfig   `yaml:"floor,omitempty" mapstructure:"floor"`
	Spheres []SphereConfig `yaml:"spheres" mapstructure:"spheres"`
}

// FloorConfig describes the checkerboard floor
type FloorConfig struct {
	Center Vec     `yaml:"center" mapstructure:"center"`
	Side   float64 `yaml:"side" mapstructure:"side"`
	Cell   float64 `yaml:"cell" mapstructure:"cell"`
}

// SphereConfig describes a reflective sphere
type SphereConfig struct {
	Center Vec     `yaml:"center" mapstructure:"center"`
	Radius float64 `yaml:"radius" mapstructure:"radius"`
}

// RenderConfig controls the scanline renderer
type RenderConfig struct {
	Workers    int    `yaml:"workers" mapstructure:"workers"` // 0 = use CPU count
	HitSymbol  string `yaml:"hit_symbol" mapstructure:"hit_symbol"`
	MissSymbol string `yaml:"miss_symbol" mapstructure:"miss_symbol"`
	MirrorX    bool   `yaml:"mirror_x" mapstructure:"mirror_x"`
}

// OutputConfig selects the framebuffer sink
type OutputConfig struct {
	Format     string   `yaml:"format" mapstructure:"format"`
	Dir        string   `yaml:"dir" mapstructure:"dir"`
	PixelScale int      `yaml:"pixel_scale" mapstructure:"pixel_scale"`
	S3         S3Config `yaml:"s3" mapstructure:"s3"`
}

// S3Config holds object storage settings for the s3 output format
type S3Config struct {
	Bucket    string `yaml:"bucket" mapstructure:"bucket"`
	Region    string `yaml:"region" mapstructure:"region"`
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// DefaultConfig returns the classic scene: a checkerboard floor and three spheres
func DefaultConfig() *Config {
	return &Config{
		Camera: DefaultCameraConfig(),
		Scene:  DefaultSceneConfig(),
		Render: RenderConfig{
			Workers:    0,
			HitSymbol:  "N",
			MissSymbol: " ",
		},
		Output: OutputConfig{
			Format:     FormatText,
			Dir:        "output",
			PixelScale: 4,
			S3: S3Config{
				Region:    "us-east-1",
				KeyPrefix: "renders/",
			},
		},
	}
}

// DefaultCameraConfig returns the camera at (0, 0, 3) sweeping 121 rows
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:      Vec{0, 0, 3},
		HalfHeight:  0.5,
		Resolution:  120,
		AspectScale: 0.4,
	}
}

// DefaultSceneConfig returns the floor and the three spheres in test order
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		Floor: &FloorConfig{Center: Vec{0, -1.2, -2}, Side: 25, Cell: 0.8},
		Spheres: []SphereConfig{
			{Center: Vec{-0.49, 0.26, -1}, Radius: 0.4},
			{Center: Vec{0.35, 0.42, -1.2}, Radius: 0.3},
			{Center: Vec{0.72, -0.12, -1.5}, Radius: 0.2},
		},
	}
}

// Load reads a config file over the defaults. Environment variables prefixed
// with EnvPrefix override both. An empty path reads no file. Lists in the
// file replace the default lists, and an empty or null scene.floor removes
// the floor.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	removeFloor, err := registerDefaults(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if removeFloor {
		cfg.Scene.Floor = nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// registerDefaults hands DefaultConfig to viper key by key, so environment
// overrides apply to every key. Scene lists are only defaulted when the file
// leaves them out. It reports whether the file cleared the floor.
func registerDefaults(v *viper.Viper) (bool, error) {
	defaults, err := defaultsMap()
	if err != nil {
		return false, err
	}

	sceneDefaults, _ := defaults["scene"].(map[string]interface{})
	delete(defaults, "scene")
	setDefaults(v, "", defaults)

	fileScene := v.GetStringMap("scene")
	if _, ok := fileScene["spheres"]; !ok {
		v.SetDefault("scene.spheres", sceneDefaults["spheres"])
	}

	floor, declared := fileScene["floor"]
	if declared && isEmptyValue(floor) {
		return true, nil
	}
	if floorDefaults, ok := sceneDefaults["floor"].(map[string]interface{}); ok {
		setDefaults(v, "scene.floor", floorDefaults)
	}
	return false, nil
}

// defaultsMap encodes DefaultConfig through its yaml tags, which match the
// mapstructure keys viper decodes with
func defaultsMap() (map[string]interface{}, error) {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to encode defaults: %w", err)
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode defaults: %w", err)
	}
	return m, nil
}

func setDefaults(v *viper.Viper, prefix string, m map[string]interface{}) {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]interface{}); ok && len(sub) > 0 {
			setDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

func isEmptyValue(val interface{}) bool {
	switch m := val.(type) {
	case nil:
		return true
	case map[string]interface{}:
		return len(m) == 0
	case map[interface{}]interface{}:
		return len(m) == 0
	}
	return false
}

// Save writes the configuration as YAML, creating parent directories
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Marshal encodes the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// Validate checks that every value can produce a well-formed render
func (c *Config) Validate() error {
	var errs []error

	if c.Camera.HalfHeight <= 0 {
		errs = append(errs, fmt.Errorf("camera.half_height must be positive, got %g", c.Camera.HalfHeight))
	}
	if c.Camera.Resolution <= 0 {
		errs = append(errs, fmt.Errorf("camera.resolution must be positive, got %d", c.Camera.Resolution))
	}
	if c.Camera.AspectScale <= 0 {
		errs = append(errs, fmt.Errorf("camera.aspect_scale must be positive, got %g", c.Camera.AspectScale))
	}
	if c.Camera.HalfHeight > 0 && c.Camera.Resolution > 0 && c.Camera.AspectScale > 0 {
		rows, cols := c.Camera.GridSize()
		if rows > MaxGridDimension {
			errs = append(errs, fmt.Errorf("camera sweeps %d rows, limit is %d", rows, MaxGridDimension))
		}
		if cols > MaxGridDimension {
			errs = append(errs, fmt.Errorf("camera sweeps %d columns, limit is %d", cols, MaxGridDimension))
		}
	}

	if f := c.Scene.Floor; f != nil {
		if f.Side <= 0 {
			errs = append(errs, fmt.Errorf("scene.floor.side must be positive, got %g", f.Side))
		}
		if f.Cell <= 0 {
			errs = append(errs, fmt.Errorf("scene.floor.cell must be positive, got %g", f.Cell))
		}
	}
	for i, s := range c.Scene.Spheres {
		if s.Radius <= 0 {
			errs = append(errs, fmt.Errorf("scene.spheres[%d].radius must be positive, got %g", i, s.Radius))
		}
	}

	if c.Render.Workers < 0 {
		errs = append(errs, fmt.Errorf("render.workers must not be negative, got %d", c.Render.Workers))
	}
	if err := checkSymbol("render.hit_symbol", c.Render.HitSymbol); err != nil {
		errs = append(errs, err)
	}
	if err := checkSymbol("render.miss_symbol", c.Render.MissSymbol); err != nil {
		errs = append(errs, err)
	}

	switch c.Output.Format {
	case FormatText:
	case FormatPNG:
		if c.Output.PixelScale <= 0 {
			errs = append(errs, fmt.Errorf("output.pixel_scale must be positive, got %d", c.Output.PixelScale))
		}
	case FormatS3:
		if c.Output.PixelScale <= 0 {
			errs = append(errs, fmt.Errorf("output.pixel_scale must be positive, got %d", c.Output.PixelScale))
		}
		if c.Output.S3.Bucket == "" {
			errs = append(errs, errors.New("output.s3.bucket is required for s3 output"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown output.format %q", c.Output.Format))
	}

	return errors.Join(errs...)
}

// GridSize returns the rows and columns the camera sweeps. Columns are
// computed in float64 first so an extreme aspect scale cannot overflow int.
func (c CameraConfig) GridSize() (rows, cols int) {
	vStep := 2 * c.HalfHeight / float64(c.Resolution)
	hStep := vStep * c.AspectScale
	halfWidth := c.HalfHeight / c.AspectScale
	width := math.Round(2*halfWidth/hStep) + 1
	if width > math.MaxInt32 || math.IsNaN(width) {
		return c.Resolution + 1, math.MaxInt32
	}
	return c.Resolution + 1, int(width)
}

func checkSymbol(name, s string) error {
	if len(s) != 1 || s[0] > 0x7f {
		return fmt.Errorf("%s must be a single ASCII character, got %q", name, s)
	}
	return nil
}
