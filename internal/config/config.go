// Package config handles demo configuration loading and management.
package config

import "math"

// Config holds all demo settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Scene    SceneConfig    `yaml:"scene"`
	Shaders  ShaderConfig   `yaml:"shaders"`
	Capture  CaptureConfig  `yaml:"capture"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	Backend    string     `yaml:"backend"` // "sdl" or "glfw"
	Samples    int        `yaml:"samples"` // MSAA samples, 0 disables
	ClearColor [4]float32 `yaml:"clear_color"`
}

// CameraConfig holds first-person camera settings.
type CameraConfig struct {
	MovementSpeed float32    `yaml:"movement_speed"` // world units per second
	RotationSpeed float32    `yaml:"rotation_speed"` // degrees per pixel per second
	FOV           float32    `yaml:"fov"`            // vertical, degrees
	Near          float32    `yaml:"near"`
	Far           float32    `yaml:"far"`
	PitchLimit    float32    `yaml:"pitch_limit"` // max pitch change per rotate call, degrees
	YawLimit      float32    `yaml:"yaw_limit"`   // max yaw change per rotate call, degrees
	Position      [3]float32 `yaml:"position"`
	LookAt        [3]float32 `yaml:"look_at"`
	Up            [3]float32 `yaml:"up"`
}

// SceneConfig holds demo scene settings.
type SceneConfig struct {
	SpinSpeed float32     `yaml:"spin_speed"` // radians per second
	Light     LightConfig `yaml:"light"`
}

// LightConfig describes the directional sun light.
type LightConfig struct {
	Azimuth   float32    `yaml:"azimuth"`   // degrees around +Y, 0 faces +Z
	Elevation float32    `yaml:"elevation"` // degrees above the horizon
	Color     [3]float32 `yaml:"color"`
	Ambient   float32    `yaml:"ambient"` // 0..1
}

// ShaderConfig locates the shader program sources.
// An empty Dir selects the embedded default program.
type ShaderConfig struct {
	Dir  string `yaml:"dir"`
	Name string `yaml:"name"`
}

// CaptureConfig controls frame captures taken with F12.
type CaptureConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // "png" or "bmp"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string            `yaml:"level"`
	LogFile    string            `yaml:"log_file"`
	Subsystems map[string]string `yaml:"subsystems,omitempty"` // e.g. {shader: debug}
}

// Backend names.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      800,
			Height:     600,
			Fullscreen: false,
			VSync:      true,
			Backend:    BackendSDL,
			Samples:    4,
			ClearColor: [4]float32{0.2, 0.3, 0.3, 1.0},
		},
		Camera: CameraConfig{
			MovementSpeed: 2.5,
			RotationSpeed: 5.0,
			FOV:           45,
			Near:          0.1,
			Far:           100,
			PitchLimit:    5,
			YawLimit:      5,
			Position:      [3]float32{0, 0, 3},
			LookAt:        [3]float32{0, 0, 0},
			Up:            [3]float32{0, 1, 0},
		},
		Scene: SceneConfig{
			SpinSpeed: 1.0,
			Light: LightConfig{
				Azimuth:   35,
				Elevation: 60,
				Color:     [3]float32{1, 1, 1},
				Ambient:   0.25,
			},
		},
		Shaders: ShaderConfig{
			Dir:  "",
			Name: "cube",
		},
		Capture: CaptureConfig{
			Dir:    "screenshots",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Aspect returns the viewport aspect ratio (width / height).
func (c *Config) Aspect() float32 {
	if c.Graphics.Height <= 0 {
		return 1
	}
	return float32(c.Graphics.Width) / float32(c.Graphics.Height)
}

// Perspective returns fov in radians, aspect, near and far.
func (c *Config) Perspective() (fov, aspect, near, far float32) {
	fov = c.Camera.FOV * math.Pi / 180
	return fov, c.Aspect(), c.Camera.Near, c.Camera.Far
}
