package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the renderer cannot start with.
func (c *Config) Validate() error {
	switch c.Graphics.Backend {
	case BackendSDL, BackendGLFW:
	default:
		return fmt.Errorf("unknown window backend %q", c.Graphics.Backend)
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("invalid clip planes near=%v far=%v", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("invalid fov %v", c.Camera.FOV)
	}
	if err := c.Camera.validateView(); err != nil {
		return err
	}
	switch c.Capture.Format {
	case "png", "bmp":
	default:
		return fmt.Errorf("unknown capture format %q", c.Capture.Format)
	}
	return nil
}

// validateView rejects camera placements with no defined view direction
// or one parallel to up, where no right axis exists.
func (cc CameraConfig) validateView() error {
	up := mgl32.Vec3(cc.Up)
	if up.Len() < 1e-6 {
		return fmt.Errorf("camera up vector is zero")
	}
	view := mgl32.Vec3(cc.LookAt).Sub(mgl32.Vec3(cc.Position))
	if view.Len() < 1e-6 {
		return fmt.Errorf("camera look_at %v equals position", cc.LookAt)
	}
	if view.Normalize().Cross(up.Normalize()).Len() < 1e-3 {
		return fmt.Errorf("camera look_at %v lies along up %v from position %v", cc.LookAt, cc.Up, cc.Position)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "VirtualVista")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "VirtualVista")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "virtual-vista")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "virtual-vista")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
