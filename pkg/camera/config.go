package camera

import "fmt"

// Config holds capture settings applied to the webcam on open
type Config struct {
	Width     int `json:"width"`     // Frame width in pixels (0 = driver default)
	Height    int `json:"height"`    // Frame height in pixels (0 = driver default)
	Framerate int `json:"framerate"` // Target FPS (0 = driver default)
	Quality   int `json:"quality"`   // JPEG quality 1-100
}

// Preset names for common configurations
const (
	PresetDefault = "default"
	Preset720p    = "720p"
	Preset1080p   = "1080p"
)

// DefaultConfig returns the standard capture configuration
func DefaultConfig() Config {
	return Config{
		Width:     640,
		Height:    480,
		Framerate: 30,
		Quality:   85,
	}
}

// HD720Config returns 720p capture settings
func HD720Config() Config {
	cfg := DefaultConfig()
	cfg.Width = 1280
	cfg.Height = 720
	return cfg
}

// HD1080Config returns 1080p capture settings. Expect detection latency to
// rise with frame size.
func HD1080Config() Config {
	cfg := DefaultConfig()
	cfg.Width = 1920
	cfg.Height = 1080
	cfg.Quality = 80
	return cfg
}

// Presets returns all available preset configurations
func Presets() map[string]Config {
	return map[string]Config{
		PresetDefault: DefaultConfig(),
		Preset720p:    HD720Config(),
		Preset1080p:   HD1080Config(),
	}
}

// Validate checks the configuration for out-of-range values
func (c Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("negative frame size %dx%d", c.Width, c.Height)
	}
	if c.Framerate < 0 {
		return fmt.Errorf("negative framerate %d", c.Framerate)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality %d out of range 1-100", c.Quality)
	}
	return nil
}
