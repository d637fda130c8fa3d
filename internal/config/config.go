// Package config provides configuration helpers for googly-eyes commands.
package config

import (
	"os"
	"strconv"
)

// Defaults.
const (
	DefaultPort     = "8090"
	DefaultCameraID = 0
	DefaultModelDir = "models"
	DefaultLogLevel = "info"
)

// Port returns the dashboard port from PORT env var or the default.
func Port() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return DefaultPort
}

// CameraID returns the webcam device index from CAMERA_ID env var.
// Falls back to device 0 if not set or unparseable.
func CameraID() int {
	if raw := os.Getenv("CAMERA_ID"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil && id >= 0 {
			return id
		}
	}
	return DefaultCameraID
}

// ModelDir returns the model directory from MODEL_DIR env var or the default.
func ModelDir() string {
	if dir := os.Getenv("MODEL_DIR"); dir != "" {
		return dir
	}
	return DefaultModelDir
}

// LogLevel returns the log level from LOG_LEVEL env var or the default.
func LogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return DefaultLogLevel
}
