package tracking

import (
	"time"

	"github.com/teslashibe/googly-eyes/pkg/eyes"
)

// Config holds all tunable parameters for face tracking and iris animation
type Config struct {
	// Timing
	FrameInterval time.Duration // How often to process a camera frame
	DecayInterval time.Duration // How often to decay face confidence

	// Face lifecycle
	ConfidenceDecay float64       // How fast confidence decays (per second)
	ForgetThreshold float64       // Remove faces below this confidence
	ForgetTimeout   time.Duration // Remove faces not seen for this long

	// Association
	AssociationDistance float64 // Max normalized center distance to match a face

	// Eye state smoothing
	ScoreSmoothing float64 // Weight of the new open-probability reading (0-1)

	// Iris physics
	Spring  float64 // Spring gain toward the eye anchor
	Damping float64 // Velocity retained per frame (< 1.0)

	// Logging
	MissLogCount int // Log after this many consecutive frames with no face
}

// DefaultConfig returns the recommended configuration for lively googly eyes
func DefaultConfig() Config {
	return Config{
		// Timing - smooth animation at ~15 fps
		FrameInterval: 66 * time.Millisecond,
		DecayInterval: 100 * time.Millisecond,

		// Face lifecycle
		ConfidenceDecay: 0.3,             // Lose 30% confidence per second
		ForgetThreshold: 0.1,             // Forget below 10% confidence
		ForgetTimeout:   5 * time.Second, // Forget after 5 seconds

		// Association - faces rarely move more than a fifth of the frame
		// between detections
		AssociationDistance: 0.2,

		// Eye state smoothing
		ScoreSmoothing: 0.5, // 50% new, 50% old

		// Iris physics
		Spring:  eyes.DefaultSpring,
		Damping: eyes.DefaultDamping,

		// Logging
		MissLogCount: 5,
	}
}

// SmoothConfig returns a configuration for calmer, heavily damped irises
func SmoothConfig() Config {
	cfg := DefaultConfig()
	cfg.Spring = 0.10
	cfg.Damping = 0.65 // More dampening
	cfg.ScoreSmoothing = 0.3
	return cfg
}

// JigglyConfig returns a configuration for bouncy, exaggerated iris motion
func JigglyConfig() Config {
	cfg := DefaultConfig()
	cfg.FrameInterval = 40 * time.Millisecond
	cfg.Spring = 0.30
	cfg.Damping = 0.92 // Barely damped, lots of wobble
	cfg.ScoreSmoothing = 0.7
	return cfg
}
