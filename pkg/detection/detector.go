// Package detection provides face and eye-landmark detection using computer vision.
package detection

import (
	"path/filepath"

	"github.com/teslashibe/googly-eyes/pkg/eyes"
)

// Detection represents a detected face with its eye landmarks.
type Detection struct {
	X, Y       float64 // Top-left corner (0-1 normalized)
	W, H       float64 // Width and height (0-1 normalized)
	Confidence float64 // Detection confidence (0-1)

	// Eye centers (0-1 normalized). LeftEye is the image-left eye.
	LeftEye  eyes.Point
	RightEye eyes.Point
	HasEyes  bool
}

// Center returns the center point of the detection
func (d Detection) Center() (x, y float64) {
	return d.X + d.W/2, d.Y + d.H/2
}

// Area returns the area of the bounding box
func (d Detection) Area() float64 {
	return d.W * d.H
}

// EyeState is the per-frame open/closed classification for one face.
type EyeState struct {
	LeftOpen  bool
	RightOpen bool

	// Open-probability scores (0-1), unsmoothed.
	LeftScore  float64
	RightScore float64
}

// Detector is the interface for face detection backends
type Detector interface {
	// Detect finds faces in the image and returns their positions and
	// eye landmarks
	Detect(jpeg []byte) ([]Detection, error)

	// Close releases resources
	Close() error
}

// EyeClassifier is the interface for open/closed eye classification.
type EyeClassifier interface {
	// Classify inspects the eye regions of a detected face and reports
	// whether each eye is open
	Classify(jpeg []byte, det Detection) (EyeState, error)

	// Close releases resources
	Close() error
}

// Config holds detector configuration
type Config struct {
	ModelPath        string  // Path to the YuNet ONNX model
	CascadePath      string  // Path to the open-eye Haar cascade XML
	ConfidenceThresh float64 // Minimum confidence (default 0.5)
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultConfig returns production defaults for YuNet
func DefaultConfig() Config {
	return Config{
		ModelPath:        "models/face_detection_yunet.onnx",
		CascadePath:      "models/haarcascade_eye.xml",
		ConfidenceThresh: 0.5,
		InputWidth:       320,
		InputHeight:      320,
	}
}

// SetModelDir moves both model paths into dir, keeping their file names
func (c *Config) SetModelDir(dir string) {
	c.ModelPath = filepath.Join(dir, filepath.Base(c.ModelPath))
	c.CascadePath = filepath.Join(dir, filepath.Base(c.CascadePath))
}

// yunetColumns is the per-face row width of the YuNet output:
// box (4), five landmarks (10), score (1).
const yunetColumns = 15

// parseRow converts one raw YuNet output row to a Detection, normalizing all
// coordinates by the image size. Landmark columns 4-7 hold the two eye
// centers; they are ordered here so LeftEye is always the image-left eye.
func parseRow(row []float32, imgW, imgH float64) Detection {
	det := Detection{
		X:          float64(row[0]) / imgW,
		Y:          float64(row[1]) / imgH,
		W:          float64(row[2]) / imgW,
		H:          float64(row[3]) / imgH,
		Confidence: float64(row[14]),
	}

	a := eyes.Point{X: float64(row[4]) / imgW, Y: float64(row[5]) / imgH}
	b := eyes.Point{X: float64(row[6]) / imgW, Y: float64(row[7]) / imgH}
	if a.X <= b.X {
		det.LeftEye, det.RightEye = a, b
	} else {
		det.LeftEye, det.RightEye = b, a
	}
	det.HasEyes = a != b

	return det
}

// SelectBest picks the best face from multiple detections
// Priority: confidence * 0.7 + area * 0.3
func SelectBest(dets []Detection) *Detection {
	if len(dets) == 0 {
		return nil
	}

	if len(dets) == 1 {
		return &dets[0]
	}

	// Find max area for normalization
	maxArea := 0.0
	for _, d := range dets {
		if d.Area() > maxArea {
			maxArea = d.Area()
		}
	}

	// Score each detection
	bestScore := -1.0
	var best *Detection

	for i := range dets {
		score := dets[i].Confidence*0.7 + (dets[i].Area()/maxArea)*0.3
		if score > bestScore {
			bestScore = score
			best = &dets[i]
		}
	}

	return best
}
