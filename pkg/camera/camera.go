// Package camera captures frames from a local webcam via OpenCV.
package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Webcam reads JPEG frames from a V4L2/AVFoundation capture device. It
// implements tracking.VideoSource.
type Webcam struct {
	mu      sync.Mutex
	capture *gocv.VideoCapture
	mat     gocv.Mat
	quality int
}

// Open opens the capture device with the given index (0 is the default
// webcam on most systems) using the default configuration.
func Open(deviceID int) (*Webcam, error) {
	return OpenWithConfig(deviceID, DefaultConfig())
}

// OpenWithConfig opens the capture device and applies the given settings.
// Drivers treat the resolution and framerate as hints; the actual frame
// size comes from the frames themselves.
func OpenWithConfig(deviceID int, cfg Config) (*Webcam, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("camera config: %w", err)
	}

	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open capture device %d: %w", deviceID, err)
	}

	if cfg.Width > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	}
	if cfg.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}
	if cfg.Framerate > 0 {
		capture.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))
	}

	return &Webcam{
		capture: capture,
		mat:     gocv.NewMat(),
		quality: cfg.Quality,
	}, nil
}

// CaptureJPEG grabs one frame and encodes it as JPEG
func (w *Webcam) CaptureJPEG() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ok := w.capture.Read(&w.mat); !ok {
		return nil, fmt.Errorf("capture device read failed")
	}
	if w.mat.Empty() {
		return nil, fmt.Errorf("capture device returned empty frame")
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, w.mat,
		[]int{gocv.IMWriteJpegQuality, w.quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

// Close releases the capture device
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.mat.Close()
	return w.capture.Close()
}
