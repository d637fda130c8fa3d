// Package tracking maintains per-face googly-eye state across camera frames:
// it associates detections with tracked faces, advances each face's iris
// simulations, and hands render-ready snapshots downstream.
package tracking

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // Frame dimension probing
	"sync"
	"time"

	"github.com/teslashibe/googly-eyes/pkg/detection"
)

// VideoSource interface for capturing frames
type VideoSource interface {
	CaptureJPEG() ([]byte, error)
}

// Renderer draws googly eyes over a frame and returns the annotated JPEG
type Renderer interface {
	Render(jpeg []byte, faces []FaceState) ([]byte, error)
}

// StateUpdater interface for publishing tracker output
type StateUpdater interface {
	UpdateFaces(faces []FaceState)
	PublishFrame(jpeg []byte)
	AddLog(logType, message string)
}

// Tracker drives the capture → detect → simulate → render loop
type Tracker struct {
	config     Config
	video      VideoSource
	detector   detection.Detector
	classifier detection.EyeClassifier // Optional; nil disables blink detection
	renderer   Renderer                // Optional; nil publishes raw frames
	state      StateUpdater            // Optional

	world *World

	// State
	mu                sync.RWMutex
	consecutiveMisses int
	framesProcessed   uint64
	isRunning         bool
}

// New creates a new googly-eye tracker
func New(config Config, video VideoSource, detector detection.Detector) *Tracker {
	return &Tracker{
		config:   config,
		video:    video,
		detector: detector,
		world:    NewWorld(config),
	}
}

// SetClassifier sets the open/closed eye classifier
func (t *Tracker) SetClassifier(classifier detection.EyeClassifier) {
	t.classifier = classifier
}

// SetRenderer sets the overlay renderer
func (t *Tracker) SetRenderer(renderer Renderer) {
	t.renderer = renderer
}

// SetStateUpdater sets the dashboard state updater
func (t *Tracker) SetStateUpdater(state StateUpdater) {
	t.state = state
}

// GetWorld returns the face world for inspection
func (t *Tracker) GetWorld() *World {
	return t.world
}

// FramesProcessed returns the number of frames processed so far
func (t *Tracker) FramesProcessed() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.framesProcessed
}

// Run starts the tracking loops and blocks until the context is cancelled
func (t *Tracker) Run(ctx context.Context) {
	frameTicker := time.NewTicker(t.config.FrameInterval)
	decayTicker := time.NewTicker(t.config.DecayInterval)
	defer frameTicker.Stop()
	defer decayTicker.Stop()

	t.mu.Lock()
	t.isRunning = true
	t.mu.Unlock()

	fmt.Printf("👀 Googly eye tracker started\n")
	fmt.Printf("    Frame: %v, Spring: %.2f, Damping: %.2f\n",
		t.config.FrameInterval, t.config.Spring, t.config.Damping)

	lastDecay := time.Now()

	for {
		select {
		case <-ctx.Done():
			t.mu.Lock()
			t.isRunning = false
			t.mu.Unlock()
			return

		case <-frameTicker.C:
			t.processFrame()

		case <-decayTicker.C:
			dt := time.Since(lastDecay).Seconds()
			t.world.DecayConfidence(dt)
			lastDecay = time.Now()
		}
	}
}

// ProcessOnce runs a single frame cycle outside of Run. Useful for
// one-shot captures.
func (t *Tracker) ProcessOnce() {
	t.processFrame()
}

// processFrame runs one capture → detect → simulate → render cycle.
// Physics updates happen here and only here, so each iris simulation has a
// single writer.
func (t *Tracker) processFrame() {
	frame, err := t.video.CaptureJPEG()
	if err != nil {
		t.miss()
		return
	}

	frameW, frameH, err := frameSize(frame)
	if err != nil {
		t.miss()
		return
	}

	detections, err := t.detector.Detect(frame)
	if err != nil {
		fmt.Printf("👁️  Detection error: %v\n", err)
		t.miss()
		return
	}

	if len(detections) == 0 {
		t.miss()
	} else {
		t.mu.Lock()
		t.consecutiveMisses = 0
		t.mu.Unlock()
	}

	for _, det := range detections {
		var eyeState *detection.EyeState
		if t.classifier != nil && det.HasEyes {
			if s, err := t.classifier.Classify(frame, det); err == nil {
				eyeState = &s
			}
		}
		t.world.Observe(det, eyeState, float64(frameW), float64(frameH))
	}

	faces := t.world.Snapshot()

	out := frame
	if t.renderer != nil {
		if annotated, err := t.renderer.Render(frame, faces); err == nil {
			out = annotated
		} else {
			fmt.Printf("🎨 Render error: %v\n", err)
		}
	}

	t.mu.Lock()
	t.framesProcessed++
	t.mu.Unlock()

	if t.state != nil {
		t.state.UpdateFaces(faces)
		t.state.PublishFrame(out)
	}
}

// miss records a frame with no usable face and logs when the face is lost
func (t *Tracker) miss() {
	t.mu.Lock()
	t.consecutiveMisses++
	misses := t.consecutiveMisses
	t.mu.Unlock()

	if misses == t.config.MissLogCount {
		fmt.Printf("👁️  Lost all faces (%d consecutive misses)\n", misses)
		if t.state != nil {
			t.state.AddLog("face", "Lost all faces")
		}
	}
}

// frameSize reads the pixel dimensions from the JPEG header
func frameSize(jpeg []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(jpeg))
	if err != nil {
		return 0, 0, fmt.Errorf("probe frame size: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
