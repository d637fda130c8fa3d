package tracking

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"testing"

	"github.com/teslashibe/googly-eyes/pkg/detection"
)

// testJPEG encodes a solid gray frame at the given size.
func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test frame: %v", err)
	}
	return buf.Bytes()
}

type fakeVideo struct {
	frame []byte
	err   error
}

func (f *fakeVideo) CaptureJPEG() ([]byte, error) {
	return f.frame, f.err
}

type fakeDetector struct {
	detections []detection.Detection
	err        error
	calls      int
}

func (f *fakeDetector) Detect(jpeg []byte) ([]detection.Detection, error) {
	f.calls++
	return f.detections, f.err
}

func (f *fakeDetector) Close() error { return nil }

type fakeRenderer struct {
	out   []byte
	err   error
	calls int
	faces []FaceState
}

func (f *fakeRenderer) Render(jpeg []byte, faces []FaceState) ([]byte, error) {
	f.calls++
	f.faces = faces
	return f.out, f.err
}

type fakeState struct {
	mu     sync.Mutex
	faces  []FaceState
	frames [][]byte
	logs   []string
}

func (f *fakeState) UpdateFaces(faces []FaceState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faces = faces
}

func (f *fakeState) PublishFrame(jpeg []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, jpeg)
}

func (f *fakeState) AddLog(logType, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, logType+": "+message)
}

func TestProcessFrame_TracksDetectedFace(t *testing.T) {
	video := &fakeVideo{frame: testJPEG(t, 320, 240)}
	det := &fakeDetector{detections: []detection.Detection{makeDet(0.5, 0.5)}}
	state := &fakeState{}

	tracker := New(DefaultConfig(), video, det)
	tracker.SetStateUpdater(state)

	tracker.processFrame()

	if det.calls != 1 {
		t.Errorf("detector called %d times, want 1", det.calls)
	}
	if got := tracker.FramesProcessed(); got != 1 {
		t.Errorf("FramesProcessed() = %d, want 1", got)
	}
	if tracker.GetWorld().FaceCount() != 1 {
		t.Errorf("FaceCount() = %d, want 1", tracker.GetWorld().FaceCount())
	}
	if len(state.faces) != 1 {
		t.Errorf("published %d faces, want 1", len(state.faces))
	}
	if len(state.frames) != 1 {
		t.Errorf("published %d frames, want 1", len(state.frames))
	}
}

func TestProcessFrame_UsesRendererOutput(t *testing.T) {
	video := &fakeVideo{frame: testJPEG(t, 320, 240)}
	det := &fakeDetector{detections: []detection.Detection{makeDet(0.5, 0.5)}}
	renderer := &fakeRenderer{out: []byte("annotated")}
	state := &fakeState{}

	tracker := New(DefaultConfig(), video, det)
	tracker.SetRenderer(renderer)
	tracker.SetStateUpdater(state)

	tracker.processFrame()

	if renderer.calls != 1 {
		t.Fatalf("renderer called %d times, want 1", renderer.calls)
	}
	if len(renderer.faces) != 1 {
		t.Errorf("renderer got %d faces, want 1", len(renderer.faces))
	}
	if len(state.frames) != 1 || string(state.frames[0]) != "annotated" {
		t.Error("published frame is not the renderer output")
	}
}

func TestProcessFrame_RendererErrorFallsBackToRawFrame(t *testing.T) {
	raw := testJPEG(t, 320, 240)
	video := &fakeVideo{frame: raw}
	det := &fakeDetector{detections: []detection.Detection{makeDet(0.5, 0.5)}}
	renderer := &fakeRenderer{err: errors.New("draw failed")}
	state := &fakeState{}

	tracker := New(DefaultConfig(), video, det)
	tracker.SetRenderer(renderer)
	tracker.SetStateUpdater(state)

	tracker.processFrame()

	if len(state.frames) != 1 || !bytes.Equal(state.frames[0], raw) {
		t.Error("renderer error should publish the raw frame")
	}
}

func TestProcessFrame_CaptureErrorCountsMiss(t *testing.T) {
	video := &fakeVideo{err: errors.New("camera gone")}
	det := &fakeDetector{}

	tracker := New(DefaultConfig(), video, det)
	tracker.processFrame()

	if det.calls != 0 {
		t.Error("detector should not run when capture fails")
	}
	if tracker.consecutiveMisses != 1 {
		t.Errorf("consecutiveMisses = %d, want 1", tracker.consecutiveMisses)
	}
	if got := tracker.FramesProcessed(); got != 0 {
		t.Errorf("FramesProcessed() = %d, want 0", got)
	}
}

func TestProcessFrame_NoDetectionsCountsMiss(t *testing.T) {
	video := &fakeVideo{frame: testJPEG(t, 160, 120)}
	det := &fakeDetector{}

	tracker := New(DefaultConfig(), video, det)

	tracker.processFrame()
	tracker.processFrame()

	if tracker.consecutiveMisses != 2 {
		t.Errorf("consecutiveMisses = %d, want 2", tracker.consecutiveMisses)
	}
}

func TestProcessFrame_DetectionResetsMisses(t *testing.T) {
	video := &fakeVideo{frame: testJPEG(t, 160, 120)}
	det := &fakeDetector{}

	tracker := New(DefaultConfig(), video, det)

	tracker.processFrame() // Miss
	det.detections = []detection.Detection{makeDet(0.5, 0.5)}
	tracker.processFrame() // Hit

	if tracker.consecutiveMisses != 0 {
		t.Errorf("consecutiveMisses = %d after a hit, want 0", tracker.consecutiveMisses)
	}
}

func TestMiss_LogsOnThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MissLogCount = 3
	state := &fakeState{}

	tracker := New(cfg, &fakeVideo{err: errors.New("no frame")}, &fakeDetector{})
	tracker.SetStateUpdater(state)

	for i := 0; i < 5; i++ {
		tracker.processFrame()
	}

	// Exactly one "lost all faces" log, at the threshold
	if len(state.logs) != 1 {
		t.Errorf("got %d logs, want 1: %v", len(state.logs), state.logs)
	}
}

func TestFrameSize(t *testing.T) {
	w, h, err := frameSize(testJPEG(t, 320, 240))
	if err != nil {
		t.Fatalf("frameSize() error: %v", err)
	}
	if w != 320 || h != 240 {
		t.Errorf("frameSize() = %dx%d, want 320x240", w, h)
	}

	if _, _, err := frameSize([]byte("not a jpeg")); err == nil {
		t.Error("frameSize() on garbage should error")
	}
}
