// Snapshot - one-shot googly eyes
//
// Grabs a single frame (from a webcam or a JPEG file), finds faces, draws
// the eyes, and writes the result to disk.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/teslashibe/googly-eyes/internal/config"
	"github.com/teslashibe/googly-eyes/internal/log"
	"github.com/teslashibe/googly-eyes/pkg/camera"
	"github.com/teslashibe/googly-eyes/pkg/detection"
	"github.com/teslashibe/googly-eyes/pkg/overlay"
	"github.com/teslashibe/googly-eyes/pkg/tracking"
)

func main() {
	in := flag.String("in", "", "Input JPEG file (default: capture from webcam)")
	out := flag.String("out", "googly.jpg", "Output JPEG file")
	flag.Parse()

	log.Init(config.LogLevel())

	fmt.Println("📸 Googly Eyes Snapshot")

	detCfg := detection.DefaultConfig()
	detCfg.SetModelDir(config.ModelDir())
	if err := detection.EnsureModels(detCfg); err != nil {
		fmt.Printf("❌ Model download failed: %v\n", err)
		os.Exit(1)
	}

	frame, err := grabFrame(*in)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("📷 Frame: %d KB\n", len(frame)/1024)

	detector, err := detection.NewYuNet(detCfg)
	if err != nil {
		fmt.Printf("❌ Face detector: %v\n", err)
		os.Exit(1)
	}
	defer detector.Close()

	annotated, faces, err := annotate(detCfg, detector, frame)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("👀 Faces: %d\n", faces)

	if err := os.WriteFile(*out, annotated, 0o644); err != nil {
		fmt.Printf("❌ Write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("✅ Wrote %s\n", *out)
}

// grabFrame reads the input file, or captures one frame from the webcam
func grabFrame(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	}

	cam, err := camera.Open(config.CameraID())
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	defer cam.Close()
	return cam.CaptureJPEG()
}

// annotate runs one detect → classify → simulate → render pass. With a
// single frame the iris sits exactly on the anchor, which is what a still
// should look like.
func annotate(detCfg detection.Config, detector detection.Detector, frame []byte) ([]byte, int, error) {
	video := &stillSource{frame: frame}

	tracker := tracking.New(tracking.DefaultConfig(), video, detector)
	tracker.SetRenderer(overlay.NewRenderer())

	if classifier, err := detection.NewCascadeEyeClassifier(detCfg.CascadePath); err == nil {
		defer classifier.Close()
		tracker.SetClassifier(classifier)
	}

	sink := &captureSink{}
	tracker.SetStateUpdater(sink)
	tracker.ProcessOnce()

	if sink.frame == nil {
		return nil, 0, fmt.Errorf("no frame produced")
	}
	return sink.frame, sink.faces, nil
}

// stillSource serves the same frame on every capture
type stillSource struct {
	frame []byte
}

func (s *stillSource) CaptureJPEG() ([]byte, error) {
	return s.frame, nil
}

// captureSink records the tracker's output instead of broadcasting it
type captureSink struct {
	frame []byte
	faces int
}

func (c *captureSink) UpdateFaces(faces []tracking.FaceState) { c.faces = len(faces) }
func (c *captureSink) PublishFrame(jpeg []byte)               { c.frame = jpeg }
func (c *captureSink) AddLog(logType, message string)         {}
