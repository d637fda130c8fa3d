package detection

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/teslashibe/googly-eyes/internal/httpc"
	"github.com/teslashibe/googly-eyes/internal/log"
)

// Published model locations.
const (
	yunetModelURL = "https://github.com/opencv/opencv_zoo/raw/main/models/face_detection_yunet/face_detection_yunet_2023mar.onnx"
	eyeCascadeURL = "https://raw.githubusercontent.com/opencv/opencv/4.x/data/haarcascades/haarcascade_eye.xml"
)

// EnsureModels downloads the YuNet model and the eye cascade into the paths
// named by cfg if they are not already present.
func EnsureModels(cfg Config) error {
	if err := ensureFile(cfg.ModelPath, yunetModelURL); err != nil {
		return fmt.Errorf("yunet model: %w", err)
	}
	if err := ensureFile(cfg.CascadePath, eyeCascadeURL); err != nil {
		return fmt.Errorf("eye cascade: %w", err)
	}
	return nil
}

// ensureFile downloads url to path unless path already exists.
func ensureFile(path, url string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	log.Info("downloading model", "path", path, "url", url)

	resp, err := httpc.Get(url)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}

	// Write to a temp file first so a partial download never looks like a
	// valid model on the next start.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}
