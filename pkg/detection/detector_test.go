package detection

import (
	"testing"

	"github.com/teslashibe/googly-eyes/pkg/eyes"
)

func TestDetection_Center(t *testing.T) {
	tests := []struct {
		name    string
		det     Detection
		expectX float64
		expectY float64
	}{
		{
			name:    "center of image",
			det:     Detection{X: 0.25, Y: 0.25, W: 0.5, H: 0.5},
			expectX: 0.5,
			expectY: 0.5,
		},
		{
			name:    "top left corner",
			det:     Detection{X: 0, Y: 0, W: 0.2, H: 0.2},
			expectX: 0.1,
			expectY: 0.1,
		},
		{
			name:    "bottom right corner",
			det:     Detection{X: 0.8, Y: 0.8, W: 0.2, H: 0.2},
			expectX: 0.9,
			expectY: 0.9,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := tc.det.Center()
			if x != tc.expectX {
				t.Errorf("Center X: got %.2f, want %.2f", x, tc.expectX)
			}
			if y != tc.expectY {
				t.Errorf("Center Y: got %.2f, want %.2f", y, tc.expectY)
			}
		})
	}
}

func TestParseRow(t *testing.T) {
	// Box at (64,48) size 128x96, right-of-image eye first in the raw row,
	// score in the final column. Image is 640x480.
	row := []float32{
		64, 48, 128, 96, // box
		320, 100, // landmark: one eye
		200, 104, // landmark: other eye
		260, 140, // nose
		220, 180, 300, 180, // mouth corners
		0.92, // score
	}

	det := parseRow(row, 640, 480)

	if det.X != 0.1 || det.Y != 0.1 {
		t.Errorf("box origin = (%.3f, %.3f), want (0.1, 0.1)", det.X, det.Y)
	}
	if det.W != 0.2 || det.H != 0.2 {
		t.Errorf("box size = (%.3f, %.3f), want (0.2, 0.2)", det.W, det.H)
	}
	if diff := det.Confidence - 0.92; diff < -1e-6 || diff > 1e-6 {
		t.Errorf("confidence = %.4f, want 0.92", det.Confidence)
	}

	if !det.HasEyes {
		t.Fatal("HasEyes = false, want true")
	}

	// Eyes must be ordered image-left first regardless of raw row order.
	wantLeft := eyes.Point{X: 200.0 / 640, Y: 104.0 / 480}
	wantRight := eyes.Point{X: 320.0 / 640, Y: 100.0 / 480}
	if det.LeftEye != wantLeft {
		t.Errorf("LeftEye = %+v, want %+v", det.LeftEye, wantLeft)
	}
	if det.RightEye != wantRight {
		t.Errorf("RightEye = %+v, want %+v", det.RightEye, wantRight)
	}
}

func TestParseRow_CoincidentEyes(t *testing.T) {
	row := make([]float32, yunetColumns)
	row[2], row[3] = 10, 10
	// All landmarks at origin: the model produced no usable eye positions.
	det := parseRow(row, 100, 100)
	if det.HasEyes {
		t.Error("HasEyes = true for coincident eye landmarks, want false")
	}
}

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name       string
		detections []Detection
		expectNil  bool
		expectIdx  int // Expected index of best detection
	}{
		{
			name:       "empty list",
			detections: []Detection{},
			expectNil:  true,
		},
		{
			name: "single detection",
			detections: []Detection{
				{X: 0.4, Y: 0.4, W: 0.2, H: 0.2, Confidence: 0.9},
			},
			expectNil: false,
			expectIdx: 0,
		},
		{
			name: "high confidence beats larger area",
			detections: []Detection{
				{X: 0.0, Y: 0.0, W: 0.4, H: 0.4, Confidence: 0.5},  // Larger but low conf
				{X: 0.3, Y: 0.3, W: 0.2, H: 0.2, Confidence: 0.95}, // Smaller but high conf
			},
			expectNil: false,
			expectIdx: 1,
		},
		{
			name: "similar confidence picks larger",
			detections: []Detection{
				{X: 0.0, Y: 0.0, W: 0.5, H: 0.5, Confidence: 0.8}, // Larger
				{X: 0.3, Y: 0.3, W: 0.1, H: 0.1, Confidence: 0.8}, // Smaller
			},
			expectNil: false,
			expectIdx: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			best := SelectBest(tc.detections)
			if tc.expectNil {
				if best != nil {
					t.Errorf("SelectBest: expected nil, got %+v", best)
				}
				return
			}

			if best == nil {
				t.Error("SelectBest: expected non-nil, got nil")
				return
			}

			expected := &tc.detections[tc.expectIdx]
			if best.Confidence != expected.Confidence || best.X != expected.X {
				t.Errorf("SelectBest: got %+v, want %+v", best, expected)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ModelPath == "" {
		t.Error("DefaultConfig: ModelPath should not be empty")
	}

	if cfg.CascadePath == "" {
		t.Error("DefaultConfig: CascadePath should not be empty")
	}

	if cfg.ConfidenceThresh <= 0 || cfg.ConfidenceThresh > 1 {
		t.Errorf("DefaultConfig: ConfidenceThresh should be 0-1, got %f", cfg.ConfidenceThresh)
	}

	if cfg.InputWidth <= 0 {
		t.Errorf("DefaultConfig: InputWidth should be positive, got %d", cfg.InputWidth)
	}

	if cfg.InputHeight <= 0 {
		t.Errorf("DefaultConfig: InputHeight should be positive, got %d", cfg.InputHeight)
	}
}
