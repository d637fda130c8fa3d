package detection

import (
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/teslashibe/googly-eyes/pkg/eyes"
	"gocv.io/x/gocv"
)

// CascadeEyeClassifier classifies eyes as open or closed using a Haar
// cascade. The stock OpenCV eye cascade only fires on open eyes, so a hit
// inside an eye region means that eye is open.
type CascadeEyeClassifier struct {
	cascade gocv.CascadeClassifier
	mu      sync.Mutex // Protects inference
}

// NewCascadeEyeClassifier loads the eye cascade from the given XML path.
func NewCascadeEyeClassifier(cascadePath string) (*CascadeEyeClassifier, error) {
	if _, err := os.Stat(cascadePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("cascade file not found: %s", cascadePath)
	}

	cascade := gocv.NewCascadeClassifier()
	if !cascade.Load(cascadePath) {
		cascade.Close()
		return nil, fmt.Errorf("load cascade: %s", cascadePath)
	}

	return &CascadeEyeClassifier{cascade: cascade}, nil
}

// Classify crops the two eye regions of the detected face and reports
// whether each eye is open, with a rough open-probability score.
func (c *CascadeEyeClassifier) Classify(jpeg []byte, det Detection) (EyeState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var state EyeState
	if !det.HasEyes {
		return state, fmt.Errorf("detection has no eye landmarks")
	}

	img, err := gocv.IMDecode(jpeg, gocv.IMReadGrayScale)
	if err != nil {
		return state, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return state, fmt.Errorf("empty image")
	}

	imgW := float64(img.Cols())
	imgH := float64(img.Rows())

	left := eyes.Point{X: det.LeftEye.X * imgW, Y: det.LeftEye.Y * imgH}
	right := eyes.Point{X: det.RightEye.X * imgW, Y: det.RightEye.Y * imgH}
	eyeRadius, _ := eyes.Geometry(left, right)
	if eyeRadius < 4 {
		// Face too small to crop meaningful eye regions; assume open.
		return EyeState{LeftOpen: true, RightOpen: true, LeftScore: 0.5, RightScore: 0.5}, nil
	}

	state.LeftScore = c.scoreEye(img, left, eyeRadius)
	state.RightScore = c.scoreEye(img, right, eyeRadius)
	state.LeftOpen = state.LeftScore >= 0.5
	state.RightOpen = state.RightScore >= 0.5

	return state, nil
}

// scoreEye runs the cascade over the region around one eye center and maps
// the hit count to a 0-1 score. Zero hits means closed.
func (c *CascadeEyeClassifier) scoreEye(img gocv.Mat, center eyes.Point, eyeRadius float64) float64 {
	roi := clampRect(image.Rect(
		int(center.X-eyeRadius*1.5),
		int(center.Y-eyeRadius*1.5),
		int(center.X+eyeRadius*1.5),
		int(center.Y+eyeRadius*1.5),
	), img.Cols(), img.Rows())
	if roi.Empty() {
		return 0
	}

	region := img.Region(roi)
	defer region.Close()

	hits := c.cascade.DetectMultiScale(region)
	if len(hits) == 0 {
		return 0
	}

	score := 0.5 + 0.25*float64(len(hits))
	if score > 1 {
		score = 1
	}
	return score
}

// clampRect restricts a rectangle to the image bounds.
func clampRect(r image.Rectangle, w, h int) image.Rectangle {
	return r.Intersect(image.Rect(0, 0, w, h))
}

// Close releases the cascade resources
func (c *CascadeEyeClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cascade.Close()
	return nil
}
