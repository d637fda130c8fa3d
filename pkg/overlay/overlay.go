// Package overlay draws googly eyes on top of camera frames with OpenCV.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/teslashibe/googly-eyes/pkg/tracking"
)

var (
	outlineColor = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	irisColor    = color.RGBA{R: 10, G: 10, B: 10, A: 255}
	lidColor     = color.RGBA{R: 40, G: 40, B: 40, A: 255}
)

// Renderer draws the googly-eye overlay onto JPEG frames. It implements
// tracking.Renderer.
type Renderer struct {
	palette *Palette
	quality int
}

// NewRenderer creates an overlay renderer with the default palette
func NewRenderer() *Renderer {
	return &Renderer{
		palette: NewPalette(),
		quality: 80,
	}
}

// Render decodes the frame, draws every face's eyes, and re-encodes it.
// Faces without eye landmarks this frame are skipped.
func (r *Renderer) Render(jpeg []byte, faces []tracking.FaceState) ([]byte, error) {
	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("decoded frame is empty")
	}

	for _, face := range faces {
		if !face.HasEyes {
			continue
		}
		sclera := r.palette.ScleraColor(face.ID)
		r.drawEye(&img, face.Left, sclera)
		r.drawEye(&img, face.Right, sclera)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img,
		[]int{gocv.IMWriteJpegQuality, r.quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

// drawEye paints one eye: sclera disc, outline, then either the iris at its
// simulated position or a closed lid.
func (r *Renderer) drawEye(img *gocv.Mat, eye tracking.EyeView, sclera color.RGBA) {
	center := image.Pt(int(eye.Anchor.X), int(eye.Anchor.Y))
	eyeRadius := int(eye.EyeRadius)
	if eyeRadius < 1 {
		return
	}

	gocv.Circle(img, center, eyeRadius, sclera, -1)
	gocv.Circle(img, center, eyeRadius, outlineColor, 2)

	if eye.Open {
		iris := image.Pt(int(eye.Iris.X), int(eye.Iris.Y))
		irisRadius := int(eye.IrisRadius)
		if irisRadius < 1 {
			irisRadius = 1
		}
		gocv.Circle(img, iris, irisRadius, irisColor, -1)
		return
	}

	// Closed eye: a horizontal lid line across the middle
	left := image.Pt(center.X-eyeRadius, center.Y)
	right := image.Pt(center.X+eyeRadius, center.Y)
	thickness := eyeRadius / 6
	if thickness < 2 {
		thickness = 2
	}
	gocv.Line(img, left, right, lidColor, thickness)
}
