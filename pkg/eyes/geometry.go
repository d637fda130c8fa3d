package eyes

import "math"

// Eye and iris sizes are proportional to the distance between the two
// detected eye centers, so the googly eyes scale with the face.
const (
	EyeRadiusProportion  = 0.40
	IrisRadiusProportion = EyeRadiusProportion / 2.0
)

// InterEyeDistance returns the distance between the two eye anchors.
func InterEyeDistance(left, right Point) float64 {
	return math.Hypot(right.X-left.X, right.Y-left.Y)
}

// Geometry derives the eye and iris radii from the current eye anchors.
// Recomputed every frame, never persisted.
func Geometry(left, right Point) (eyeRadius, irisRadius float64) {
	distance := InterEyeDistance(left, right)
	return EyeRadiusProportion * distance, IrisRadiusProportion * distance
}
