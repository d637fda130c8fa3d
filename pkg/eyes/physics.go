// Package eyes provides the iris motion simulation for googly-eye rendering.
// Each eye owns one IrisPhysics instance; the simulation is pure arithmetic
// with no rendering or I/O concerns.
package eyes

import "math"

// Default spring/damping tuning. The spring pulls the iris toward the
// detected eye center; damping below 1.0 bleeds off velocity so the iris
// settles instead of oscillating forever.
const (
	DefaultSpring  = 0.16 // Acceleration per unit of displacement, per frame
	DefaultDamping = 0.78 // Fraction of velocity retained per frame
)

// Point is a 2D coordinate in frame space.
type Point struct {
	X float64
	Y float64
}

// IrisPhysics simulates one iris being dragged around inside an eye socket.
// The first update snaps the iris to the anchor; subsequent updates integrate
// a damped spring toward the anchor and clamp the result inside the socket.
//
// An instance is owned by a single eye and must not be shared. The caller is
// responsible for not invoking it from two goroutines at once.
type IrisPhysics struct {
	spring  float64
	damping float64

	position    Point
	velocity    Point
	initialized bool
}

// NewIrisPhysics creates an iris simulation with default tuning.
func NewIrisPhysics() *IrisPhysics {
	return NewIrisPhysicsWithTuning(DefaultSpring, DefaultDamping)
}

// NewIrisPhysicsWithTuning creates an iris simulation with explicit
// spring/damping values. Damping must be below 1.0 for the iris to settle.
func NewIrisPhysicsWithTuning(spring, damping float64) *IrisPhysics {
	return &IrisPhysics{
		spring:  spring,
		damping: damping,
	}
}

// NextIrisPosition advances the simulation one frame toward the given anchor
// (the detected eye center) and returns the new iris position. The result is
// always within eyeRadius-irisRadius of the anchor, so the iris never leaves
// the eye socket, and is finite for any input including zero radii.
func (p *IrisPhysics) NextIrisPosition(anchor Point, eyeRadius, irisRadius float64) Point {
	if !p.initialized {
		p.position = anchor
		p.velocity = Point{}
		p.initialized = true
		return anchor
	}

	// Damped spring toward the anchor: accelerate along the displacement,
	// then bleed velocity so the iris settles.
	p.velocity.X = (p.velocity.X + p.spring*(anchor.X-p.position.X)) * p.damping
	p.velocity.Y = (p.velocity.Y + p.spring*(anchor.Y-p.position.Y)) * p.damping
	p.position.X += p.velocity.X
	p.position.Y += p.velocity.Y

	p.clamp(anchor, eyeRadius, irisRadius)
	return p.position
}

// clamp keeps the iris inside the socket. If the iris has escaped the circle
// of radius eyeRadius-irisRadius around the anchor, it is projected back onto
// that circle and the outward radial velocity component is cancelled, so the
// iris slides along the boundary instead of pushing against it every frame.
func (p *IrisPhysics) clamp(anchor Point, eyeRadius, irisRadius float64) {
	maxDist := eyeRadius - irisRadius
	if maxDist < 0 {
		maxDist = 0
	}

	dx := p.position.X - anchor.X
	dy := p.position.Y - anchor.Y
	dist := math.Hypot(dx, dy)
	if dist <= maxDist || dist == 0 {
		return
	}

	// Unit direction from anchor to iris. dist is non-zero here.
	nx := dx / dist
	ny := dy / dist

	p.position.X = anchor.X + nx*maxDist
	p.position.Y = anchor.Y + ny*maxDist

	outward := p.velocity.X*nx + p.velocity.Y*ny
	if outward > 0 {
		p.velocity.X -= outward * nx
		p.velocity.Y -= outward * ny
	}
}

// Position returns the current iris position. Only meaningful after the
// first NextIrisPosition call.
func (p *IrisPhysics) Position() Point {
	return p.position
}

// Tracking reports whether the simulation has received its first anchor.
func (p *IrisPhysics) Tracking() bool {
	return p.initialized
}
