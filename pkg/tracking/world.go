package tracking

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/googly-eyes/pkg/detection"
	"github.com/teslashibe/googly-eyes/pkg/eyes"
)

// TrackedFace represents one face being tracked across frames. Each face
// owns two independent iris simulations created when tracking begins and
// discarded with the face.
type TrackedFace struct {
	ID         string    // Unique identifier
	Confidence float64   // 0-1, decays over time when not seen
	LastSeen   time.Time // When last detected
	Detection  detection.Detection

	// Per-eye physics. Never shared between eyes or faces.
	leftIris  *eyes.IrisPhysics
	rightIris *eyes.IrisPhysics

	// Smoothed open-probability scores
	leftScore  float64
	rightScore float64
}

// EyeView is the renderable state of one eye for the current frame, in
// pixel coordinates.
type EyeView struct {
	Anchor     eyes.Point `json:"anchor"`
	Iris       eyes.Point `json:"iris"`
	EyeRadius  float64    `json:"eye_radius"`
	IrisRadius float64    `json:"iris_radius"`
	Open       bool       `json:"open"`
	OpenScore  float64    `json:"open_score"`
}

// FaceState is a value snapshot of one tracked face for rendering and
// broadcast.
type FaceState struct {
	ID         string  `json:"id"`
	Confidence float64 `json:"confidence"`
	HasEyes    bool    `json:"has_eyes"`
	Left       EyeView `json:"left"`
	Right      EyeView `json:"right"`
}

// World maintains the set of tracked faces and their iris simulations
type World struct {
	faces  map[string]*TrackedFace
	states map[string]FaceState // Latest per-face render state
	mu     sync.RWMutex

	// Configuration
	confidenceDecay     float64
	forgetThreshold     float64
	forgetTimeout       time.Duration
	associationDistance float64
	scoreSmoothing      float64
	spring              float64
	damping             float64
}

// NewWorld creates a face world from the given config
func NewWorld(config Config) *World {
	return &World{
		faces:               make(map[string]*TrackedFace),
		states:              make(map[string]FaceState),
		confidenceDecay:     config.ConfidenceDecay,
		forgetThreshold:     config.ForgetThreshold,
		forgetTimeout:       config.ForgetTimeout,
		associationDistance: config.AssociationDistance,
		scoreSmoothing:      config.ScoreSmoothing,
		spring:              config.Spring,
		damping:             config.Damping,
	}
}

// Observe matches a detection to an existing face (or starts tracking a new
// one), advances its iris simulations, and returns the face ID. frameW and
// frameH are the pixel dimensions of the frame the detection came from.
//
// eyeState may be nil when no classifier ran this frame; the previous
// smoothed scores are kept.
func (w *World) Observe(det detection.Detection, eyeState *detection.EyeState, frameW, frameH float64) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	face := w.associate(det)
	if face == nil {
		// New face: fresh physics, eyes assumed open until classified
		face = &TrackedFace{
			ID:         uuid.NewString(),
			leftIris:   eyes.NewIrisPhysicsWithTuning(w.spring, w.damping),
			rightIris:  eyes.NewIrisPhysicsWithTuning(w.spring, w.damping),
			leftScore:  1.0,
			rightScore: 1.0,
		}
		w.faces[face.ID] = face
	}

	face.Detection = det
	face.Confidence = 1.0
	face.LastSeen = time.Now()

	if eyeState != nil {
		face.leftScore = w.scoreSmoothing*eyeState.LeftScore + (1-w.scoreSmoothing)*face.leftScore
		face.rightScore = w.scoreSmoothing*eyeState.RightScore + (1-w.scoreSmoothing)*face.rightScore
	}

	state := FaceState{
		ID:         face.ID,
		Confidence: face.Confidence,
		HasEyes:    det.HasEyes,
	}

	// Without eye anchors there is nothing to feed the simulation: keep
	// the previous render state for this face untouched.
	if det.HasEyes {
		left := eyes.Point{X: det.LeftEye.X * frameW, Y: det.LeftEye.Y * frameH}
		right := eyes.Point{X: det.RightEye.X * frameW, Y: det.RightEye.Y * frameH}
		eyeRadius, irisRadius := eyes.Geometry(left, right)

		state.Left = EyeView{
			Anchor:     left,
			Iris:       face.leftIris.NextIrisPosition(left, eyeRadius, irisRadius),
			EyeRadius:  eyeRadius,
			IrisRadius: irisRadius,
			Open:       face.leftScore >= 0.5,
			OpenScore:  face.leftScore,
		}
		state.Right = EyeView{
			Anchor:     right,
			Iris:       face.rightIris.NextIrisPosition(right, eyeRadius, irisRadius),
			EyeRadius:  eyeRadius,
			IrisRadius: irisRadius,
			Open:       face.rightScore >= 0.5,
			OpenScore:  face.rightScore,
		}
		w.states[face.ID] = state
	} else if prev, ok := w.states[face.ID]; ok {
		prev.Confidence = face.Confidence
		w.states[face.ID] = prev
	}

	return face.ID
}

// associate finds the tracked face whose last center is nearest to the
// detection, within the association distance. Caller holds the lock.
func (w *World) associate(det detection.Detection) *TrackedFace {
	cx, cy := det.Center()

	var closest *TrackedFace
	minDist := w.associationDistance

	for _, face := range w.faces {
		fx, fy := face.Detection.Center()
		dist := math.Hypot(cx-fx, cy-fy)
		if dist < minDist {
			minDist = dist
			closest = face
		}
	}

	return closest
}

// DecayConfidence reduces confidence of all faces over time and forgets
// faces that have been gone too long, discarding their iris simulations
func (w *World) DecayConfidence(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	toDelete := []string{}

	for id, face := range w.faces {
		face.Confidence -= w.confidenceDecay * dt
		if face.Confidence < 0 {
			face.Confidence = 0
		}

		if face.Confidence < w.forgetThreshold ||
			time.Since(face.LastSeen) > w.forgetTimeout {
			toDelete = append(toDelete, id)
		}
	}

	for _, id := range toDelete {
		delete(w.faces, id)
		delete(w.states, id)
	}
}

// SetTuning changes the iris spring parameters. Existing faces get fresh
// simulations, so their irises snap to the anchor on the next frame.
func (w *World) SetTuning(spring, damping float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.spring = spring
	w.damping = damping
	for _, face := range w.faces {
		face.leftIris = eyes.NewIrisPhysicsWithTuning(spring, damping)
		face.rightIris = eyes.NewIrisPhysicsWithTuning(spring, damping)
	}
}

// Snapshot returns a copy of the current render state for all tracked faces
func (w *World) Snapshot() []FaceState {
	w.mu.RLock()
	defer w.mu.RUnlock()

	result := make([]FaceState, 0, len(w.states))
	for _, state := range w.states {
		result = append(result, state)
	}
	return result
}

// FaceCount returns the number of currently tracked faces
func (w *World) FaceCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.faces)
}

// Clear removes all tracked faces
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.faces = make(map[string]*TrackedFace)
	w.states = make(map[string]FaceState)
}
