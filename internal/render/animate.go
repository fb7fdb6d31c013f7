package render

import (
	"math"
	"sync"
	"time"

	"github.com/constat/sketch/backend-go/internal/scene"
)

// Spring is a damped spring expressed in the tension/friction terms of the
// mobile client's animation library.
type Spring struct {
	Tension  float64
	Friction float64
}

var (
	// PositionSpring eases a released element onto its snapped position.
	PositionSpring = Spring{Tension: 120, Friction: 8}
	// RotationSpring eases an element onto its new heading.
	RotationSpring = Spring{Tension: 100, Friction: 8}
)

// restThreshold is the remaining oscillation amplitude, as a fraction of the
// travelled distance, below which a spring counts as settled.
const restThreshold = 0.001

// coefficients converts tension/friction into stiffness and damping for a
// unit mass (Origami conversion).
func (s Spring) coefficients() (stiffness, damping float64) {
	return (s.Tension-30)*3.62 + 194, (s.Friction-8)*3 + 25
}

// Progress returns the eased fraction travelled after elapsed, and whether
// the spring has come to rest. Underdamped springs overshoot past 1.
func (s Spring) Progress(elapsed time.Duration) (float64, bool) {
	t := elapsed.Seconds()
	if t <= 0 {
		return 0, false
	}
	k, c := s.coefficients()
	w0 := math.Sqrt(k)
	zeta := c / (2 * w0)

	if zeta < 1 {
		wd := w0 * math.Sqrt(1-zeta*zeta)
		env := math.Exp(-zeta * w0 * t)
		if env < restThreshold {
			return 1, true
		}
		return 1 - env*(math.Cos(wd*t)+(zeta*w0/wd)*math.Sin(wd*t)), false
	}

	// Critically damped or stiffer: no overshoot.
	env := math.Exp(-w0*t) * (1 + w0*t)
	if env < restThreshold {
		return 1, true
	}
	return 1 - env, false
}

// SettleTime returns how long the spring takes to come to rest.
func (s Spring) SettleTime() time.Duration {
	k, c := s.coefficients()
	w0 := math.Sqrt(k)
	zeta := min(1, c/(2*w0))
	secs := math.Log(1/restThreshold) / (zeta * w0)
	return time.Duration(secs * float64(time.Second))
}

type motion struct {
	fromX, fromY float64
	fromR        float64
	start        time.Time
	spring       Spring
}

// Animator interpolates the presented position and rotation of elements
// towards their committed scene values. It holds presentation state only;
// the scene never sees it. Safe for concurrent use.
type Animator struct {
	mu    sync.Mutex
	moves map[string]motion
	turns map[string]motion
}

func NewAnimator() *Animator {
	return &Animator{
		moves: make(map[string]motion),
		turns: make(map[string]motion),
	}
}

// Move starts easing element id from the given point to wherever the scene
// has it committed.
func (a *Animator) Move(id string, from scene.Point, now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.moves[id] = motion{fromX: from.X, fromY: from.Y, start: now, spring: PositionSpring}
}

// Turn starts easing element id from the given heading to its committed
// rotation along the shorter arc.
func (a *Animator) Turn(id string, fromDeg float64, now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.turns[id] = motion{fromR: fromDeg, start: now, spring: RotationSpring}
}

// StopMove drops any position easing for id; the element snaps to its
// committed position.
func (a *Animator) StopMove(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.moves, id)
}

// Forget drops every animation for id.
func (a *Animator) Forget(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.moves, id)
	delete(a.turns, id)
}

// Sample returns the presented position and rotation of el at now. Settled
// animations are discarded.
func (a *Animator) Sample(el scene.Element, now time.Time) (scene.Point, float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pos, rot := el.Position, el.Rotation

	if m, ok := a.moves[el.ID]; ok {
		p, done := m.spring.Progress(now.Sub(m.start))
		if done {
			delete(a.moves, el.ID)
		} else {
			pos = scene.Point{
				X: m.fromX + (el.Position.X-m.fromX)*p,
				Y: m.fromY + (el.Position.Y-m.fromY)*p,
			}
		}
	}

	if m, ok := a.turns[el.ID]; ok {
		p, done := m.spring.Progress(now.Sub(m.start))
		if done {
			delete(a.turns, el.ID)
		} else {
			delta := math.Mod(el.Rotation-m.fromR+540, 360) - 180
			rot = scene.NormalizeRotation(m.fromR + delta*p)
		}
	}

	return pos, rot
}

// Active reports whether any animation is still running at now.
func (a *Animator) Active(now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, m := range a.moves {
		if _, done := m.spring.Progress(now.Sub(m.start)); !done {
			return true
		}
	}
	for _, m := range a.turns {
		if _, done := m.spring.Progress(now.Sub(m.start)); !done {
			return true
		}
	}
	return false
}
