package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/constat/sketch/backend-go/internal/scene"
)

func TestSpringProgress(t *testing.T) {
	p, done := PositionSpring.Progress(0)
	assert.Zero(t, p)
	assert.False(t, done)

	p, done = PositionSpring.Progress(50 * time.Millisecond)
	assert.False(t, done)
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 1.0)

	p, done = PositionSpring.Progress(2 * time.Second)
	assert.True(t, done)
	assert.Equal(t, 1.0, p)
}

func TestSpringSettleTime(t *testing.T) {
	settle := RotationSpring.SettleTime()
	assert.Greater(t, settle, 100*time.Millisecond)
	assert.Less(t, settle, 2*time.Second)

	_, done := RotationSpring.Progress(settle + time.Millisecond)
	assert.True(t, done)
}

func TestAnimatorMoveEasesTowardsCommitted(t *testing.T) {
	a := NewAnimator()
	t0 := time.Unix(1000, 0)
	el := scene.Element{ID: "el_1", Position: scene.Point{X: 100, Y: 100}}

	a.Move(el.ID, scene.Point{X: 0, Y: 0}, t0)
	assert.True(t, a.Active(t0.Add(10*time.Millisecond)))

	pos, _ := a.Sample(el, t0)
	assert.Equal(t, scene.Point{}, pos)

	pos, _ = a.Sample(el, t0.Add(50*time.Millisecond))
	assert.Greater(t, pos.X, 0.0)
	assert.Less(t, pos.X, 100.0)

	pos, _ = a.Sample(el, t0.Add(3*time.Second))
	assert.Equal(t, el.Position, pos)
	assert.False(t, a.Active(t0.Add(3*time.Second)))
}

func TestAnimatorTurnTakesShortestArc(t *testing.T) {
	a := NewAnimator()
	t0 := time.Unix(1000, 0)
	el := scene.Element{ID: "el_1", Rotation: 10}

	a.Turn(el.ID, 350, t0)
	for ms := 10; ms < 1500; ms += 10 {
		_, rot := a.Sample(el, t0.Add(time.Duration(ms)*time.Millisecond))
		assert.True(t, rot >= 340 || rot <= 25, "rotation %v left the short arc", rot)
	}

	_, rot := a.Sample(el, t0.Add(3*time.Second))
	assert.Equal(t, 10.0, rot)
}

func TestAnimatorForgetAndStop(t *testing.T) {
	a := NewAnimator()
	t0 := time.Unix(1000, 0)
	el := scene.Element{ID: "el_1", Position: scene.Point{X: 50, Y: 50}, Rotation: 90}

	a.Move(el.ID, scene.Point{}, t0)
	a.Turn(el.ID, 0, t0)

	a.StopMove(el.ID)
	pos, rot := a.Sample(el, t0.Add(20*time.Millisecond))
	assert.Equal(t, el.Position, pos)
	assert.NotEqual(t, el.Rotation, rot)

	a.Forget(el.ID)
	_, rot = a.Sample(el, t0.Add(20*time.Millisecond))
	assert.Equal(t, el.Rotation, rot)
	assert.False(t, a.Active(t0))
}
