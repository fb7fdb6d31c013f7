package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertPoint(t *testing.T, wantX, wantY, gotX, gotY float64) {
	t.Helper()
	assert.InDelta(t, wantX, gotX, 1e-9)
	assert.InDelta(t, wantY, gotY, 1e-9)
}

func TestElementTransformPivotsOnCenter(t *testing.T) {
	for _, deg := range []float64{0, 15, 90, 180, 275} {
		m := ElementTransform(30, 50, 80, 40, deg)
		x, y := m.TransformPoint(40, 20)
		assertPoint(t, 70, 70, x, y)
	}
}

func TestElementTransformQuarterTurn(t *testing.T) {
	m := ElementTransform(0, 0, 80, 40, 90)
	x, y := m.TransformPoint(0, 0)
	assertPoint(t, 60, -20, x, y)

	b := m.TransformRect(Rect{Width: 80, Height: 40})
	assert.InDelta(t, 20, b.X, 1e-9)
	assert.InDelta(t, -20, b.Y, 1e-9)
	assert.InDelta(t, 40, b.Width, 1e-9)
	assert.InDelta(t, 80, b.Height, 1e-9)
}

func TestInvertRoundTrip(t *testing.T) {
	m := ElementTransform(12, -7, 60, 30, 37)
	x, y := m.TransformPoint(5, 9)
	lx, ly := m.Invert().TransformPoint(x, y)
	assertPoint(t, 5, 9, lx, ly)

	assert.Equal(t, Identity(), Matrix2D{}.Invert())
}

func TestMultiplyAppliesRightFirst(t *testing.T) {
	m := Translate(10, 0).Multiply(RotateDegrees(90))
	x, y := m.TransformPoint(1, 0)
	assertPoint(t, 10, 1, x, y)
}

func TestAff3Layout(t *testing.T) {
	m := Matrix2D{1, 2, 3, 4, 5, 6}
	a := m.Aff3()
	assert.Equal(t, [6]float64{1, 3, 5, 2, 4, 6}, [6]float64(a))
}
