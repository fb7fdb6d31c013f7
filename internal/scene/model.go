// Package scene holds the canonical sketch state: the placed elements, the
// selection and the canvas bounds. Every operation is a pure function from
// one Scene value to the next; none of them perform I/O or fail.
package scene

import (
	"math"

	"github.com/constat/sketch/backend-go/internal/catalog"
)

const (
	// Margin is the inset an element's bounding box keeps from the canvas edges.
	Margin = 10

	MinZOrder = 1
	MaxZOrder = 20

	// DuplicateOffset is added to both axes of a duplicated element.
	DuplicateOffset = 20
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is one placed instance of a catalog kind. Position is the
// top-left anchor in canvas pixels; Rotation is in degrees within [0, 360).
type Element struct {
	ID       string       `json:"id"`
	Kind     catalog.Kind `json:"kind"`
	Position Point        `json:"position"`
	Rotation float64      `json:"rotation"`
	ZOrder   int          `json:"zOrder"`
	Size     Size         `json:"size"`
	Color    string       `json:"color"`
	Label    string       `json:"label"`
}

// Scene is the full editing state of one session. Elements keep insertion
// order; paint order is derived with PaintOrder.
type Scene struct {
	Elements   []Element `json:"elements"`
	SelectedID string    `json:"selectedId,omitempty"`
	Canvas     Size      `json:"canvas"`
}

// Direction is a single layer step.
type Direction int

const (
	Down Direction = -1
	Up   Direction = 1
)

// Lookup returns the element with the given id.
func (s Scene) Lookup(id string) (Element, bool) {
	if i := s.index(id); i >= 0 {
		return s.Elements[i], true
	}
	return Element{}, false
}

// Selected returns the selected element, if any.
func (s Scene) Selected() (Element, bool) {
	if s.SelectedID == "" {
		return Element{}, false
	}
	return s.Lookup(s.SelectedID)
}

// Len returns the number of placed elements.
func (s Scene) Len() int {
	return len(s.Elements)
}

func (s Scene) index(id string) int {
	for i := range s.Elements {
		if s.Elements[i].ID == id {
			return i
		}
	}
	return -1
}

// clone copies the element slice so the returned scene can be mutated
// without touching the receiver.
func (s Scene) clone() Scene {
	out := s
	if s.Elements != nil {
		out.Elements = make([]Element, len(s.Elements))
		copy(out.Elements, s.Elements)
	}
	return out
}

// Clamp keeps an element of the given size inside canvas with the inset
// margin. When the canvas is too small the top-left margin wins.
func Clamp(p Point, size Size, canvas Size) Point {
	return Point{
		X: math.Max(Margin, math.Min(canvas.Width-size.Width-Margin, p.X)),
		Y: math.Max(Margin, math.Min(canvas.Height-size.Height-Margin, p.Y)),
	}
}

// NormalizeRotation folds any angle into [0, 360).
func NormalizeRotation(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	if r >= 360 {
		r = 0
	}
	return r
}

func clampZ(z int) int {
	return min(MaxZOrder, max(MinZOrder, z))
}
