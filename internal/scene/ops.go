package scene

import (
	"sort"

	"github.com/constat/sketch/backend-go/internal/catalog"
	"github.com/constat/sketch/backend-go/internal/typeid"
)

// NewID generates element ids. Ids are never reused within a process.
var NewID = typeid.NewElementID

// New returns an empty scene for the given canvas.
func New(canvas Size) Scene {
	return Scene{Elements: []Element{}, Canvas: canvas}
}

// AddElement places a new element of kind centered on the current canvas and
// selects it.
func AddElement(s Scene, kind catalog.Kind, density float64) (Scene, string) {
	d := catalog.ScaledDefaults(kind, density)
	el := newElement(kind, d, Point{
		X: s.Canvas.Width/2 - float64(d.Width)/2,
		Y: s.Canvas.Height/2 - float64(d.Height)/2,
	})

	out := s.clone()
	out.Elements = append(out.Elements, el)
	out.SelectedID = el.ID
	return out, el.ID
}

func newElement(kind catalog.Kind, d catalog.Defaults, pos Point) Element {
	return Element{
		ID:       NewID(),
		Kind:     kind,
		Position: pos,
		ZOrder:   clampZ(d.ZOrder),
		Size:     Size{Width: float64(d.Width), Height: float64(d.Height)},
		Color:    d.Color,
		Label:    d.Label,
	}
}

// SelectElement selects id. A miss leaves the prior selection in place.
func SelectElement(s Scene, id string) Scene {
	if s.index(id) < 0 {
		return s
	}
	out := s.clone()
	out.SelectedID = id
	return out
}

// MoveElement sets the element's position, clamped to the canvas.
func MoveElement(s Scene, id string, x, y float64) Scene {
	i := s.index(id)
	if i < 0 {
		return s
	}
	out := s.clone()
	el := &out.Elements[i]
	el.Position = Clamp(Point{X: x, Y: y}, el.Size, out.Canvas)
	return out
}

// RotateElement adds delta degrees to the element's rotation. Position is
// untouched.
func RotateElement(s Scene, id string, delta float64) Scene {
	i := s.index(id)
	if i < 0 {
		return s
	}
	out := s.clone()
	out.Elements[i].Rotation = NormalizeRotation(out.Elements[i].Rotation + delta)
	return out
}

// SetZOrder steps the element one layer up or down within [MinZOrder, MaxZOrder].
func SetZOrder(s Scene, id string, dir Direction) Scene {
	i := s.index(id)
	if i < 0 {
		return s
	}
	step := 1
	if dir == Down {
		step = -1
	}
	return MoveToLayer(s, id, s.Elements[i].ZOrder+step)
}

// MoveToLayer sets an absolute z-order, clamped like SetZOrder.
func MoveToLayer(s Scene, id string, z int) Scene {
	i := s.index(id)
	if i < 0 {
		return s
	}
	z = clampZ(z)
	if s.Elements[i].ZOrder == z {
		return s
	}
	out := s.clone()
	out.Elements[i].ZOrder = z
	return out
}

// DuplicateElement copies the element under a fresh id, offset by
// DuplicateOffset and clamped, and selects the copy. A miss returns s and
// an empty id.
func DuplicateElement(s Scene, id string) (Scene, string) {
	i := s.index(id)
	if i < 0 {
		return s, ""
	}
	src := s.Elements[i]
	dup := src
	dup.ID = NewID()
	dup.Position = Clamp(Point{
		X: src.Position.X + DuplicateOffset,
		Y: src.Position.Y + DuplicateOffset,
	}, src.Size, s.Canvas)

	out := s.clone()
	out.Elements = append(out.Elements, dup)
	out.SelectedID = dup.ID
	return out, dup.ID
}

// DeleteElement removes the element. Deleting the selection hands it to the
// first remaining element, or clears it when none remain.
func DeleteElement(s Scene, id string) Scene {
	i := s.index(id)
	if i < 0 {
		return s
	}
	out := s
	out.Elements = make([]Element, 0, len(s.Elements)-1)
	out.Elements = append(out.Elements, s.Elements[:i]...)
	out.Elements = append(out.Elements, s.Elements[i+1:]...)

	if s.SelectedID == id {
		out.SelectedID = ""
		if len(out.Elements) > 0 {
			out.SelectedID = out.Elements[0].ID
		}
	}
	return out
}

// SetCanvas changes the canvas bounds. Existing positions are not rescaled;
// they are clamped on their next interaction.
func SetCanvas(s Scene, canvas Size) Scene {
	if s.Canvas == canvas {
		return s
	}
	out := s.clone()
	out.Canvas = canvas
	return out
}

// PaintOrder returns the elements sorted back to front by z-order, ties kept
// in insertion order.
func PaintOrder(s Scene) []Element {
	out := make([]Element, len(s.Elements))
	copy(out, s.Elements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZOrder < out[j].ZOrder
	})
	return out
}
