package render

import (
	"time"

	"github.com/constat/sketch/backend-go/internal/scene"
)

// BuildFrame resolves a scene into paint-ordered nodes. The drag overlay, if
// any, replaces the dragged element's position unclamped. With a nil
// animator the committed values are used as is.
func BuildFrame(in Input, anim *Animator, now time.Time) Frame {
	s := in.Scene
	f := Frame{
		Width:  s.Canvas.Width,
		Height: s.Canvas.Height,
		Nodes:  make([]Node, 0, len(s.Elements)),
	}

	for _, el := range scene.PaintOrder(s) {
		pos, rot := el.Position, el.Rotation
		if anim != nil {
			pos, rot = anim.Sample(el, now)
		}

		dragging := in.Drag != nil && in.Drag.ElementID == el.ID
		if dragging {
			pos = in.Drag.Position
		}

		w, h := el.Size.Width, el.Size.Height
		world := ElementTransform(pos.X, pos.Y, w, h, rot)
		f.Nodes = append(f.Nodes, Node{
			ID:       el.ID,
			Kind:     el.Kind,
			World:    world,
			X:        pos.X,
			Y:        pos.Y,
			Rotation: rot,
			Width:    w,
			Height:   h,
			Color:    el.Color,
			Label:    el.Label,
			Selected: el.ID == s.SelectedID,
			Dragging: dragging,
			Bounds:   world.TransformRect(Rect{Width: w, Height: h}),
		})
	}

	return f
}
