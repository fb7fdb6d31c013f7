package editor

import (
	"github.com/constat/sketch/backend-go/internal/scene"
)

func (e *Editor) modalOpen() bool {
	return e.ui.ConfirmingDelete || e.ui.LayerChooserOpen
}

// PointerDown starts a drag on the topmost element under the point and
// selects it. A down on empty canvas is ignored.
func (e *Editor) PointerDown(pointer int, x, y float64) error {
	if e.modalOpen() {
		return ErrModalOpen
	}
	if e.drag != nil {
		return ErrPointerBusy
	}

	id := e.HitTest(x, y)
	if id == "" {
		return nil
	}
	el, _ := e.scene.Lookup(id)

	e.anim.StopMove(id)
	e.scene = scene.SelectElement(e.scene, id)
	e.drag = &drag{
		pointer:  pointer,
		id:       id,
		origin:   el.Position,
		startX:   x,
		startY:   y,
		position: el.Position,
	}
	e.present()
	return nil
}

// PointerMove follows the drag. The overlay is not clamped; the element may
// run past the canvas edge until release.
func (e *Editor) PointerMove(pointer int, x, y float64) error {
	if e.drag == nil {
		return nil
	}
	if e.drag.pointer != pointer {
		return ErrPointerBusy
	}
	e.drag.position = scene.Point{
		X: e.drag.origin.X + (x - e.drag.startX),
		Y: e.drag.origin.Y + (y - e.drag.startY),
	}
	e.present()
	return nil
}

// PointerUp commits the drag: the release point snaps to the grid, is
// clamped into the canvas and the element springs there.
func (e *Editor) PointerUp(pointer int) error {
	if e.drag == nil {
		return nil
	}
	if e.drag.pointer != pointer {
		return ErrPointerBusy
	}
	d := e.drag
	e.drag = nil

	e.scene = scene.MoveElement(e.scene, d.id, snap(d.position.X), snap(d.position.Y))
	if el, ok := e.scene.Lookup(d.id); ok && el.Position != d.position {
		e.anim.Move(d.id, d.position, e.clock())
	}
	e.logger.Debug("element moved", "id", d.id, "x", d.position.X, "y", d.position.Y)
	e.present()
	return nil
}

// PointerCancel abandons the drag; the element stays where it was.
func (e *Editor) PointerCancel(pointer int) error {
	if e.drag == nil {
		return nil
	}
	if e.drag.pointer != pointer {
		return ErrPointerBusy
	}
	e.drag = nil
	e.present()
	return nil
}
