package editor

import (
	"fmt"

	"github.com/constat/sketch/backend-go/internal/catalog"
	"github.com/constat/sketch/backend-go/internal/scene"
)

// Rotation steps offered by the toolbar.
const (
	RotateLeft    = -15
	RotateRight   = 15
	RotateQuarter = 90
)

// RotateSelected turns the selection by delta degrees and eases the
// presented heading from wherever it currently is.
func (e *Editor) RotateSelected(delta float64) {
	el, ok := e.scene.Selected()
	if !ok {
		return
	}
	now := e.clock()
	_, from := e.anim.Sample(el, now)
	e.scene = scene.RotateElement(e.scene, el.ID, delta)
	e.anim.Turn(el.ID, from, now)
	e.present()
}

func (e *Editor) LayerUp() {
	e.stepLayer(scene.Up)
}

func (e *Editor) LayerDown() {
	e.stepLayer(scene.Down)
}

func (e *Editor) stepLayer(dir scene.Direction) {
	el, ok := e.scene.Selected()
	if !ok {
		return
	}
	e.scene = scene.SetZOrder(e.scene, el.ID, dir)
	e.present()
}

// OpenLayerChooser shows the layer chooser for the selection.
func (e *Editor) OpenLayerChooser() {
	if _, ok := e.scene.Selected(); !ok {
		return
	}
	e.ui.LayerChooserOpen = true
}

func (e *Editor) CloseLayerChooser() {
	e.ui.LayerChooserOpen = false
}

// MoveSelectedToLayer assigns the selection to layer z and closes the
// chooser.
func (e *Editor) MoveSelectedToLayer(z int) {
	e.ui.LayerChooserOpen = false
	el, ok := e.scene.Selected()
	if !ok {
		return
	}
	e.scene = scene.MoveToLayer(e.scene, el.ID, z)
	e.present()
}

func (e *Editor) OpenAddPanel() {
	e.ui.AddPanelOpen = true
}

func (e *Editor) CloseAddPanel() {
	e.ui.AddPanelOpen = false
}

// Add places a new element of kind at the canvas center, selects it and
// closes the add panel.
func (e *Editor) Add(kind catalog.Kind) (string, error) {
	if e.ui.ConfirmingDelete {
		return "", ErrModalOpen
	}
	if _, err := catalog.Parse(string(kind)); err != nil {
		return "", fmt.Errorf("add element: %w", err)
	}
	var id string
	e.scene, id = scene.AddElement(e.scene, kind, e.density)
	e.ui.AddPanelOpen = false
	e.logger.Debug("element added", "kind", kind, "id", id)
	e.present()
	return id, nil
}

// DuplicateSelected copies the selection and selects the copy. It does
// nothing while a delete is awaiting confirmation.
func (e *Editor) DuplicateSelected() string {
	if e.ui.ConfirmingDelete {
		return ""
	}
	el, ok := e.scene.Selected()
	if !ok {
		return ""
	}
	var id string
	e.scene, id = scene.DuplicateElement(e.scene, el.ID)
	e.logger.Debug("element duplicated", "from", el.ID, "id", id)
	e.present()
	return id
}

// RequestDelete opens the delete confirmation for the selection. The
// element asked about is the one a later confirm removes.
func (e *Editor) RequestDelete() {
	el, ok := e.scene.Selected()
	if !ok {
		return
	}
	e.ui.ConfirmingDelete = true
	e.pendingDelete = el.ID
}

// ConfirmDelete removes the element the pending request was made for.
// Without a pending request it does nothing.
func (e *Editor) ConfirmDelete() {
	if !e.ui.ConfirmingDelete {
		return
	}
	id := e.pendingDelete
	e.ui.ConfirmingDelete = false
	e.pendingDelete = ""

	e.scene = scene.DeleteElement(e.scene, id)
	e.anim.Forget(id)
	e.logger.Debug("element deleted", "id", id)
	e.present()
}

func (e *Editor) CancelDelete() {
	e.ui.ConfirmingDelete = false
	e.pendingDelete = ""
}

// SetFullscreen switches the canvas between windowed and fullscreen sizes.
func (e *Editor) SetFullscreen(on bool) {
	e.ui.Fullscreen = on
	e.relayout()
}

func (e *Editor) SetControlsVisible(visible bool) {
	e.ui.ControlsVisible = visible
}

// Resize adapts the canvas to a new screen. The density is fixed when the
// editor mounts, so elements keep their size and new ones match them.
func (e *Editor) Resize(screen Screen) {
	e.screen = screen
	e.relayout()
}

func (e *Editor) relayout() {
	e.scene = scene.SetCanvas(e.scene, canvasSize(e.screen, e.density, e.ui.Fullscreen))
	e.present()
}
