// Package editor is the interaction controller of the sketch: it turns
// pointer gestures and toolbar actions into scene operations, owns the
// transient drag and UI state, and presents every new state to the render
// surface. An Editor is a single actor; callers serialize access.
package editor

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/constat/sketch/backend-go/internal/catalog"
	"github.com/constat/sketch/backend-go/internal/render"
	"github.com/constat/sketch/backend-go/internal/scene"
	"github.com/constat/sketch/backend-go/internal/snapshot"
)

var (
	// ErrPointerBusy is returned for a pointer that is not the one driving the
	// current drag.
	ErrPointerBusy = errors.New("another pointer is dragging")
	// ErrModalOpen is returned for gestures while a modal chooser or the
	// delete confirmation is showing.
	ErrModalOpen = errors.New("a modal is open")
)

// Options configure a new Editor.
type Options struct {
	Screen Screen
	// Seed opens the editor with the two parties' vehicles placed.
	Seed bool
	// InitialData is a previously saved snapshot. It is retained as the
	// prior snapshot and never decoded back into elements.
	InitialData string
	SettleDelay time.Duration
	Clock       func() time.Time
	Logger      *slog.Logger
	// OnSave receives every successful snapshot.
	OnSave func(dataURI string)
}

// UIState is the host-facing state of the editor chrome.
type UIState struct {
	Fullscreen       bool `json:"fullscreen"`
	ControlsVisible  bool `json:"controlsVisible"`
	LayerChooserOpen bool `json:"layerChooserOpen"`
	AddPanelOpen     bool `json:"addPanelOpen"`
	ConfirmingDelete bool `json:"confirmingDelete"`
	Dragging         bool `json:"dragging"`
}

// Info is the status bar line for the selection.
type Info struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Angle int    `json:"angle"`
	Layer int    `json:"layer"`
}

// Layer is one entry of the layer chooser.
type Layer struct {
	Z       int  `json:"z"`
	Current bool `json:"current"`
}

type drag struct {
	pointer  int
	id       string
	origin   scene.Point
	startX   float64
	startY   float64
	position scene.Point
}

type Editor struct {
	scene   scene.Scene
	screen  Screen
	density float64
	ui      UIState
	drag    *drag

	// pendingDelete is the element a delete confirmation is showing for.
	pendingDelete string

	anim     *render.Animator
	surface  *render.Surface
	capturer *snapshot.Capturer

	clock  func() time.Time
	logger *slog.Logger
	onSave func(string)
}

// New mounts an editor for the given screen.
func New(opts Options) *Editor {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Editor{
		screen:   opts.Screen,
		density:  catalog.DensityFactor(opts.Screen.Width),
		ui:       UIState{ControlsVisible: true},
		anim:     render.NewAnimator(),
		surface:  render.NewSurface(),
		capturer: snapshot.NewCapturer(opts.SettleDelay, logger, opts.InitialData),
		clock:    clock,
		logger:   logger,
		onSave:   opts.OnSave,
	}

	canvas := CanvasSize(opts.Screen, false)
	if opts.Seed {
		e.scene = scene.NewDefault(canvas, e.density)
	} else {
		e.scene = scene.New(canvas)
	}

	e.present()
	return e
}

// present hands the current state to the render surface.
func (e *Editor) present() {
	e.surface.Present(e.input())
}

func (e *Editor) input() render.Input {
	in := render.Input{Scene: e.scene}
	if e.drag != nil {
		in.Drag = &render.DragOverlay{ElementID: e.drag.id, Position: e.drag.position}
	}
	return in
}

// --- Queries ---

func (e *Editor) Scene() scene.Scene {
	return e.scene
}

func (e *Editor) Selected() (scene.Element, bool) {
	return e.scene.Selected()
}

func (e *Editor) Density() float64 {
	return e.density
}

func (e *Editor) Screen() Screen {
	return e.screen
}

func (e *Editor) UI() UIState {
	ui := e.ui
	ui.Dragging = e.drag != nil
	return ui
}

// Info describes the selection, if any.
func (e *Editor) Info() (Info, bool) {
	el, ok := e.scene.Selected()
	if !ok {
		return Info{}, false
	}
	return Info{
		ID:    el.ID,
		Label: el.Label,
		Angle: int(math.Round(el.Rotation)) % 360,
		Layer: el.ZOrder,
	}, true
}

// Layers lists every layer with the selection's layer marked.
func (e *Editor) Layers() []Layer {
	current := 0
	if el, ok := e.scene.Selected(); ok {
		current = el.ZOrder
	}
	layers := make([]Layer, 0, scene.MaxZOrder-scene.MinZOrder+1)
	for z := scene.MinZOrder; z <= scene.MaxZOrder; z++ {
		layers = append(layers, Layer{Z: z, Current: z == current})
	}
	return layers
}

// Catalog returns the add chooser's groups.
func (e *Editor) Catalog() []catalog.Group {
	return catalog.Groups()
}

// Frame builds the presented frame at the current instant.
func (e *Editor) Frame() render.Frame {
	return render.BuildFrame(e.input(), e.anim, e.clock())
}

// Render returns the draw commands for the current instant as JSON.
func (e *Editor) Render() (string, error) {
	return render.DrawCommandsToJSON(render.CompileDrawCommands(e.Frame()))
}

// HitTest returns the topmost element under the canvas point.
func (e *Editor) HitTest(x, y float64) string {
	return render.HitTest(e.Frame(), x, y)
}

// Animating reports whether presentation is still easing towards the scene.
func (e *Editor) Animating() bool {
	return e.anim.Active(e.clock())
}

// Surface returns the render surface the editor presents to.
func (e *Editor) Surface() *render.Surface {
	return e.surface
}

// LatestSnapshot returns the last saved data URI, or the initial data.
func (e *Editor) LatestSnapshot() string {
	return e.capturer.Latest()
}

// --- Save ---

// Save captures the surface and hands the image to OnSave. A failure is
// logged and returned; the scene is untouched either way. Save only reads
// the surface and may run concurrently with gestures.
func (e *Editor) Save(ctx context.Context) (string, error) {
	uri, err := e.capturer.Capture(ctx, e.surface)
	if err != nil {
		return "", err
	}
	if e.onSave != nil {
		e.onSave(uri)
	}
	return uri, nil
}

// Unmount tears down the render surface. Saves fail afterwards.
func (e *Editor) Unmount() {
	e.surface.Unmount()
}
