//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"

	"github.com/constat/sketch/backend-go/internal/catalog"
	"github.com/constat/sketch/backend-go/internal/editor"
	"github.com/constat/sketch/backend-go/internal/render"
)

var ed *editor.Editor

func main() {
	// Create the editor API object
	sketchEditor := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	sketchEditor.Set("mount", js.FuncOf(mount))
	sketchEditor.Set("unmount", js.FuncOf(unmount))
	sketchEditor.Set("pointerDown", js.FuncOf(pointerDown))
	sketchEditor.Set("pointerMove", js.FuncOf(pointerMove))
	sketchEditor.Set("pointerUp", js.FuncOf(pointerUp))
	sketchEditor.Set("pointerCancel", js.FuncOf(pointerCancel))
	sketchEditor.Set("rotate", js.FuncOf(rotate))
	sketchEditor.Set("layerUp", js.FuncOf(action(func() { ed.LayerUp() })))
	sketchEditor.Set("layerDown", js.FuncOf(action(func() { ed.LayerDown() })))
	sketchEditor.Set("moveToLayer", js.FuncOf(moveToLayer))
	sketchEditor.Set("openLayers", js.FuncOf(action(func() { ed.OpenLayerChooser() })))
	sketchEditor.Set("closeLayers", js.FuncOf(action(func() { ed.CloseLayerChooser() })))
	sketchEditor.Set("openAddPanel", js.FuncOf(action(func() { ed.OpenAddPanel() })))
	sketchEditor.Set("closeAddPanel", js.FuncOf(action(func() { ed.CloseAddPanel() })))
	sketchEditor.Set("add", js.FuncOf(add))
	sketchEditor.Set("duplicate", js.FuncOf(action(func() { ed.DuplicateSelected() })))
	sketchEditor.Set("requestDelete", js.FuncOf(action(func() { ed.RequestDelete() })))
	sketchEditor.Set("confirmDelete", js.FuncOf(action(func() { ed.ConfirmDelete() })))
	sketchEditor.Set("cancelDelete", js.FuncOf(action(func() { ed.CancelDelete() })))
	sketchEditor.Set("setFullscreen", js.FuncOf(setFullscreen))
	sketchEditor.Set("setControlsVisible", js.FuncOf(setControlsVisible))
	sketchEditor.Set("resize", js.FuncOf(resize))
	sketchEditor.Set("save", js.FuncOf(save))

	// --- Queries (frontend ← backend) ---
	sketchEditor.Set("render", js.FuncOf(renderFrame))
	sketchEditor.Set("hitTest", js.FuncOf(hitTest))
	sketchEditor.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	sketchEditor.Set("getScene", js.FuncOf(query(func() any { return ed.Scene() })))
	sketchEditor.Set("getInfo", js.FuncOf(getInfo))
	sketchEditor.Set("getUI", js.FuncOf(query(func() any { return ed.UI() })))
	sketchEditor.Set("getLayers", js.FuncOf(query(func() any { return ed.Layers() })))
	sketchEditor.Set("getCatalog", js.FuncOf(query(func() any { return catalog.Groups() })))
	sketchEditor.Set("isAnimating", js.FuncOf(isAnimating))

	// Register on global scope
	js.Global().Set("sketchEditor", sketchEditor)

	// Signal that WASM is ready
	js.Global().Set("sketchWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err error) js.Value {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() js.Value {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// action wraps a no-argument editor command.
func action(fn func()) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if ed == nil {
			return nil
		}
		fn()
		return nil
	}
}

// query wraps a JSON-returning editor query.
func query(fn func() any) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if ed == nil {
			return js.ValueOf("null")
		}
		data, err := json.Marshal(fn())
		if err != nil {
			return js.ValueOf("null")
		}
		return js.ValueOf(string(data))
	}
}

// --- Command Handlers ---

// mount(screenWidth, screenHeight, seed?, initialData?)
func mount(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{"error": "missing screen size"})
	}
	opts := editor.Options{
		Screen: editor.Screen{Width: args[0].Float(), Height: args[1].Float()},
		Seed:   true,
	}
	if len(args) > 2 && args[2].Type() == js.TypeBoolean {
		opts.Seed = args[2].Bool()
	}
	if len(args) > 3 && args[3].Type() == js.TypeString {
		opts.InitialData = args[3].String()
	}

	if ed != nil {
		ed.Unmount()
	}
	ed = editor.New(opts)
	return okResult()
}

func unmount(this js.Value, args []js.Value) interface{} {
	if ed != nil {
		ed.Unmount()
	}
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if ed == nil || len(args) < 3 {
		return nil
	}
	if err := ed.PointerDown(args[0].Int(), args[1].Float(), args[2].Float()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if ed == nil || len(args) < 3 {
		return nil
	}
	if err := ed.PointerMove(args[0].Int(), args[1].Float(), args[2].Float()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if ed == nil || len(args) < 1 {
		return nil
	}
	if err := ed.PointerUp(args[0].Int()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func pointerCancel(this js.Value, args []js.Value) interface{} {
	if ed == nil || len(args) < 1 {
		return nil
	}
	if err := ed.PointerCancel(args[0].Int()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func rotate(this js.Value, args []js.Value) interface{} {
	if ed == nil || len(args) < 1 {
		return nil
	}
	ed.RotateSelected(args[0].Float())
	return nil
}

func moveToLayer(this js.Value, args []js.Value) interface{} {
	if ed == nil || len(args) < 1 {
		return nil
	}
	ed.MoveSelectedToLayer(args[0].Int())
	return nil
}

func add(this js.Value, args []js.Value) interface{} {
	if ed == nil || len(args) < 1 {
		return nil
	}
	id, err := ed.Add(catalog.Kind(args[0].String()))
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(id)
}

func setFullscreen(this js.Value, args []js.Value) interface{} {
	if ed == nil || len(args) < 1 {
		return nil
	}
	ed.SetFullscreen(args[0].Bool())
	return nil
}

func setControlsVisible(this js.Value, args []js.Value) interface{} {
	if ed == nil || len(args) < 1 {
		return nil
	}
	ed.SetControlsVisible(args[0].Bool())
	return nil
}

func resize(this js.Value, args []js.Value) interface{} {
	if ed == nil || len(args) < 2 {
		return nil
	}
	ed.Resize(editor.Screen{Width: args[0].Float(), Height: args[1].Float()})
	return nil
}

// save returns a Promise resolving to the PNG data URI.
func save(this js.Value, args []js.Value) interface{} {
	current := ed
	handler := js.FuncOf(func(this js.Value, p []js.Value) interface{} {
		resolve, reject := p[0], p[1]
		go func() {
			if current == nil {
				reject.Invoke(js.ValueOf("editor not mounted"))
				return
			}
			uri, err := current.Save(context.Background())
			if err != nil {
				reject.Invoke(js.ValueOf(err.Error()))
				return
			}
			resolve.Invoke(js.ValueOf(uri))
		}()
		return nil
	})
	defer handler.Release()
	return js.Global().Get("Promise").New(handler)
}

// --- Query Handlers ---

func renderFrame(this js.Value, args []js.Value) interface{} {
	if ed == nil {
		return js.ValueOf("[]")
	}
	out, err := ed.Render()
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(out)
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if ed == nil || len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(ed.HitTest(args[0].Float(), args[1].Float()))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	if ed == nil {
		return js.ValueOf(render.RectToJSON(render.Rect{}))
	}
	return js.ValueOf(render.RectToJSON(render.SelectionBounds(ed.Frame(), ed.Scene().SelectedID)))
}

func getInfo(this js.Value, args []js.Value) interface{} {
	if ed == nil {
		return js.ValueOf("null")
	}
	info, ok := ed.Info()
	if !ok {
		return js.ValueOf("null")
	}
	data, _ := json.Marshal(info)
	return js.ValueOf(string(data))
}

func isAnimating(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed != nil && ed.Animating())
}
