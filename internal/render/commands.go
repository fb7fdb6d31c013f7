package render

import (
	"encoding/json"
)

const (
	BackgroundColor = "#e2e8f0"
	GridColor       = "#0f172a14"
	GridSpacing     = 20
)

// DrawCommand is a single drawing operation for the client to execute on a
// Canvas2D context.
type DrawCommand struct {
	Op         string      `json:"op"`                   // "background", "grid" or "element"
	ObjectID   string      `json:"objectId,omitempty"`   // For hit correlation
	Transform  []float64   `json:"transform,omitempty"`  // [a, b, c, d, e, f] affine matrix
	Width      float64     `json:"width,omitempty"`      // Canvas or element box width
	Height     float64     `json:"height,omitempty"`     // Canvas or element box height
	Fill       string      `json:"fill,omitempty"`       // Background fill
	Stroke     string      `json:"stroke,omitempty"`     // Grid line color
	Spacing    float64     `json:"spacing,omitempty"`    // Grid cell size
	Selected   bool        `json:"selected,omitempty"`   // Element carries the selection highlight
	Dragging   bool        `json:"dragging,omitempty"`   // Element follows the pointer
	Primitives []Primitive `json:"primitives,omitempty"` // Element shapes in local space
}

// CompileDrawCommands generates the draw command buffer for a frame.
// Commands are in painter's order (back to front).
func CompileDrawCommands(f Frame) []DrawCommand {
	commands := make([]DrawCommand, 0, len(f.Nodes)+2)
	commands = append(commands,
		DrawCommand{Op: "background", Width: f.Width, Height: f.Height, Fill: BackgroundColor},
		DrawCommand{Op: "grid", Width: f.Width, Height: f.Height, Stroke: GridColor, Spacing: GridSpacing},
	)
	for _, n := range f.Nodes {
		commands = append(commands, DrawCommand{
			Op:         "element",
			ObjectID:   n.ID,
			Transform:  n.World.ToSlice(),
			Width:      n.Width,
			Height:     n.Height,
			Selected:   n.Selected,
			Dragging:   n.Dragging,
			Primitives: Primitives(n),
		})
	}
	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTest returns the id of the topmost element whose rotated box contains
// the point, or an empty string.
func HitTest(f Frame, x, y float64) string {
	for i := len(f.Nodes) - 1; i >= 0; i-- {
		n := f.Nodes[i]
		if n.Bounds.IsEmpty() {
			continue
		}
		if n.Contains(x, y) {
			return n.ID
		}
	}
	return ""
}

// SelectionBounds returns the canvas-space box of the given element, or an
// empty Rect.
func SelectionBounds(f Frame, id string) Rect {
	n, ok := f.Lookup(id)
	if !ok {
		return Rect{}
	}
	return n.Bounds
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r Rect) string {
	data, _ := json.Marshal(r)
	return string(data)
}
