package render

import (
	"github.com/constat/sketch/backend-go/internal/catalog"
	"github.com/constat/sketch/backend-go/internal/scene"
)

// Frame is the render-ready state of a scene at one instant: nodes are in
// paint order, back to front, with presentation values resolved.
type Frame struct {
	Width  float64
	Height float64
	Nodes  []Node
}

// Node is one element ready for drawing. World maps the element's local box
// (0,0)-(Width,Height) onto the canvas.
type Node struct {
	ID       string
	Kind     catalog.Kind
	World    Matrix2D
	X, Y     float64
	Rotation float64
	Width    float64
	Height   float64
	Color    string
	Label    string
	Selected bool
	Dragging bool

	// Bounds is the axis-aligned box of the rotated element on the canvas.
	Bounds Rect
}

// Rect is an axis-aligned box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the canvas point lies inside the node's rotated
// box.
func (n Node) Contains(x, y float64) bool {
	if !n.Bounds.Contains(x, y) {
		return false
	}
	lx, ly := n.World.Invert().TransformPoint(x, y)
	return Rect{Width: n.Width, Height: n.Height}.Contains(lx, ly)
}

// Lookup returns the node with the given id.
func (f Frame) Lookup(id string) (Node, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// DragOverlay is the uncommitted position of the element under a drag.
type DragOverlay struct {
	ElementID string
	Position  scene.Point
}

// Input is everything a frame is a function of, besides animation.
type Input struct {
	Scene scene.Scene
	Drag  *DragOverlay
}
