package editor

import (
	"math"

	"github.com/constat/sketch/backend-go/internal/catalog"
	"github.com/constat/sketch/backend-go/internal/scene"
)

const (
	// canvasGutter is the horizontal space the host keeps around the canvas.
	canvasGutter = 20

	minCanvasHeight = 300
	maxCanvasHeight = 520

	// canvasHeightShare is the fraction of the screen height the windowed
	// canvas may take.
	canvasHeightShare = 0.6

	// snapGrid is the step a released drag snaps to.
	snapGrid = 5
)

// Screen is the logical size of the host display.
type Screen struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CanvasSize returns the drawing area for an editor mounted on screen. In
// fullscreen the canvas takes the full screen height.
func CanvasSize(screen Screen, fullscreen bool) scene.Size {
	return canvasSize(screen, catalog.DensityFactor(screen.Width), fullscreen)
}

// canvasSize lays out the canvas with the density the editor mounted with.
func canvasSize(screen Screen, density float64, fullscreen bool) scene.Size {
	w := math.Max(0, screen.Width-canvasGutter)
	if fullscreen {
		return scene.Size{Width: w, Height: screen.Height}
	}
	h := math.Max(minCanvasHeight, math.Min(screen.Height*canvasHeightShare, maxCanvasHeight*density))
	return scene.Size{Width: w, Height: h}
}

func snap(v float64) float64 {
	return math.Round(v/snapGrid) * snapGrid
}
