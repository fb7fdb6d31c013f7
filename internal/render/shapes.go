package render

import (
	"math"

	"github.com/constat/sketch/backend-go/internal/catalog"
)

// PrimitiveKind is the shape of one drawing primitive.
type PrimitiveKind string

const (
	PrimRect     PrimitiveKind = "rect"
	PrimEllipse  PrimitiveKind = "ellipse"
	PrimTriangle PrimitiveKind = "triangle"
	PrimText     PrimitiveKind = "text"
)

// Primitive is one shape in an element's local coordinate space. Strokes are
// drawn inside the shape's box. Text is centered on (X, Y).
type Primitive struct {
	Kind        PrimitiveKind `json:"kind"`
	X           float64       `json:"x"`
	Y           float64       `json:"y"`
	W           float64       `json:"w,omitempty"`
	H           float64       `json:"h,omitempty"`
	Radius      float64       `json:"radius,omitempty"`      // Corner radius for rects
	Fill        string        `json:"fill,omitempty"`        // #rrggbb or #rrggbbaa
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Inset stroke width
	Points      []float64     `json:"points,omitempty"`      // x1,y1,x2,y2,x3,y3 for triangles
	Text        string        `json:"text,omitempty"`
	FontSize    float64       `json:"fontSize,omitempty"`
}

const (
	HighlightColor = "#fbbf24"

	colorVehicleBorder = "#e5e7eb"
	colorWindshield    = "#87ceeb"
	colorWheel         = "#1f2937"
	colorWhite         = "#ffffff"
	colorLabelPill     = "#ffffffe6"
	colorLabelText     = "#374151"
	colorLane          = "#fbbf24"
	colorIsland        = "#16a34a"

	// labelOffset is how far below the vehicle the label pill's bottom edge sits.
	labelOffset     = 18
	labelFontSize   = 9
	labelPillHeight = 13

	selectionOutline = 3
)

// TextWidth estimates the advance of s at the given font size. Clients and
// the rasterizer both size label pills from it.
func TextWidth(s string, fontSize float64) float64 {
	return float64(len([]rune(s))) * fontSize * 0.6
}

// Primitives returns the shapes that draw n, back to front, in the node's
// local space.
func Primitives(n Node) []Primitive {
	style := catalog.StyleFor(n.Kind)
	if style.Shape == catalog.ShapeVehicle {
		return vehiclePrimitives(n, style)
	}
	return markerPrimitives(n, style)
}

func vehiclePrimitives(n Node, style catalog.ShapeStyle) []Primitive {
	w, h := n.Width, n.Height
	moto := n.Kind == catalog.Motorcycle

	border, borderWidth := colorVehicleBorder, 1.0
	if n.Selected {
		border, borderWidth = HighlightColor, 2
	}

	prims := []Primitive{{
		Kind: PrimRect, W: w, H: h,
		Radius: style.CornerRadius,
		Fill:   n.Color, Stroke: border, StrokeWidth: borderWidth,
	}}

	// Windshield
	shieldW, shieldH := 0.55, 0.35
	if moto {
		shieldW = 0.40
	}
	if n.Kind == catalog.Bus {
		shieldH = 0.25
	}
	prims = append(prims, Primitive{
		Kind: PrimRect, X: 0.225 * w, Y: 0.2 * h, W: shieldW * w, H: shieldH * h,
		Radius: 3, Fill: colorWindshield,
	})

	// Front indicator
	right := 0.03
	if moto {
		right = 0.05
	}
	prims = append(prims, Primitive{
		Kind: PrimRect, X: w - right*w - 0.06*w, Y: 0.35 * h, W: 0.06 * w, H: 0.3 * h,
		Radius: 2, Fill: colorWhite,
	})

	// Wheels
	wheel, inset, bottom := 8.0, 0.15, 0.2
	if moto {
		wheel, inset, bottom = 12, 0.10, 0.25
	}
	wy := h - bottom*h - wheel
	xs := []float64{inset * w, w - inset*w - wheel}
	if n.Kind == catalog.Truck || n.Kind == catalog.Bus {
		xs = append(xs, 0.4*w)
	}
	for _, x := range xs {
		prims = append(prims, Primitive{Kind: PrimEllipse, X: x, Y: wy, W: wheel, H: wheel, Fill: colorWheel})
	}

	// Direction arrow past the front edge
	prims = append(prims, Primitive{
		Kind:   PrimTriangle,
		Points: []float64{w - 2, h/2 - 4, w + 6, h / 2, w - 2, h/2 + 4},
		Fill:   colorWhite,
	})

	if n.Label != "" {
		fs := labelFontSize * densityOf(n)
		fs = math.Max(8, math.Round(fs))
		pillW := TextWidth(n.Label, fs) + 8
		top := h + labelOffset - labelPillHeight
		prims = append(prims,
			Primitive{
				Kind: PrimRect, X: w/2 - pillW/2, Y: top, W: pillW, H: labelPillHeight,
				Radius: 3, Fill: colorLabelPill,
			},
			Primitive{
				Kind: PrimText, X: w / 2, Y: top + labelPillHeight/2,
				Text: n.Label, FontSize: fs, Fill: colorLabelText,
			},
		)
	}

	return prims
}

// densityOf recovers the density a vehicle was created at from its width.
// Vehicles are never resized, so this is exact up to rounding.
func densityOf(n Node) float64 {
	base := catalog.BaseDefaults(n.Kind).Width
	if base <= 0 {
		return 1
	}
	return min(catalog.MaxDensity, max(catalog.MinDensity, n.Width/float64(base)))
}

func markerPrimitives(n Node, style catalog.ShapeStyle) []Primitive {
	w, h := n.Width, n.Height
	circle := style.Shape == catalog.ShapeCircle

	body := Primitive{Kind: PrimRect, W: w, H: h, Radius: style.CornerRadius, Fill: n.Color}
	if circle {
		body = Primitive{Kind: PrimEllipse, W: w, H: h, Fill: n.Color}
	}
	if style.Edges == catalog.EdgesAll && style.BorderWidth > 0 {
		body.Stroke, body.StrokeWidth = style.BorderColor, style.BorderWidth
	}
	prims := []Primitive{body}

	if style.Edges == catalog.EdgesTopBottom {
		bw := style.BorderWidth
		prims = append(prims,
			Primitive{Kind: PrimRect, W: w, H: bw, Fill: style.BorderColor},
			Primitive{Kind: PrimRect, Y: h - bw, W: w, H: bw, Fill: style.BorderColor},
		)
	}

	switch n.Kind {
	case catalog.Intersection:
		prims = append(prims,
			Primitive{Kind: PrimRect, Y: 0.48 * h, W: w, H: 4, Fill: colorLane},
			Primitive{Kind: PrimRect, X: 0.48 * w, W: 4, H: h, Fill: colorLane},
			Primitive{Kind: PrimEllipse, X: w/2 - 4, Y: h/2 - 4, W: 8, H: 8, Fill: colorWhite},
		)
	case catalog.Roundabout:
		prims = append(prims, Primitive{
			Kind: PrimEllipse, X: 0.2 * w, Y: 0.2 * h, W: 0.6 * w, H: 0.6 * h, Fill: colorIsland,
		})
	}

	if sym := catalog.SymbolFor(n.Kind); sym != "" {
		prims = append(prims, Primitive{
			Kind: PrimText, X: w / 2, Y: h / 2,
			Text: sym, FontSize: style.SymbolSize, Fill: style.SymbolColor,
		})
	}

	if n.Selected {
		outline := Primitive{
			Kind: PrimRect, W: w, H: h, Radius: style.CornerRadius,
			Stroke: HighlightColor, StrokeWidth: selectionOutline,
		}
		if circle {
			outline.Kind, outline.Radius = PrimEllipse, 0
		}
		prims = append(prims, outline)
	}

	return prims
}

// extent returns the local-space box covering every primitive.
func extent(prims []Primitive) Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(x0, y0, x1, y1 float64) {
		minX, minY = min(minX, x0), min(minY, y0)
		maxX, maxY = max(maxX, x1), max(maxY, y1)
	}
	for _, p := range prims {
		switch p.Kind {
		case PrimTriangle:
			for i := 0; i+1 < len(p.Points); i += 2 {
				grow(p.Points[i], p.Points[i+1], p.Points[i], p.Points[i+1])
			}
		case PrimText:
			tw := TextWidth(p.Text, p.FontSize)
			grow(p.X-tw/2, p.Y-p.FontSize, p.X+tw/2, p.Y+p.FontSize)
		default:
			grow(p.X, p.Y, p.X+p.W, p.Y+p.H)
		}
	}
	if minX > maxX {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
