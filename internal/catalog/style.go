package catalog

import "fmt"

// Shape selects the outline a non-vehicle kind is drawn with.
type Shape string

const (
	ShapeRect    Shape = "rect"
	ShapeCircle  Shape = "circle"
	ShapeVehicle Shape = "vehicle"
)

// Edges selects which sides of the outline carry the border.
type Edges string

const (
	EdgesNone      Edges = "none"
	EdgesAll       Edges = "all"
	EdgesTopBottom Edges = "topBottom"
)

// ShapeStyle is the presentation metadata the render surface uses to pick a
// drawing strategy for a kind.
type ShapeStyle struct {
	Shape        Shape
	CornerRadius float64
	Edges        Edges
	BorderWidth  float64
	BorderColor  string
	SymbolColor  string
	SymbolSize   float64
}

// SymbolFor returns the short abbreviation drawn on a non-vehicle kind, or
// an empty string. Vehicles carry their label instead.
func SymbolFor(k Kind) string {
	switch k {
	case CarA, CarB, CarC, Truck, Motorcycle, Bus, RoadCurve:
		return ""
	case Impact:
		return "!"
	case Debris:
		return "#"
	case SkidMarks:
		return "~~~"
	case TrafficLight:
		return "TL"
	case StopSign:
		return "STOP"
	case RoadStraight:
		return "==="
	case Intersection:
		return "+"
	case Roundabout:
		return "O"
	}
	panic(fmt.Sprintf("catalog: unknown kind %q", k))
}

const (
	colorLaneYellow = "#facc15"
	colorWhite      = "#ffffff"
	colorAsphalt    = "#374151"
)

// StyleFor returns the shape style of a kind. CornerRadius is in pixels;
// circles ignore it.
func StyleFor(k Kind) ShapeStyle {
	symbol := ShapeStyle{SymbolColor: colorWhite, SymbolSize: 8}
	switch k {
	case CarA, CarB, CarC:
		return ShapeStyle{Shape: ShapeVehicle, CornerRadius: 8, Edges: EdgesAll, BorderWidth: 1}
	case Truck:
		return ShapeStyle{Shape: ShapeVehicle, CornerRadius: 6, Edges: EdgesAll, BorderWidth: 1}
	case Motorcycle:
		return ShapeStyle{Shape: ShapeVehicle, CornerRadius: 12, Edges: EdgesAll, BorderWidth: 1}
	case Bus:
		return ShapeStyle{Shape: ShapeVehicle, CornerRadius: 4, Edges: EdgesAll, BorderWidth: 1}
	case RoadStraight:
		symbol.SymbolColor = colorLaneYellow
		symbol.Shape, symbol.CornerRadius = ShapeRect, 6
		symbol.Edges, symbol.BorderWidth, symbol.BorderColor = EdgesTopBottom, 3, colorLaneYellow
		return symbol
	case RoadCurve:
		symbol.Shape = ShapeCircle
		symbol.Edges, symbol.BorderWidth, symbol.BorderColor = EdgesAll, 3, colorLaneYellow
		return symbol
	case Intersection:
		symbol.SymbolColor = colorLaneYellow
		symbol.Shape, symbol.CornerRadius, symbol.Edges = ShapeRect, 8, EdgesNone
		return symbol
	case Roundabout:
		symbol.Shape = ShapeCircle
		symbol.Edges, symbol.BorderWidth, symbol.BorderColor = EdgesAll, 8, colorLaneYellow
		return symbol
	case Impact:
		symbol.Shape = ShapeCircle
		symbol.Edges, symbol.BorderWidth, symbol.BorderColor = EdgesAll, 2, colorWhite
		return symbol
	case TrafficLight:
		symbol.Shape, symbol.CornerRadius = ShapeRect, 4
		symbol.Edges, symbol.BorderWidth, symbol.BorderColor = EdgesAll, 2, colorAsphalt
		return symbol
	case StopSign:
		symbol.SymbolSize = 6
		symbol.Shape, symbol.CornerRadius = ShapeRect, 4
		symbol.Edges, symbol.BorderWidth, symbol.BorderColor = EdgesAll, 2, colorWhite
		return symbol
	case Debris:
		symbol.Shape, symbol.CornerRadius, symbol.Edges = ShapeRect, 4, EdgesNone
		return symbol
	case SkidMarks:
		symbol.SymbolColor = colorLaneYellow
		symbol.Shape, symbol.CornerRadius, symbol.Edges = ShapeRect, 4, EdgesNone
		return symbol
	}
	panic(fmt.Sprintf("catalog: unknown kind %q", k))
}
