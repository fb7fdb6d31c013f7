package catalog

import (
	"fmt"
	"math"
)

const (
	// ReferenceWidth is the logical screen width the base sizes were drawn for.
	ReferenceWidth = 390.0

	MinDensity = 0.75
	MaxDensity = 1.0

	// MinDimension floors every scaled width and height.
	MinDimension = 10
)

// Defaults are the immutable attributes a new element takes from its kind.
type Defaults struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  string `json:"color"`
	Label  string `json:"label"`
	ZOrder int    `json:"zOrder"`
}

// BaseDefaults returns the unscaled defaults of a kind.
func BaseDefaults(k Kind) Defaults {
	switch k {
	case CarA:
		return Defaults{Width: 80, Height: 40, Color: "#dc2626", Label: "Car A", ZOrder: 10}
	case CarB:
		return Defaults{Width: 80, Height: 40, Color: "#2563eb", Label: "Car B", ZOrder: 10}
	case CarC:
		return Defaults{Width: 80, Height: 40, Color: "#16a34a", Label: "Car C", ZOrder: 10}
	case Truck:
		return Defaults{Width: 100, Height: 50, Color: "#ea580c", Label: "Truck", ZOrder: 10}
	case Motorcycle:
		return Defaults{Width: 60, Height: 30, Color: "#7c3aed", Label: "Motorcycle", ZOrder: 10}
	case Bus:
		return Defaults{Width: 120, Height: 55, Color: "#f59e0b", Label: "Bus", ZOrder: 10}
	case RoadStraight:
		return Defaults{Width: 280, Height: 50, Color: "#374151", Label: "Road", ZOrder: 1}
	case RoadCurve:
		return Defaults{Width: 100, Height: 100, Color: "#374151", Label: "Curve", ZOrder: 1}
	case Intersection:
		return Defaults{Width: 120, Height: 120, Color: "#374151", Label: "Intersection", ZOrder: 1}
	case Roundabout:
		return Defaults{Width: 100, Height: 100, Color: "#374151", Label: "Roundabout", ZOrder: 1}
	case TrafficLight:
		return Defaults{Width: 25, Height: 60, Color: "#1f2937", Label: "Traffic Light", ZOrder: 7}
	case StopSign:
		return Defaults{Width: 35, Height: 35, Color: "#dc2626", Label: "Stop Sign", ZOrder: 7}
	case Impact:
		return Defaults{Width: 35, Height: 35, Color: "#ef4444", Label: "Impact", ZOrder: 8}
	case Debris:
		return Defaults{Width: 30, Height: 20, Color: "#78716c", Label: "Debris", ZOrder: 5}
	case SkidMarks:
		return Defaults{Width: 90, Height: 15, Color: "#1f2937", Label: "Skid Marks", ZOrder: 3}
	}
	panic(fmt.Sprintf("catalog: unknown kind %q", k))
}

// DensityFactor derives the device scale from the host's logical width.
func DensityFactor(logicalWidth float64) float64 {
	return math.Min(MaxDensity, math.Max(MinDensity, logicalWidth/ReferenceWidth))
}

// Scale applies the density factor to a single base length.
func Scale(v, density float64) int {
	return max(MinDimension, int(math.Round(v*density)))
}

// ScaledDefaults returns the defaults of k with width and height scaled by
// density.
func ScaledDefaults(k Kind, density float64) Defaults {
	d := BaseDefaults(k)
	d.Width = Scale(float64(d.Width), density)
	d.Height = Scale(float64(d.Height), density)
	return d
}
