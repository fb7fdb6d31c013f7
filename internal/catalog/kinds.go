// Package catalog is the static registry of sketch element kinds: vehicles,
// road infrastructure and evidence markers, with their default geometry,
// color and stacking class.
package catalog

import (
	"errors"
	"fmt"
)

var ErrUnknownKind = errors.New("unknown element kind")

// Kind tags a catalog entry. The zero value is not a valid kind.
type Kind string

const (
	CarA       Kind = "car_a"
	CarB       Kind = "car_b"
	CarC       Kind = "car_c"
	Truck      Kind = "truck"
	Motorcycle Kind = "motorcycle"
	Bus        Kind = "bus"

	RoadStraight Kind = "road_straight"
	RoadCurve    Kind = "road_curve"
	Intersection Kind = "intersection"
	Roundabout   Kind = "roundabout"
	TrafficLight Kind = "traffic_light"
	StopSign     Kind = "stop_sign"

	Impact    Kind = "impact"
	Debris    Kind = "debris"
	SkidMarks Kind = "skid_marks"
)

// Class groups kinds by how they are drawn and where they appear in the
// add chooser.
type Class string

const (
	ClassVehicle        Class = "vehicle"
	ClassInfrastructure Class = "infrastructure"
	ClassEvidence       Class = "evidence"
)

var all = []Kind{
	CarA, CarB, CarC, Truck, Motorcycle, Bus,
	RoadStraight, RoadCurve, Intersection, Roundabout, TrafficLight, StopSign,
	Impact, Debris, SkidMarks,
}

// All returns every kind in chooser order.
func All() []Kind {
	out := make([]Kind, len(all))
	copy(out, all)
	return out
}

// Parse converts a wire tag into a Kind.
func Parse(s string) (Kind, error) {
	for _, k := range all {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// ClassFor returns the silhouette class of a kind.
func ClassFor(k Kind) Class {
	switch k {
	case CarA, CarB, CarC, Truck, Motorcycle, Bus:
		return ClassVehicle
	case RoadStraight, RoadCurve, Intersection, Roundabout, TrafficLight, StopSign:
		return ClassInfrastructure
	case Impact, Debris, SkidMarks:
		return ClassEvidence
	}
	panic(fmt.Sprintf("catalog: unknown kind %q", k))
}

// IsVehicle reports whether k is drawn with the compound vehicle shape.
func IsVehicle(k Kind) bool {
	return ClassFor(k) == ClassVehicle
}

// Group is one section of the add chooser.
type Group struct {
	Class Class   `json:"class"`
	Title string  `json:"title"`
	Items []Entry `json:"items"`
}

// Entry is one button in the add chooser.
type Entry struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Groups returns the add chooser layout: every kind, grouped by class.
func Groups() []Group {
	entries := func(kinds ...Kind) []Entry {
		out := make([]Entry, 0, len(kinds))
		for _, k := range kinds {
			d := BaseDefaults(k)
			out = append(out, Entry{Kind: k, Label: chooserLabel(k), Color: d.Color})
		}
		return out
	}
	return []Group{
		{Class: ClassVehicle, Title: "Vehicles", Items: entries(CarA, CarB, CarC, Truck, Motorcycle, Bus)},
		{Class: ClassInfrastructure, Title: "Roads & Infrastructure", Items: entries(RoadStraight, RoadCurve, Intersection, Roundabout, TrafficLight, StopSign)},
		{Class: ClassEvidence, Title: "Evidence", Items: entries(Impact, Debris, SkidMarks)},
	}
}

func chooserLabel(k Kind) string {
	if k == SkidMarks {
		return "Skids"
	}
	return BaseDefaults(k).Label
}
