package scene

import "github.com/constat/sketch/backend-go/internal/catalog"

// NewDefault returns the scene an editor opens with: the two parties' cars,
// car A selected and car B turned a quarter.
func NewDefault(canvas Size, density float64) Scene {
	carA := newElement(catalog.CarA, catalog.ScaledDefaults(catalog.CarA, density), Point{
		X: float64(catalog.Scale(100, density)),
		Y: float64(catalog.Scale(200, density)),
	})
	carB := newElement(catalog.CarB, catalog.ScaledDefaults(catalog.CarB, density), Point{
		X: float64(catalog.Scale(200, density)),
		Y: float64(catalog.Scale(250, density)),
	})
	carB.Rotation = 90

	return Scene{
		Elements:   []Element{carA, carB},
		SelectedID: carA.ID,
		Canvas:     canvas,
	}
}
