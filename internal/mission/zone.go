package mission

// Zone is a horizontal terrain band.
type Zone string

const (
	ZoneCliff Zone = "cliff"
	ZoneSand  Zone = "sand"
	ZoneWater Zone = "water"
)

// ZoneFor classifies a y coordinate. Boundaries belong to the upper band.
func ZoneFor(y float64) Zone {
	switch {
	case y <= CliffLine:
		return ZoneCliff
	case y <= WaterLine:
		return ZoneSand
	default:
		return ZoneWater
	}
}
