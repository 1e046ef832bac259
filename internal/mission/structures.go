package mission

import "math/rand/v2"

// StructureKind names a decoration archetype.
type StructureKind string

const (
	StructureRock      StructureKind = "rock"
	StructureLifeguard StructureKind = "lifeguard"
	StructureFlag      StructureKind = "flag"
	StructureBuoy      StructureKind = "buoy"
	StructureDriftwood StructureKind = "driftwood"
)

// Structure is static scenery. No gameplay rule reads it.
type Structure struct {
	ID       int           `json:"id"`
	Kind     StructureKind `json:"kind"`
	Position Vector2       `json:"position"`
	Size     float64       `json:"size"`
	Height   float64       `json:"height"`
}

type archetype struct {
	kind           StructureKind
	count          int
	area           Rect
	sizeLo, sizeHi float64
	hLo, hHi       float64
}

var archetypes = []archetype{
	{StructureRock, 6, Rect{Vector2{80, CliffLine + 40}, Vector2{MapWidth - 80, WaterLine + 30}}, 18, 36, 30, 60},
	{StructureLifeguard, 2, Rect{Vector2{120, CliffLine + 10}, Vector2{MapWidth - 120, CliffLine + 80}}, 38, 44, 90, 110},
	{StructureFlag, 3, Rect{Vector2{120, WaterLine - 40}, Vector2{MapWidth - 120, WaterLine + 40}}, 8, 12, 120, 160},
	{StructureBuoy, 4, Rect{Vector2{160, WaterLine + 20}, Vector2{MapWidth - 160, MapHeight - 60}}, 10, 14, 30, 45},
	{StructureDriftwood, 4, Rect{Vector2{60, WaterLine - 50}, Vector2{MapWidth - 60, WaterLine + 70}}, 28, 60, 10, 20},
}

func generateStructures(rng *rand.Rand) []Structure {
	out := make([]Structure, 0, 19)
	id := 0
	for _, a := range archetypes {
		for range a.count {
			id++
			out = append(out, Structure{
				ID:   id,
				Kind: a.kind,
				Position: Vector2{
					X: between(rng, a.area.Min.X, a.area.Max.X),
					Y: between(rng, a.area.Min.Y, a.area.Max.Y),
				},
				Size:   between(rng, a.sizeLo, a.sizeHi),
				Height: between(rng, a.hLo, a.hHi),
			})
		}
	}
	return out
}
