package mission

import "math/rand/v2"

type spawnBand struct {
	area  Rect
	intel string
}

var spawnBands = map[Variant]spawnBand{
	VariantShore: {
		area:  Rect{Vector2{80, CliffLine + 20}, Vector2{MapWidth - 80, WaterLine - 15}},
		intel: "Another suit just stepped onto the beach.",
	},
	VariantWater: {
		area:  Rect{Vector2{140, WaterLine + 30}, Vector2{MapWidth - 140, MapHeight - 50}},
		intel: "A pair of suits is floating offshore. Careful.",
	},
}

func (s *State) spawnPursuer(rng *rand.Rand) Pursuer {
	variant := VariantWater
	if rng.Float64() < ShoreSpawnChance {
		variant = VariantShore
	}
	band := spawnBands[variant]
	pos := Vector2{
		X: between(rng, band.area.Min.X, band.area.Max.X),
		Y: between(rng, band.area.Min.Y, band.area.Max.Y),
	}
	s.NextSuitID++
	return Pursuer{
		ID:         s.NextSuitID,
		Variant:    variant,
		Position:   pos,
		Heat:       between(rng, SuitMinHeat, SuitMaxSpawnHeat),
		Behavior:   BehaviorPatrol,
		StateTimer: PatrolMs,
		Anchor:     jitter(rng, pos, AnchorJitter),
	}
}

// spawnCheck runs the population timer. Threat shortens the wait in
// proportion to the elapsed time.
func (s *State) spawnCheck(deltaMs, now float64, rng *rand.Rand) {
	s.SuitSpawnTimer -= deltaMs + s.ThreatLevel*ThreatSpawnPerTick*(deltaMs/NominalFrameMs)
	if s.SuitSpawnTimer > 0 || len(s.Suits) >= MaxSuits {
		return
	}
	suit := s.spawnPursuer(rng)
	s.Suits = append(s.Suits, suit)
	s.SuitSpawnTimer = SpawnIntervalMs * between(rng, SpawnJitterMin, SpawnJitterMax)
	s.pushIntel(ToneAlert, spawnBands[suit.Variant].intel, now)
}
