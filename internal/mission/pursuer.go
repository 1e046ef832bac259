package mission

import (
	"math"
	"math/rand/v2"
)

// Variant is the band a pursuer was spawned into.
type Variant string

const (
	VariantShore Variant = "shore"
	VariantWater Variant = "water"
)

// Behavior is the pursuer state machine:
// patrol -> chase -> investigate -> recover -> patrol.
type Behavior string

const (
	BehaviorPatrol      Behavior = "patrol"
	BehaviorChase       Behavior = "chase"
	BehaviorInvestigate Behavior = "investigate"
	BehaviorRecover     Behavior = "recover"
)

// Pursuer is one suit on the beach.
type Pursuer struct {
	ID         int      `json:"id"`
	Variant    Variant  `json:"variant"`
	Position   Vector2  `json:"position"`
	Velocity   Vector2  `json:"velocity"`
	StunnedMs  float64  `json:"stunnedMs"`
	Heat       float64  `json:"heat"` // [0, MaxHeat], raises speed
	Behavior   Behavior `json:"behavior"`
	StateTimer float64  `json:"stateTimer"`
	Anchor     Vector2  `json:"anchor"`
	// LastKnown is replaced, never written through.
	LastKnown *Vector2 `json:"lastKnownPlayer,omitempty"`
}

// DetectionRange is how far pursuers notice the player.
func DetectionRange(carrying bool) float64 {
	if carrying {
		return DetectionRadius * CarryDetectionFactor
	}
	return DetectionRadius
}

// think runs the behaviour transitions and steers the velocity toward the
// current target.
func think(p Pursuer, player Player, tide, deltaMs float64, rng *rand.Rand) Pursuer {
	if Distance(p.Position, player.Position) <= DetectionRange(player.CarryingDevice) {
		p.Behavior = BehaviorChase
		p.StateTimer = ChaseMemoryMs
		seen := player.Position
		p.LastKnown = &seen
	} else if p.Behavior == BehaviorChase && p.LastKnown != nil {
		p.Behavior = BehaviorInvestigate
		p.StateTimer = InvestigateMs
	} else if p.StateTimer <= 0 {
		switch p.Behavior {
		case BehaviorRecover, BehaviorInvestigate:
			p.Behavior = BehaviorPatrol
			p.StateTimer = PatrolMs
			p.Anchor = jitter(rng, p.Position, AnchorJitter)
		default:
			p.Behavior = BehaviorRecover
			p.StateTimer = RecoverMs
		}
	}

	target := p.Anchor
	accel := WanderAccel
	switch p.Behavior {
	case BehaviorChase:
		target = player.Position
		accel = ChaseAccel
	case BehaviorInvestigate:
		if p.LastKnown != nil {
			target = *p.LastKnown
		} else {
			p.Anchor = jitter(rng, p.Position, AnchorJitter)
			target = p.Anchor
		}
	}

	dir := target.Sub(p.Position).Normalize()
	p.Velocity = p.Velocity.Add(clampAxis(dir, accel*deltaMs))
	if p.Behavior == BehaviorChase {
		p.Velocity = p.Velocity.Add(dir.Scale(tide * ChaseTideNudge * deltaMs / NominalFrameMs))
	}
	p.StateTimer = math.Max(0, p.StateTimer-deltaMs)
	return p
}

// speedLimit caps a pursuer's speed from its variant, heat and mood.
func (p Pursuer) speedLimit(carrying bool, tide float64) float64 {
	variant := 1.0
	if p.Variant == VariantWater {
		variant = WaterVariantFactor
	}
	boost := 1 + p.Heat*SuitHeatSpeedFactor
	if carrying {
		boost += SuitCarrySpeedBonus
	}
	limit := math.Min(SuitMaxSpeed, SuitBaseSpeed*variant*boost)
	switch p.Behavior {
	case BehaviorRecover:
		limit *= RecoverSpeedScale
	case BehaviorChase:
		limit += tide * ChaseTideSpeedCap
	}
	return limit
}

// stepPursuer advances one agent by a tick. Stunned agents stand still.
func stepPursuer(p Pursuer, player Player, tide, deltaMs float64, rng *rand.Rand) Pursuer {
	if p.StunnedMs > 0 {
		p.StunnedMs = math.Max(0, p.StunnedMs-deltaMs)
		p.Velocity = Vector2{}
		return p
	}
	p = think(p, player, tide, deltaMs, rng)
	p.Velocity = p.Velocity.ClampLength(p.speedLimit(player.CarryingDevice, tide))
	p.Position = clampToField(p.Position.Add(p.Velocity.Scale(deltaMs)))
	p.Heat = clamp(p.Heat+SuitHeatGainPerMs*deltaMs, 0, MaxHeat)
	return p
}

// updatePursuers moves every agent and drops the ones that climbed off the
// beach. s.Suits is already a private copy, so it is filtered in place.
func (s *State) updatePursuers(deltaMs float64, rng *rand.Rand) {
	n := 0
	for _, p := range s.Suits {
		p = stepPursuer(p, s.Player, s.TideLevel, deltaMs, rng)
		if p.Position.Y < CliffLine-CullOvershoot {
			continue
		}
		s.Suits[n] = p
		n++
	}
	s.Suits = s.Suits[:n]
}
