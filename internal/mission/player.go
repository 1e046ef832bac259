package mission

import "math"

func newPlayer(name string) Player {
	return Player{
		Name:         name,
		Position:     Vector2{PlayerSpawnX, PlayerSpawnY},
		Stamina:      VitalMax,
		Focus:        VitalMax,
		Integrity:    VitalMax,
		GadgetCharge: VitalMax,
	}
}

// speed picks the movement speed for the terrain the player starts the
// tick on. Sprinting only helps while there is stamina left.
func (p Player) speed(sprint bool) float64 {
	var base float64
	switch {
	case p.Diving:
		base = PlayerDiveSpeed
	case ZoneFor(p.Position.Y) == ZoneWater:
		base = PlayerSwimSpeed
	default:
		base = PlayerWalkSpeed
	}
	if sprint && p.Stamina > 0 {
		base *= PlayerSprintFactor
	}
	return base
}

// movePlayer integrates one tick of player motion.
func movePlayer(prev Player, in Input, deltaMs float64) Player {
	next := prev
	dir := in.direction()
	moving := dir != (Vector2{})
	speed := prev.speed(in.Sprint)

	next.Position = clampToField(prev.Position.Add(dir.Scale(speed * deltaMs)))
	next.Velocity = prev.Velocity.Lerp(dir.Scale(speed), math.Min(1, deltaMs*PlayerVelocitySmooth))
	if moving {
		next.Heading = math.Atan2(dir.Y, dir.X)
	}

	next.InWater = ZoneFor(next.Position.Y) == ZoneWater
	if !next.InWater {
		next.Diving = false
	}

	if in.Sprint && moving && !next.InWater {
		next.Stamina -= PlayerStaminaDrain * deltaMs
	} else {
		next.Stamina += PlayerStaminaRegen * deltaMs
	}
	next.Stamina = clamp(next.Stamina, 0, VitalMax)

	next.ScanCooldown = math.Max(0, prev.ScanCooldown-deltaMs)
	next.StrikeCooldown = math.Max(0, prev.StrikeCooldown-deltaMs)
	next.GadgetCharge = math.Min(VitalMax, prev.GadgetCharge+GadgetRegenPerMs*deltaMs)
	return next
}
