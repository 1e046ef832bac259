package mission

import "math/rand/v2"

// Advance computes the next frame. It is a pure function of its arguments:
// s is never modified and the result shares no mutable memory with it.
//
// The stage order matters. Later stages read what earlier ones wrote, so
// for example exposure sees pursuers at their post-move positions and a
// scan sees the day index of the current tick.
func Advance(s State, in Input, act Actions, deltaMs, now float64) State {
	next := s.clone()
	next.Pulses = decayPulses(s.Pulses, deltaMs)
	next.LastTimestamp = now
	if next.Phase != PhaseRunning {
		return next
	}
	rng := rand.New(&next.RNG)

	next.Player = movePlayer(next.Player, in, deltaMs)
	next.enterSector(now)
	next.tickClock(deltaMs, now)
	if next.checkLoss() {
		return next
	}

	next.applyActions(act, now)
	if next.Phase != PhaseRunning {
		return next
	}
	next.resolvePickup(now)
	next.updateTide(deltaMs, now)
	next.updatePursuers(deltaMs, rng)
	next.applyExposure(deltaMs)
	next.spawnCheck(deltaMs, now, rng)
	next.passiveReveal(now)
	next.deliveryHint(now)
	return next
}
