package mission

import (
	"fmt"
	"math"
)

// applyActions resolves this tick's one-shot actions in a fixed order.
func (s *State) applyActions(act Actions, now float64) {
	if act.Strike {
		s.strike(now)
	}
	if act.Scan {
		s.scan(now)
	}
	if act.ToggleDive {
		s.toggleDive(now)
	}
	if act.SonarPing {
		s.sonarPing(now)
	}
	if act.Interact {
		s.interact(now)
	}
}

func (s *State) emitPulse(kind PulseKind, now float64) {
	s.NextPulseID++
	s.Pulses = append(s.Pulses, Pulse{
		ID:       s.NextPulseID,
		Position: s.Player.Position,
		Radius:   PulseStartRadius,
		Strength: 1,
		Kind:     kind,
		BornAt:   now,
	})
}

// decayPulses grows and fades every pulse, dropping spent ones.
// It returns a new slice.
func decayPulses(pulses []Pulse, deltaMs float64) []Pulse {
	out := make([]Pulse, 0, len(pulses))
	for _, p := range pulses {
		p.Radius += PulseGrowthPerMs * deltaMs
		p.Strength -= PulseFadePerMs * deltaMs
		if p.Strength <= 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// scanRange is wider up to and including DeviceUnlockDay.
func (s *State) scanRange() float64 {
	if s.DayIndex <= DeviceUnlockDay {
		return ScanRadius * ScanEarlyBonus
	}
	return ScanRadius
}

func (s *State) scan(now float64) {
	if s.Player.ScanCooldown > 0 {
		return
	}
	if ZoneFor(s.Player.Position.Y) != ZoneSand || s.Player.Diving {
		s.pushIntel(ToneAlert, "The scanner only works on the sand. Get closer to the waterline.", now)
		return
	}
	s.Player.ScanCooldown = ScanCooldownMs
	s.emitPulse(PulseScan, now)

	dist := Distance(s.Player.Position, s.Device.Position)
	switch {
	case dist <= s.scanRange():
		s.Device.Located = true
		s.pushIntel(ToneSuccess, "You decoded the phone's trace! Keep under cover.", now)
	case dist < ScanWarmDistance:
		s.pushIntel(ToneIntel, "Partial signal. You're warm!", now)
	default:
		s.pushIntel(ToneIntel, "Still no contact. Try scanning another stretch.", now)
	}
}

func (s *State) toggleDive(now float64) {
	if !s.Player.InWater {
		s.pushIntel(ToneAlert, "You need to be in the sea to dive.", now)
		return
	}
	s.Player.Diving = !s.Player.Diving
	if s.Player.Diving {
		s.pushIntel(ToneIntel, "Dive started. Watch for suits under the surface.", now)
	} else {
		s.pushIntel(ToneIntel, "Back at the surface.", now)
	}
}

func (s *State) sonarPing(now float64) {
	if s.Player.GadgetCharge < PingCost {
		s.pushIntel(ToneAlert, "The drone needs to recharge.", now)
		return
	}
	s.Player.GadgetCharge -= PingCost
	s.emitPulse(PulsePing, now)

	offset := s.Device.Position.Sub(s.Player.Position)
	bearing := math.Atan2(offset.Y, offset.X) * 180 / math.Pi
	if offset.Length() < PingStrongDistance {
		s.pushIntel(ToneSuccess, fmt.Sprintf("Strong echo at bearing %.0f°", bearing), now)
	} else {
		s.pushIntel(ToneIntel, fmt.Sprintf("Weak echo at bearing %.0f°", bearing), now)
	}
}

func (s *State) interact(now float64) {
	if !s.Player.CarryingDevice {
		s.pushIntel(ToneAlert, "Nothing to hand over. Find the phone first.", now)
		return
	}
	offset := s.PoliceZone.Position.Sub(s.Player.Position)
	if offset.Length() > s.PoliceZone.Radius {
		s.pushIntel(ToneAlert, fmt.Sprintf("The police station is to the %s. Keep moving.", compass(offset)), now)
		return
	}
	s.Device.Delivered = true
	s.Player.CarryingDevice = false
	s.finish(PhaseWon, OutcomeDelivered, "You handed the phone to the police. Mission complete!")
	s.ScoreMs = s.TotalDurationMs - s.ClockMs
	s.pushIntel(ToneSuccess, "Delivered! The police have the phone.", now)
}

// resolvePickup picks the device up once it is located and within reach.
func (s *State) resolvePickup(now float64) {
	d := s.Device
	if !d.Located || d.Retrieved {
		return
	}
	reach := CaptureRadius
	if d.Depth == DepthReef {
		reach += ReefCaptureBonus
	}
	if Distance(s.Player.Position, d.Position) > reach {
		return
	}
	s.Device.Retrieved = true
	s.Player.CarryingDevice = true
	s.pushIntel(ToneSuccess, "The phone is in your hands! Head for the police station.", now)
}

// passiveReveal exposes the device as time runs on, or to a diver close
// to a reef hiding spot.
func (s *State) passiveReveal(now float64) {
	if s.Device.Located {
		return
	}
	if s.ElapsedRatio() >= s.Device.RevealHint {
		s.Device.Located = true
		s.pushIntel(ToneIntel, "The sea gave up the courier's buoy. Time for a careful scan.", now)
		return
	}
	if s.Player.Diving && s.Device.Depth == DepthReef &&
		Distance(s.Player.Position, s.Device.Position) <= ReefSpotDistance {
		s.Device.Located = true
		s.pushIntel(ToneSuccess, "Something glints on the reef below you.", now)
	}
}

// deliveryHint fires once when a carrying player steps into the zone.
func (s *State) deliveryHint(now float64) {
	inside := Distance(s.Player.Position, s.PoliceZone.Position) <= s.PoliceZone.Radius
	if inside && !s.AtPoliceZone && s.Player.CarryingDevice {
		s.pushIntel(ToneSuccess, "You're at the police station. Interact to hand over the phone.", now)
	}
	s.AtPoliceZone = inside
}

var compassPoints = [8]string{"east", "north-east", "north", "north-west", "west", "south-west", "south", "south-east"}

// compass names the 8-point direction of a screen-space offset (y down).
func compass(offset Vector2) string {
	deg := math.Atan2(-offset.Y, offset.X) * 180 / math.Pi
	idx := int(math.Round(deg/45)) % 8
	if idx < 0 {
		idx += 8
	}
	return compassPoints[idx]
}
