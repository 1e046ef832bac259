package mission

// strike stuns every free pursuer within reach.
func (s *State) strike(now float64) {
	if s.Player.StrikeCooldown > 0 {
		return
	}
	s.Player.StrikeCooldown = StrikeCooldownMs

	hits := 0
	for i := range s.Suits {
		p := &s.Suits[i]
		if p.StunnedMs > 0 || Distance(p.Position, s.Player.Position) > StrikeRadius {
			continue
		}
		p.StunnedMs = StunDurationMs
		p.Velocity = Vector2{}
		p.Heat = clamp(p.Heat+StrikeHeat, 0, MaxHeat)
		hits++
	}

	switch {
	case hits > 1:
		s.pushIntel(ToneSuccess, "You shoved off several suits at once!", now)
	case hits == 1:
		s.pushIntel(ToneSuccess, "One suit staggers back. Keep moving.", now)
	}
}

// applyExposure drains the player for every alert pursuer in range.
// It runs after pursuers move so it sees their new positions.
func (s *State) applyExposure(deltaMs float64) {
	for _, p := range s.Suits {
		if p.StunnedMs > 0 || Distance(p.Position, s.Player.Position) > DetectionRadius {
			continue
		}
		s.Player.Focus = clamp(s.Player.Focus-ExposureFocusPerMs*deltaMs, 0, VitalMax)
		s.Player.Integrity = clamp(s.Player.Integrity-ExposureIntegrityPerMs*deltaMs, 0, VitalMax)
		s.ThreatLevel = clamp(s.ThreatLevel+ExposureThreatPerMs*deltaMs, 0, MaxThreat)
	}
}
