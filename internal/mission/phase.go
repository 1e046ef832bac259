package mission

// finish moves the mission into a terminal phase.
func (s *State) finish(phase Phase, outcome Outcome, reason string) {
	s.Phase = phase
	s.Outcome = outcome
	s.Reason = reason
}

// checkLoss applies the loss conditions, clock first. It reports whether
// the mission ended.
func (s *State) checkLoss() bool {
	switch {
	case s.ClockMs <= 0:
		s.finish(PhaseLost, OutcomeTimeout, "The 15 days ran out before you recovered the phone.")
	case s.Player.Focus <= 0:
		s.finish(PhaseLost, OutcomeFocus, "The suits broke your focus. They closed in on you.")
	case s.Player.Integrity <= 0:
		s.finish(PhaseLost, OutcomeIntegrity, "The suits wore you down. You could not hold them off.")
	default:
		return false
	}
	return true
}
