package mission

import (
	"fmt"
	"math"
)

// TideLevel is a slow oscillation of the sea, independent of the countdown.
func TideLevel(now float64) float64 {
	return TideMean + TideAmplitude*math.Sin(now/TidePeriodMs)
}

// DayIndex maps the remaining clock to an in-world day in [1, MaxDays].
func DayIndex(clockMs, totalMs float64) int {
	ratio := 1.0
	if totalMs > 0 {
		ratio = 1 - clockMs/totalMs
	}
	day := int(math.Floor(ratio*MaxDays)) + 1
	if day < 1 {
		return 1
	}
	if day > MaxDays {
		return MaxDays
	}
	return day
}

// tickClock counts the mission clock down and rolls the day over.
func (s *State) tickClock(deltaMs, now float64) {
	s.ClockMs = math.Max(0, s.ClockMs-deltaMs)
	day := DayIndex(s.ClockMs, s.TotalDurationMs)
	if day != s.DayIndex {
		s.DayIndex = day
		s.pushIntel(ToneIntel, fmt.Sprintf("Day %d of the search. The beach is getting tense.", day), now)
	}
}

// updateTide refreshes the tide and charges divers for it.
func (s *State) updateTide(deltaMs, now float64) {
	s.TideLevel = TideLevel(now)
	if s.Player.Diving {
		s.Player.Focus = clamp(s.Player.Focus-DiveFocusDrainPerTide*s.TideLevel*deltaMs, 0, VitalMax)
	}
}
