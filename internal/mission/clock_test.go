package mission

import "testing"

// TestZoneFor verifies the terrain bands and their boundaries
func TestZoneFor(t *testing.T) {
	tests := []struct {
		y    float64
		want Zone
	}{
		{0, ZoneCliff},
		{CliffLine, ZoneCliff},
		{CliffLine + 0.1, ZoneSand},
		{WaterLine, ZoneSand},
		{WaterLine + 0.1, ZoneWater},
		{MapHeight, ZoneWater},
	}
	for _, tt := range tests {
		if got := ZoneFor(tt.y); got != tt.want {
			t.Errorf("ZoneFor(%v): expected %s, got %s", tt.y, tt.want, got)
		}
	}
}

// TestDayIndex verifies the elapsed-ratio to day mapping
func TestDayIndex(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  int
	}{
		{"start", 0, 1},
		{"just over four days", 0.2667, 5},
		{"last moment", 0.999, 15},
		{"clock empty", 1, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := MissionDurationMs * (1 - tt.ratio)
			if got := DayIndex(clock, MissionDurationMs); got != tt.want {
				t.Errorf("Expected day %d, got %d", tt.want, got)
			}
		})
	}
}

// TestDayIndexMonotonic verifies days never go backwards as the clock runs
func TestDayIndexMonotonic(t *testing.T) {
	prev := 0
	for clock := MissionDurationMs; clock >= 0; clock -= 1000 {
		day := DayIndex(clock, MissionDurationMs)
		if day < prev {
			t.Fatalf("Day went backwards at clock %v: %d -> %d", clock, prev, day)
		}
		prev = day
	}
}

// TestTideLevel verifies the tide stays within its oscillation band
func TestTideLevel(t *testing.T) {
	for now := 0.0; now < 600000; now += 777 {
		tide := TideLevel(now)
		if tide < TideMean-TideAmplitude-1e-9 || tide > TideMean+TideAmplitude+1e-9 {
			t.Fatalf("Tide %v out of range at %v", tide, now)
		}
	}
	if TideLevel(0) != TideMean {
		t.Errorf("Expected tide %v at t=0, got %v", TideMean, TideLevel(0))
	}
}

// TestDayRolloverLogs verifies a new day is announced
func TestDayRolloverLogs(t *testing.T) {
	s := New("A", 0, 1)
	s.ClockMs = MissionDurationMs - MissionDurationMs/MaxDays + 10
	next := Advance(s, Input{}, Actions{}, 20, 20)
	if next.DayIndex != 2 {
		t.Fatalf("Expected day 2, got %d", next.DayIndex)
	}
	found := false
	for _, m := range next.Intel {
		if m.Text == "Day 2 of the search. The beach is getting tense." {
			found = true
		}
	}
	if !found {
		t.Error("Expected a day rollover message")
	}
}

// TestDivingDrainsFocus verifies the tide-scaled focus cost of diving
func TestDivingDrainsFocus(t *testing.T) {
	s := New("A", 0, 1)
	s.Player.Position = Vector2{500, 450}
	s.Player.InWater = true
	s.Player.Diving = true

	next := Advance(s, Input{}, Actions{}, 100, 0)
	want := VitalMax - DiveFocusDrainPerTide*TideLevel(0)*100
	if diff := next.Player.Focus - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected focus %v, got %v", want, next.Player.Focus)
	}
}
