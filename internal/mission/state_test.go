package mission

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

// TestNewState verifies the initial state of a mission
func TestNewState(t *testing.T) {
	tests := []struct {
		name       string
		handle     string
		wantPhase  Phase
		wantHandle string
	}{
		{"named handle", "A", PhaseRunning, "A"},
		{"padded handle", "  diver  ", PhaseRunning, "diver"},
		{"blank handle", "   ", PhaseIntro, DefaultHandle},
		{"empty handle", "", PhaseIntro, DefaultHandle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.handle, 0, 1)
			if s.Phase != tt.wantPhase {
				t.Errorf("Expected phase %s, got %s", tt.wantPhase, s.Phase)
			}
			if s.Profile.Handle != tt.wantHandle {
				t.Errorf("Expected handle %q, got %q", tt.wantHandle, s.Profile.Handle)
			}
			if s.Player.Name != tt.wantHandle {
				t.Errorf("Expected player name %q, got %q", tt.wantHandle, s.Player.Name)
			}
		})
	}
}

// TestNewStateDefaults checks vitals, clock and the opening briefing
func TestNewStateDefaults(t *testing.T) {
	s := New("A", 0, 42)

	if s.ClockMs != MissionDurationMs || s.TotalDurationMs != MissionDurationMs {
		t.Errorf("Expected full clock, got %v/%v", s.ClockMs, s.TotalDurationMs)
	}
	if s.DayIndex != 1 {
		t.Errorf("Expected day 1, got %d", s.DayIndex)
	}
	if s.Player.Position != (Vector2{PlayerSpawnX, PlayerSpawnY}) {
		t.Errorf("Unexpected spawn %+v", s.Player.Position)
	}
	for name, v := range map[string]float64{
		"stamina": s.Player.Stamina, "focus": s.Player.Focus,
		"integrity": s.Player.Integrity, "gadget": s.Player.GadgetCharge,
	} {
		if v != VitalMax {
			t.Errorf("Expected %s %v, got %v", name, VitalMax, v)
		}
	}
	if s.SuitSpawnTimer != SpawnTimerInitial {
		t.Errorf("Expected spawn timer %v, got %v", SpawnTimerInitial, s.SuitSpawnTimer)
	}
	if len(s.Suits) != 0 || len(s.Pulses) != 0 {
		t.Error("Expected no suits or pulses at start")
	}
	if len(s.Intel) != 2 {
		t.Fatalf("Expected 2 intel messages, got %d", len(s.Intel))
	}
	if s.Intel[0].Tone != ToneIntel || s.Intel[1].Tone != ToneAlert {
		t.Errorf("Unexpected opening tones %s, %s", s.Intel[0].Tone, s.Intel[1].Tone)
	}
	if s.Intel[0].ID <= s.Intel[1].ID {
		t.Error("Intel should be newest first")
	}
	if s.Sector != "north-dunes" {
		t.Errorf("Expected spawn sector north-dunes, got %q", s.Sector)
	}
}

// TestDevicePlacement verifies the device lands inside its band
func TestDevicePlacement(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		d := New("A", 0, seed).Device
		if d.Position.X < 160 || d.Position.X >= MapWidth-160 {
			t.Fatalf("seed %d: device x %v out of band", seed, d.Position.X)
		}
		if d.Position.Y < WaterLine-30 || d.Position.Y >= WaterLine+90 {
			t.Fatalf("seed %d: device y %v out of band", seed, d.Position.Y)
		}
		if d.RevealHint < 0.18 || d.RevealHint >= 0.4 {
			t.Fatalf("seed %d: reveal hint %v out of range", seed, d.RevealHint)
		}
		if d.Located || d.Retrieved || d.Delivered {
			t.Fatalf("seed %d: device flags should start false", seed)
		}
	}
}

// TestStructureQuotas verifies the scenery archetype counts
func TestStructureQuotas(t *testing.T) {
	s := New("A", 0, 9)
	counts := map[StructureKind]int{}
	for _, st := range s.Structures {
		counts[st.Kind]++
	}
	want := map[StructureKind]int{
		StructureRock: 6, StructureLifeguard: 2, StructureFlag: 3, StructureBuoy: 4, StructureDriftwood: 4,
	}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("Expected quotas %v, got %v", want, counts)
	}
}

// TestNewStateDeterministic verifies a seed fully determines the mission
func TestNewStateDeterministic(t *testing.T) {
	a, b := New("A", 0, 77), New("A", 0, 77)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("Same seed produced different states")
	}
	c := New("A", 0, 78)
	if a.Device == c.Device {
		t.Error("Different seeds produced the same device")
	}
}

// TestLaunch tests the intro -> running transition
func TestLaunch(t *testing.T) {
	s := New("", 0, 1)

	if _, err := Launch(s, "  "); !errors.Is(err, ErrHandleRequired) {
		t.Errorf("Expected ErrHandleRequired, got %v", err)
	}

	launched, err := Launch(s, " Noa ")
	if err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	if launched.Phase != PhaseRunning || launched.Profile.Handle != "Noa" {
		t.Errorf("Expected running as Noa, got %s as %q", launched.Phase, launched.Profile.Handle)
	}
	if s.Phase != PhaseIntro {
		t.Error("Launch modified its argument")
	}

	if _, err := Launch(launched, "again"); !errors.Is(err, ErrNotIntro) {
		t.Errorf("Expected ErrNotIntro, got %v", err)
	}
}

// TestIntroDoesNotAdvance verifies the clock stays put before launch
func TestIntroDoesNotAdvance(t *testing.T) {
	s := New("", 0, 1)
	next := Advance(s, Input{Right: true}, Actions{Scan: true}, 500, 500)
	if next.ClockMs != s.ClockMs || next.Player.Position != s.Player.Position {
		t.Error("Intro phase should not simulate")
	}
	if next.LastTimestamp != 500 {
		t.Errorf("Expected lastTimestamp 500, got %v", next.LastTimestamp)
	}
}

// TestIntelCapacity verifies the feed keeps the newest six entries
func TestIntelCapacity(t *testing.T) {
	s := New("A", 0, 1)
	for i := 0; i < 10; i++ {
		s.pushIntel(ToneIntel, "msg", float64(i))
	}
	if len(s.Intel) != IntelCapacity {
		t.Fatalf("Expected %d messages, got %d", IntelCapacity, len(s.Intel))
	}
	if s.Intel[0].ID != s.NextIntelID {
		t.Errorf("Expected newest id %d first, got %d", s.NextIntelID, s.Intel[0].ID)
	}
	for i := 1; i < len(s.Intel); i++ {
		if s.Intel[i].ID >= s.Intel[i-1].ID {
			t.Fatal("Intel not ordered newest first")
		}
	}
}

// TestStateJSON checks the wire names the presentation layer reads
func TestStateJSON(t *testing.T) {
	data, err := json.Marshal(New("A", 0, 3))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for _, key := range []string{"phase", "clockMs", "dayIndex", "suits", "pulses", "intel", "player", "device", "policeZone", "tideLevel", "threatLevel"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("Missing key %q", key)
		}
	}
	if _, ok := raw["scoreMs"]; ok {
		t.Error("scoreMs should be omitted while running")
	}
}
