package game

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"sea-game/internal/leaderboard"
	"sea-game/internal/mission"
)

func newTestEngine(handle string, hooks Hooks) *Engine {
	return NewEngine(Config{
		TickRate:   60,
		MaxDeltaMs: 250,
		Seed:       7,
		Handle:     handle,
		Log:        zerolog.Nop(),
		Hooks:      hooks,
	})
}

// TestNewEngine verifies engine creation with correct defaults
func TestNewEngine(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantRate  int
		wantPhase mission.Phase
	}{
		{"defaults filled in", Config{Log: zerolog.Nop()}, 60, mission.PhaseIntro},
		{"custom rate", Config{TickRate: 30, Log: zerolog.Nop()}, 30, mission.PhaseIntro},
		{"handle starts running", Config{Handle: "A", Seed: 3, Log: zerolog.Nop()}, 60, mission.PhaseRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(tt.cfg)
			if e.TickRate() != tt.wantRate {
				t.Errorf("TickRate() = %d, want %d", e.TickRate(), tt.wantRate)
			}
			if got := e.Snapshot().Phase; got != tt.wantPhase {
				t.Errorf("phase = %s, want %s", got, tt.wantPhase)
			}
		})
	}
}

// TestEngineStartStop verifies engine can start and stop without panics
func TestEngineStartStop(t *testing.T) {
	e := newTestEngine("A", Hooks{})

	e.Start()
	e.Start() // second start is a no-op
	time.Sleep(100 * time.Millisecond)
	e.Stop()

	if e.TickCount() == 0 {
		t.Error("expected ticks while running")
	}

	// Should not panic on double stop
	e.Stop()

	// Restartable
	e.Start()
	e.Stop()
}

func TestStepClampsDelta(t *testing.T) {
	tests := []struct {
		name    string
		delta   float64
		elapsed float64
	}{
		{"normal frame", 16, 16},
		{"backgrounded host", 60_000, 250},
		{"negative", -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine("A", Hooks{})
			s := e.Step(tt.delta)
			if got := mission.MissionDurationMs - s.ClockMs; got != tt.elapsed {
				t.Errorf("elapsed = %v, want %v", got, tt.elapsed)
			}
			if s.LastTimestamp != tt.elapsed {
				t.Errorf("host clock = %v, want %v", s.LastTimestamp, tt.elapsed)
			}
		})
	}
}

func TestTriggerActionFiresOnce(t *testing.T) {
	e := newTestEngine("A", Hooks{})
	before := len(e.Snapshot().Intel)

	// Spawn is on the sand, so a dive attempt is rejected with a message
	e.TriggerAction(mission.ActionToggleDive)
	e.TriggerAction(mission.ActionToggleDive)
	s := e.Step(16)
	if len(s.Intel) != before+1 {
		t.Fatalf("intel = %d entries, want %d", len(s.Intel), before+1)
	}
	if s.Intel[0].Tone != mission.ToneAlert {
		t.Errorf("tone = %s, want alert", s.Intel[0].Tone)
	}

	s = e.Step(16)
	if len(s.Intel) != before+1 {
		t.Errorf("latched action fired again: intel = %d entries", len(s.Intel))
	}
}

func TestSetInputIsHeld(t *testing.T) {
	e := newTestEngine("A", Hooks{})
	start := e.Snapshot().Player.Position

	e.SetInput(mission.Input{Right: true})
	e.Step(100)
	s := e.Step(100)

	want := start.X + 2*100*mission.PlayerWalkSpeed
	if diff := s.Player.Position.X - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("x = %v, want %v", s.Player.Position.X, want)
	}

	e.SetInput(mission.Input{})
	after := e.Step(100)
	if after.Player.Position != s.Player.Position {
		t.Error("player kept moving after keys were released")
	}
}

func TestLaunch(t *testing.T) {
	e := newTestEngine("", Hooks{})

	// Intro does not tick the clock
	if s := e.Step(100); s.ClockMs != mission.MissionDurationMs {
		t.Errorf("intro clock moved to %v", s.ClockMs)
	}

	if _, err := e.Launch("   "); !errors.Is(err, mission.ErrHandleRequired) {
		t.Errorf("blank handle err = %v", err)
	}

	s, err := e.Launch("  diver  ")
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if s.Phase != mission.PhaseRunning || s.Profile.Handle != "diver" {
		t.Errorf("got phase %s handle %q", s.Phase, s.Profile.Handle)
	}
	if e.Snapshot().Phase != mission.PhaseRunning {
		t.Error("snapshot not republished after launch")
	}

	if _, err := e.Launch("again"); !errors.Is(err, mission.ErrNotIntro) {
		t.Errorf("second launch err = %v", err)
	}
}

func TestResetKeepsHandleAndLeaderboard(t *testing.T) {
	e := newTestEngine("A", Hooks{})
	board := []leaderboard.Record{{ID: "1", Username: "fast", DurationMs: 1000, DayCount: 1}}
	e.SetLeaderboard(board)
	e.TriggerAction(mission.ActionScan)
	e.Step(16)
	e.Step(16)

	first := e.Snapshot().Seed
	s := e.Reset()

	if s.Phase != mission.PhaseRunning || s.Profile.Handle != "A" {
		t.Errorf("reset gave phase %s handle %q", s.Phase, s.Profile.Handle)
	}
	if s.Seed == first {
		t.Error("reset reused the previous seed")
	}
	if s.ClockMs != mission.MissionDurationMs {
		t.Errorf("clock = %v after reset", s.ClockMs)
	}
	if len(s.Leaderboard) != 1 || s.Leaderboard[0].Username != "fast" {
		t.Errorf("leaderboard not carried over: %+v", s.Leaderboard)
	}
}

func TestResetFromIntroStaysIntro(t *testing.T) {
	e := newTestEngine("", Hooks{})
	if s := e.Reset(); s.Phase != mission.PhaseIntro {
		t.Errorf("phase = %s, want intro", s.Phase)
	}
}

func TestSnapshotIsStable(t *testing.T) {
	e := newTestEngine("A", Hooks{})
	e.SetInput(mission.Input{Right: true})
	held := e.Snapshot()
	clock, pos := held.ClockMs, held.Player.Position

	for i := 0; i < 50; i++ {
		e.Step(16)
	}

	if held.ClockMs != clock || held.Player.Position != pos {
		t.Error("published snapshot changed after later ticks")
	}
	if e.Snapshot().ClockMs == clock {
		t.Error("engine did not publish new frames")
	}
}

func TestHooks(t *testing.T) {
	var ticks, ends int
	var actions []mission.Action
	e := NewEngine(Config{
		Seed:       11,
		Handle:     "A",
		MaxDeltaMs: mission.MissionDurationMs,
		Log:        zerolog.Nop(),
		Hooks: Hooks{
			OnTick:       func(time.Duration, mission.State) { ticks++ },
			OnAction:     func(a mission.Action) { actions = append(actions, a) },
			OnMissionEnd: func(mission.State) { ends++ },
		},
	})

	e.TriggerAction(mission.ActionScan)
	e.Step(16)
	if len(actions) != 1 || actions[0] != mission.ActionScan {
		t.Errorf("actions = %v", actions)
	}

	// Burn the whole countdown in one frame
	var s mission.State
	for i := 0; i < 3 && !s.Phase.Terminal(); i++ {
		s = e.Step(mission.MissionDurationMs)
	}
	if s.Phase != mission.PhaseLost {
		t.Fatalf("phase = %s, want lost", s.Phase)
	}
	e.Step(16)
	e.Step(16)

	if ends != 1 {
		t.Errorf("OnMissionEnd called %d times, want 1", ends)
	}
	if ticks < 3 {
		t.Errorf("OnTick called %d times", ticks)
	}
}

func TestConcurrentAccess(t *testing.T) {
	e := newTestEngine("A", Hooks{})
	e.Start()
	defer e.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				e.SetInput(mission.Input{Left: j%2 == 0, Right: j%2 == 1})
				e.TriggerAction(mission.AllActions[(i+j)%len(mission.AllActions)])
				s := e.Snapshot()
				_ = len(s.Suits) + len(s.Intel)
			}
		}(i)
	}
	wg.Wait()
}

func TestEngineWritesEventLog(t *testing.T) {
	path := t.TempDir() + "/events/mission.jsonl"
	e := newTestEngine("", Hooks{})
	if err := e.StartEventLog(path); err != nil {
		t.Fatalf("StartEventLog: %v", err)
	}

	if _, err := e.Launch("diver"); err != nil {
		t.Fatal(err)
	}
	e.TriggerAction(mission.ActionScan)
	e.Step(16)
	e.StopEventLog()

	events := readEvents(t, path)
	var types []string
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	if len(types) < 2 || types[0] != "launch" || types[1] != "action" {
		t.Errorf("event types = %v, want launch then action", types)
	}
	if stats := e.EventLogStats(); stats.Written != uint64(len(events)) {
		t.Errorf("stats written = %d, file has %d", stats.Written, len(events))
	}
}
