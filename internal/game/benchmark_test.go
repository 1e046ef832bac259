package game

import (
	"testing"

	"github.com/rs/zerolog"

	"sea-game/internal/mission"
)

// =============================================================================
// BENCHMARK SUITE: CRITICAL PATH PERFORMANCE TESTS
// Run with: go test -bench=. -benchmem ./internal/game/...
// =============================================================================

// -----------------------------------------------------------------------------
// ENGINE TICK BENCHMARKS
// -----------------------------------------------------------------------------

func BenchmarkEngineStep(b *testing.B) {
	e := NewEngine(Config{Seed: 1, Handle: "bench", MaxDeltaMs: 250, Log: zerolog.Nop()})
	e.SetInput(mission.Input{Right: true})

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if e.Snapshot().Phase.Terminal() {
			b.StopTimer()
			e.Reset()
			b.StartTimer()
		}
		e.Step(16)
	}
}

// -----------------------------------------------------------------------------
// CORE ADVANCE BENCHMARKS (population scaling)
// -----------------------------------------------------------------------------

func BenchmarkAdvance_0Suits(b *testing.B)  { benchmarkAdvance(b, 0) }
func BenchmarkAdvance_7Suits(b *testing.B)  { benchmarkAdvance(b, 7) }
func BenchmarkAdvance_14Suits(b *testing.B) { benchmarkAdvance(b, mission.MaxSuits) }

func benchmarkAdvance(b *testing.B, suits int) {
	s := mission.New("bench", 0, 1)
	for i := 0; i < suits; i++ {
		s.Suits = append(s.Suits, mission.Pursuer{
			ID:       i + 1,
			Variant:  mission.VariantShore,
			Position: mission.Vector2{X: float64(100 + 50*i), Y: 250},
			Behavior: mission.BehaviorPatrol,
			Anchor:   mission.Vector2{X: float64(100 + 50*i), Y: 250},
			Heat:     0.3,
		})
	}
	in := mission.Input{Left: true}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		// Always advance from the same frame so the population stays fixed
		_ = mission.Advance(s, in, mission.Actions{}, 16, float64(i)*16)
	}
}

// -----------------------------------------------------------------------------
// AUTOPILOT BENCHMARKS
// -----------------------------------------------------------------------------

func BenchmarkAutopilotDecide(b *testing.B) {
	s := mission.New("bench", 0, 1)
	for i := 0; i < mission.MaxSuits; i++ {
		s.Suits = append(s.Suits, mission.Pursuer{ID: i + 1, Position: mission.Vector2{X: float64(60 * i), Y: 240}})
	}
	pilot := NewAutopilot()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pilot.Decide(s)
	}
}

func BenchmarkEventLogEmit(b *testing.B) {
	el := NewEventLog(zerolog.Nop())
	if err := el.Start(""); err != nil {
		b.Fatal(err)
	}
	defer el.Stop()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		el.EmitSimple(EventTypeDay, uint64(i), "", DayPayload{Day: i % mission.MaxDays})
	}
	b.StopTimer()
	b.Logf("%+v", el.Stats())
}
