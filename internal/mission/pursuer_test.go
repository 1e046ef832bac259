package mission

import (
	"math/rand/v2"
	"testing"
)

func testRNG() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

// TestPursuerTransitions verifies the patrol/chase/investigate/recover cycle
func TestPursuerTransitions(t *testing.T) {
	player := newPlayer("A")
	near := player.Position.Add(Vector2{30, 0})
	far := player.Position.Add(Vector2{300, 0})
	seen := player.Position

	tests := []struct {
		name      string
		in        Pursuer
		carrying  bool
		wantState Behavior
		wantTimer float64
	}{
		{"patrol spots player", Pursuer{Position: near, Behavior: BehaviorPatrol, StateTimer: 500}, false, BehaviorChase, ChaseMemoryMs},
		{"carrying widens detection", Pursuer{Position: player.Position.Add(Vector2{70, 0}), Behavior: BehaviorPatrol, StateTimer: 500}, true, BehaviorChase, ChaseMemoryMs},
		{"no carry, out of range", Pursuer{Position: player.Position.Add(Vector2{70, 0}), Behavior: BehaviorPatrol, StateTimer: 500}, false, BehaviorPatrol, 500},
		{"chase loses player", Pursuer{Position: far, Behavior: BehaviorChase, StateTimer: 900, LastKnown: &seen}, false, BehaviorInvestigate, InvestigateMs},
		{"investigate expires", Pursuer{Position: far, Behavior: BehaviorInvestigate, LastKnown: &seen}, false, BehaviorPatrol, PatrolMs},
		{"patrol expires", Pursuer{Position: far, Behavior: BehaviorPatrol}, false, BehaviorRecover, RecoverMs},
		{"recover expires", Pursuer{Position: far, Behavior: BehaviorRecover}, false, BehaviorPatrol, PatrolMs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := player
			p.CarryingDevice = tt.carrying
			got := think(tt.in, p, 0.5, 0, testRNG())
			if got.Behavior != tt.wantState {
				t.Errorf("Expected %s, got %s", tt.wantState, got.Behavior)
			}
			if got.StateTimer != tt.wantTimer {
				t.Errorf("Expected timer %v, got %v", tt.wantTimer, got.StateTimer)
			}
		})
	}
}

// TestPursuerChaseRemembersPlayer verifies the last-known snapshot
func TestPursuerChaseRemembersPlayer(t *testing.T) {
	player := newPlayer("A")
	p := think(Pursuer{Position: player.Position.Add(Vector2{10, 10}), Behavior: BehaviorPatrol}, player, 0.5, 16, testRNG())
	if p.LastKnown == nil || *p.LastKnown != player.Position {
		t.Fatalf("Expected last known %v, got %v", player.Position, p.LastKnown)
	}
}

// TestPursuerNewAnchor verifies a fresh patrol anchor stays near the agent
func TestPursuerNewAnchor(t *testing.T) {
	player := newPlayer("A")
	rng := testRNG()
	start := Vector2{600, 420}
	for i := 0; i < 100; i++ {
		p := think(Pursuer{Position: start, Behavior: BehaviorRecover}, player, 0.5, 0, rng)
		d := p.Anchor.Sub(start)
		if d.X < -AnchorJitter || d.X > AnchorJitter || d.Y < -AnchorJitter || d.Y > AnchorJitter {
			t.Fatalf("Anchor %v too far from %v", p.Anchor, start)
		}
	}
}

// TestPursuerSpeedLimit verifies the speed cap rules
func TestPursuerSpeedLimit(t *testing.T) {
	base := Pursuer{Variant: VariantShore, Behavior: BehaviorPatrol}
	if got := base.speedLimit(false, 0.5); got != SuitBaseSpeed {
		t.Errorf("Expected base speed %v, got %v", SuitBaseSpeed, got)
	}

	hot := Pursuer{Variant: VariantShore, Behavior: BehaviorPatrol, Heat: MaxHeat}
	if got := hot.speedLimit(true, 0.5); got != SuitMaxSpeed {
		t.Errorf("Expected capped speed %v, got %v", SuitMaxSpeed, got)
	}

	water := Pursuer{Variant: VariantWater, Behavior: BehaviorPatrol}
	if got := water.speedLimit(false, 0.5); got >= SuitBaseSpeed {
		t.Errorf("Expected water variant slower than %v, got %v", SuitBaseSpeed, got)
	}

	tired := Pursuer{Variant: VariantShore, Behavior: BehaviorRecover}
	if got := tired.speedLimit(false, 0.5); got != SuitBaseSpeed*RecoverSpeedScale {
		t.Errorf("Expected recover speed %v, got %v", SuitBaseSpeed*RecoverSpeedScale, got)
	}

	chasing := Pursuer{Variant: VariantShore, Behavior: BehaviorChase}
	if got := chasing.speedLimit(false, 0.8); got <= SuitBaseSpeed {
		t.Errorf("Expected tide bonus while chasing, got %v", got)
	}
}

// TestStepPursuerStunned verifies stunned agents freeze and count down
func TestStepPursuerStunned(t *testing.T) {
	p := Pursuer{Position: Vector2{500, 250}, Velocity: Vector2{0.05, 0}, StunnedMs: 300, Behavior: BehaviorChase}
	got := stepPursuer(p, newPlayer("A"), 0.5, 100, testRNG())
	if got.StunnedMs != 200 {
		t.Errorf("Expected stun 200, got %v", got.StunnedMs)
	}
	if got.Position != p.Position || got.Velocity != (Vector2{}) {
		t.Error("Stunned pursuer moved")
	}
}

// TestStepPursuerHeat verifies heat builds with time and stays bounded
func TestStepPursuerHeat(t *testing.T) {
	p := Pursuer{Position: Vector2{500, 250}, Behavior: BehaviorPatrol, StateTimer: 1e9, Anchor: Vector2{500, 250}, Heat: 0.5}
	got := stepPursuer(p, newPlayer("A"), 0.5, 1000, testRNG())
	if got.Heat <= p.Heat {
		t.Errorf("Expected heat to grow from %v, got %v", p.Heat, got.Heat)
	}
	p.Heat = MaxHeat
	if got := stepPursuer(p, newPlayer("A"), 0.5, 1000, testRNG()); got.Heat != MaxHeat {
		t.Errorf("Expected heat capped at %v, got %v", MaxHeat, got.Heat)
	}
}

// TestPursuersCulledAboveCliff verifies agents leaving over the cliff vanish
func TestPursuersCulledAboveCliff(t *testing.T) {
	s := runningMission(t)
	s.Suits = []Pursuer{
		{ID: 1, Position: Vector2{600, CliffLine - 18}, Behavior: BehaviorRecover, StateTimer: 1000, Anchor: Vector2{600, 0}},
		{ID: 2, Position: Vector2{600, 250}, Behavior: BehaviorRecover, StateTimer: 1000, Anchor: Vector2{600, 250}},
	}
	next := Advance(s, Input{}, Actions{}, 16, 16)
	if len(next.Suits) != 1 || next.Suits[0].ID != 2 {
		t.Fatalf("Expected only suit 2 to remain, got %+v", next.Suits)
	}
}

// TestSpawnCheck verifies the population timer and cap
func TestSpawnCheck(t *testing.T) {
	t.Run("spawns when timer expires", func(t *testing.T) {
		s := runningMission(t)
		s.SuitSpawnTimer = 1
		next := Advance(s, Input{}, Actions{}, 16, 16)
		if len(next.Suits) != 1 {
			t.Fatalf("Expected 1 suit, got %d", len(next.Suits))
		}
		suit := next.Suits[0]
		if suit.ID != 1 || suit.Behavior != BehaviorPatrol {
			t.Errorf("Unexpected spawn %+v", suit)
		}
		if suit.Heat < SuitMinHeat || suit.Heat >= SuitMaxSpawnHeat {
			t.Errorf("Spawn heat %v out of range", suit.Heat)
		}
		lo, hi := SpawnIntervalMs*SpawnJitterMin, SpawnIntervalMs*SpawnJitterMax
		if next.SuitSpawnTimer < lo || next.SuitSpawnTimer >= hi {
			t.Errorf("Spawn timer %v outside [%v, %v)", next.SuitSpawnTimer, lo, hi)
		}
		if next.Intel[0].Tone != ToneAlert {
			t.Errorf("Expected alert intel for spawn, got %s", next.Intel[0].Tone)
		}
	})

	t.Run("skipped at cap", func(t *testing.T) {
		s := runningMission(t)
		s.SuitSpawnTimer = 1
		for i := 0; i < MaxSuits; i++ {
			pos := Vector2{300 + float64(i)*30, 450}
			s.Suits = append(s.Suits, Pursuer{ID: i + 1, Position: pos, Behavior: BehaviorPatrol, StateTimer: 5000, Anchor: pos})
		}
		s.NextSuitID = MaxSuits
		next := Advance(s, Input{}, Actions{}, 16, 16)
		if len(next.Suits) != MaxSuits {
			t.Errorf("Expected %d suits, got %d", MaxSuits, len(next.Suits))
		}
	})

	t.Run("threat speeds the timer", func(t *testing.T) {
		calm, tense := runningMission(t), runningMission(t)
		calm.ThreatLevel, tense.ThreatLevel = 0, 1
		a := Advance(calm, Input{}, Actions{}, 16, 16)
		b := Advance(tense, Input{}, Actions{}, 16, 16)
		if b.SuitSpawnTimer >= a.SuitSpawnTimer {
			t.Errorf("Expected threat to shorten the timer: %v vs %v", b.SuitSpawnTimer, a.SuitSpawnTimer)
		}
	})
}

// TestSpawnBands verifies variants land in their bands
func TestSpawnBands(t *testing.T) {
	s := runningMission(t)
	rng := testRNG()
	for i := 0; i < 300; i++ {
		p := s.spawnPursuer(rng)
		band := spawnBands[p.Variant].area
		if !band.Contains(p.Position) {
			t.Fatalf("%s suit spawned outside its band at %v", p.Variant, p.Position)
		}
	}
	if s.NextSuitID != 300 {
		t.Errorf("Expected id counter 300, got %d", s.NextSuitID)
	}
}
