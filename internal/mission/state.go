// Package mission is the deterministic simulation core of the beach search.
//
// A mission is a single State value threaded through Advance once per
// frame. Advance never mutates its argument, so a renderer holding the
// previous State never sees a half-written frame. All randomness comes from
// a PCG source stored inside the State, which makes a mission fully
// reproducible from its seed and input stream.
package mission

import (
	"math/rand/v2"
	"slices"
	"strings"

	"sea-game/internal/leaderboard"
)

// Phase is the mission lifecycle state.
type Phase string

const (
	PhaseIntro   Phase = "intro"   // no handle committed yet
	PhaseRunning Phase = "running" // countdown active
	PhaseWon     Phase = "won"
	PhaseLost    Phase = "lost"
)

// Terminal reports whether the phase accepts no further simulation.
func (p Phase) Terminal() bool { return p == PhaseWon || p == PhaseLost }

// Outcome is the machine-readable reason a mission ended.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeTimeout   Outcome = "timeout"
	OutcomeFocus     Outcome = "focus"
	OutcomeIntegrity Outcome = "integrity"
	OutcomeDelivered Outcome = "delivered"
)

// Tone colours an intel message.
type Tone string

const (
	ToneAlert   Tone = "alert"
	ToneSuccess Tone = "success"
	ToneIntel   Tone = "intel"
)

// Depth is where the device is hidden.
type Depth string

const (
	DepthSand  Depth = "sand"
	DepthTidal Depth = "tidal"
	DepthReef  Depth = "reef"
)

var depths = [...]Depth{DepthSand, DepthTidal, DepthReef}

// PulseKind distinguishes scanner rings from sonar rings.
type PulseKind string

const (
	PulseScan PulseKind = "scan"
	PulsePing PulseKind = "ping"
)

// Profile identifies who is playing.
type Profile struct {
	Handle string `json:"handle"`
}

// Player is replaced wholesale every tick.
type Player struct {
	Name     string  `json:"name"`
	Position Vector2 `json:"position"`
	Velocity Vector2 `json:"velocity"`
	Heading  float64 `json:"heading"` // radians

	// Vitals, all in [0, 100]
	Stamina      float64 `json:"stamina"`
	Focus        float64 `json:"focus"`
	Integrity    float64 `json:"integrity"`
	GadgetCharge float64 `json:"gadgetCharge"`

	InWater bool `json:"inWater"`
	Diving  bool `json:"diving"`

	// Cooldowns in ms, never negative
	ScanCooldown   float64 `json:"scanCooldown"`
	StrikeCooldown float64 `json:"strikeCooldown"`

	CarryingDevice bool `json:"carryingDevice"`
}

// Device is the hidden phone. Its flags only ever go from false to true.
type Device struct {
	Position   Vector2 `json:"position"`
	Depth      Depth   `json:"depth"`
	Located    bool    `json:"located"`
	Retrieved  bool    `json:"retrieved"`
	Delivered  bool    `json:"delivered"`
	RevealHint float64 `json:"revealHint"` // elapsed ratio at which it auto-reveals
}

// Pulse is an expanding ring left by a scan or sonar ping.
type Pulse struct {
	ID       int       `json:"id"`
	Position Vector2   `json:"position"`
	Radius   float64   `json:"radius"`
	Strength float64   `json:"strength"`
	Kind     PulseKind `json:"type"`
	BornAt   float64   `json:"createdAt"`
}

// PoliceZone is the delivery target.
type PoliceZone struct {
	Position Vector2 `json:"position"`
	Radius   float64 `json:"radius"`
}

// State is the whole mission. It is a value: copy it freely.
type State struct {
	Phase   Phase   `json:"phase"`
	Profile Profile `json:"profile"`

	ClockMs         float64 `json:"clockMs"` // countdown, floored at 0
	DayIndex        int     `json:"dayIndex"`
	TotalDurationMs float64 `json:"totalDurationMs"`

	Suits          []Pursuer      `json:"suits"`
	SuitSpawnTimer float64        `json:"suitSpawnTimer"`
	Pulses         []Pulse        `json:"pulses"`
	Intel          []IntelMessage `json:"intel"` // newest first
	Player         Player         `json:"player"`
	Device         Device         `json:"device"`
	PoliceZone     PoliceZone     `json:"policeZone"`
	Structures     []Structure    `json:"structures"`

	TideLevel     float64 `json:"tideLevel"`
	ThreatLevel   float64 `json:"threatLevel"`
	LastTimestamp float64 `json:"lastTimestamp"`

	Reason  string  `json:"reason,omitempty"`
	Outcome Outcome `json:"outcome,omitempty"`
	ScoreMs float64 `json:"scoreMs,omitempty"`

	// Sector is the id of the world sector the player stands in, or "".
	Sector       string `json:"sector"`
	AtPoliceZone bool   `json:"atPoliceZone"`

	// Carried through untouched; owned by the host.
	Leaderboard []leaderboard.Record `json:"leaderboard"`

	Seed        uint64   `json:"seed"`
	NextSuitID  int      `json:"-"`
	NextPulseID int      `json:"-"`
	NextIntelID int      `json:"-"`
	RNG         rand.PCG `json:"-"`
}

// New builds the initial state of a mission attempt. A blank handle leaves
// the mission in the intro phase until Launch is called.
func New(handle string, now float64, seed uint64) State {
	name := strings.TrimSpace(handle)
	phase := PhaseRunning
	if name == "" {
		name = DefaultHandle
		phase = PhaseIntro
	}

	s := State{
		Phase:           phase,
		Profile:         Profile{Handle: name},
		ClockMs:         MissionDurationMs,
		DayIndex:        1,
		TotalDurationMs: MissionDurationMs,
		Suits:           []Pursuer{},
		SuitSpawnTimer:  SpawnTimerInitial,
		Pulses:          []Pulse{},
		Player:          newPlayer(name),
		PoliceZone: PoliceZone{
			Position: Vector2{PoliceZoneX, PoliceZoneY},
			Radius:   PoliceZoneRadius,
		},
		TideLevel:     TideMean,
		ThreatLevel:   InitialThreat,
		LastTimestamp: now,
		Leaderboard:   []leaderboard.Record{},
		Seed:          seed,
		RNG:           newSource(seed),
	}

	rng := rand.New(&s.RNG)
	s.Device = placeDevice(rng)
	s.Structures = generateStructures(rng)
	if sec, ok := SectorAt(s.Player.Position); ok {
		s.Sector = sec.ID
	}

	s.Intel = []IntelMessage{}
	s.pushIntel(ToneAlert, "15 minutes = 15 days. Stay in control and find the iPhone 16.", now)
	s.pushIntel(ToneIntel, "You reached the cliff beach. Head down to the sand and keep clear of the suits.", now)
	return s
}

// Launch commits a handle and starts the countdown.
func Launch(s State, handle string) (State, error) {
	if s.Phase != PhaseIntro {
		return s, ErrNotIntro
	}
	name := strings.TrimSpace(handle)
	if name == "" {
		return s, ErrHandleRequired
	}
	s.Profile.Handle = name
	s.Player.Name = name
	s.Phase = PhaseRunning
	return s, nil
}

// ElapsedRatio is the fraction of the countdown already spent.
func (s State) ElapsedRatio() float64 {
	if s.TotalDurationMs <= 0 {
		return 1
	}
	return 1 - s.ClockMs/s.TotalDurationMs
}

// clone copies every slice Advance writes into, so the caller's State
// shares no backing arrays with the result.
func (s State) clone() State {
	n := s
	n.Suits = slices.Clone(s.Suits)
	n.Pulses = slices.Clone(s.Pulses)
	n.Intel = slices.Clone(s.Intel)
	return n
}

func placeDevice(rng *rand.Rand) Device {
	return Device{
		Position: Vector2{
			X: between(rng, 160, MapWidth-160),
			Y: between(rng, WaterLine-30, WaterLine+90),
		},
		Depth:      depths[rng.IntN(len(depths))],
		RevealHint: between(rng, 0.18, 0.4),
	}
}
