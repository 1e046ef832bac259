package game

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"sea-game/internal/leaderboard"
	"sea-game/internal/mission"
)

// Hooks are invoked after a tick, outside the engine lock. Any of them may
// be nil.
type Hooks struct {
	OnTick       func(took time.Duration, s mission.State)
	OnAction     func(a mission.Action)
	OnMissionEnd func(s mission.State)
}

// Config configures a new Engine.
type Config struct {
	TickRate   int
	MaxDeltaMs float64
	Seed       uint64 // 0 draws a time-based seed for every attempt
	Handle     string // non-empty starts the first attempt already running
	Log        zerolog.Logger
	Hooks      Hooks
}

// Engine hosts one mission and drives it at a fixed rate.
type Engine struct {
	mu      sync.Mutex
	state   mission.State
	input   mission.Input
	latched mission.Actions

	// Latest published frame for readers that must not take mu
	snapshot atomic.Pointer[mission.State]

	tickRate   int
	maxDeltaMs float64
	running    bool
	ticker     *time.Ticker
	stopChan   chan struct{}
	doneChan   chan struct{}
	lastTick   time.Time

	// Host clock in ms since engine start; advances by clamped deltas only
	nowMs     float64
	tickCount uint64

	baseSeed uint64
	attempt  uint64

	hooks    Hooks
	eventLog *EventLog
	log      zerolog.Logger
}

// NewEngine creates an engine holding a fresh mission.
func NewEngine(cfg Config) *Engine {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.MaxDeltaMs <= 0 {
		cfg.MaxDeltaMs = 250
	}

	e := &Engine{
		tickRate:   cfg.TickRate,
		maxDeltaMs: cfg.MaxDeltaMs,
		baseSeed:   cfg.Seed,
		hooks:      cfg.Hooks,
		log:        cfg.Log.With().Str("component", "engine").Logger(),
	}
	e.eventLog = NewEventLog(cfg.Log)
	e.state = mission.New(cfg.Handle, 0, e.nextSeed())
	e.publish()
	return e
}

// nextSeed returns the seed of the next attempt.
func (e *Engine) nextSeed() uint64 {
	e.attempt++
	if e.baseSeed == 0 {
		return uint64(time.Now().UnixNano())
	}
	return e.baseSeed + e.attempt - 1
}

// Start begins the game loop
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopChan = make(chan struct{})
	e.doneChan = make(chan struct{})
	e.lastTick = time.Now()
	e.ticker = time.NewTicker(time.Second / time.Duration(e.tickRate))
	ticker, stop, done := e.ticker, e.stopChan, e.doneChan
	e.mu.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case <-ticker.C:
				e.tick()
			case <-stop:
				return
			}
		}
	}()

	e.log.Info().Int("tps", e.tickRate).Msg("🎮 Mission engine started")
}

// Stop halts the loop and waits for the in-flight tick to finish.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.ticker.Stop()
	close(e.stopChan)
	done := e.doneChan
	e.mu.Unlock()

	<-done
	e.log.Info().Uint64("ticks", e.TickCount()).Msg("🛑 Mission engine stopped")
}

// tick measures the wall-clock gap since the previous tick and steps.
func (e *Engine) tick() {
	now := time.Now()
	e.mu.Lock()
	deltaMs := float64(now.Sub(e.lastTick)) / float64(time.Millisecond)
	e.lastTick = now
	e.mu.Unlock()

	e.Step(deltaMs)
}

// Step runs one tick synchronously with the given frame length. The delta
// is clamped to [0, MaxDeltaMs] before it reaches the core.
func (e *Engine) Step(deltaMs float64) mission.State {
	started := time.Now()

	e.mu.Lock()
	deltaMs = e.clampDelta(deltaMs)
	e.nowMs += deltaMs
	e.tickCount++

	prev := e.state
	act := e.latched
	next := mission.Advance(prev, e.input, act, deltaMs, e.nowMs)
	// Edge-triggered: an action fires on exactly one tick
	e.latched = mission.Actions{}
	e.state = next
	e.publish()

	events := diffEvents(prev, next, act)
	e.record(events, next, deltaMs)
	e.mu.Unlock()

	e.fireHooks(time.Since(started), prev, next, act)
	return next
}

func (e *Engine) clampDelta(deltaMs float64) float64 {
	if math.IsNaN(deltaMs) || deltaMs < 0 {
		return 0
	}
	if deltaMs > e.maxDeltaMs {
		e.log.Debug().Float64("deltaMs", deltaMs).Float64("max", e.maxDeltaMs).Msg("⏱️ Frame delta clamped")
		return e.maxDeltaMs
	}
	return deltaMs
}

// record writes the tick's events to the event log and narrates the
// notable ones. Caller holds mu.
func (e *Engine) record(events []pendingEvent, next mission.State, deltaMs float64) {
	source := next.Profile.Handle
	if next.Phase == mission.PhaseRunning && e.tickCount%uint64(e.tickRate) == 0 {
		e.eventLog.EmitSimple(EventTypeTick, e.tickCount, "", TickPayload{
			Seed: next.Seed, DeltaMs: deltaMs, Suits: len(next.Suits),
		})
	}

	for _, ev := range events {
		e.eventLog.EmitSimple(ev.Type, e.tickCount, source, ev.Payload)

		switch p := ev.Payload.(type) {
		case DevicePayload:
			e.log.Info().Str("handle", source).Str("depth", string(p.Depth)).
				Float64("clockMs", p.ClockMs).Msgf("📱 Device %s", ev.Type)
		case DayPayload:
			e.log.Info().Int("day", p.Day).Float64("threat", p.Threat).Msg("🌅 New day on the beach")
		case PhasePayload:
			e.log.Info().Str("handle", source).Str("phase", string(p.To)).
				Str("outcome", string(p.Outcome)).Str("reason", p.Reason).
				Uint64("tick", e.tickCount).Msg("🏁 Mission phase changed")
		case SpawnPayload:
			e.log.Debug().Int("suit", p.SuitID).Str("variant", string(p.Variant)).
				Int("total", p.Total).Msg("🕴️ Suit spawned")
		}
	}
}

func (e *Engine) fireHooks(took time.Duration, prev, next mission.State, act mission.Actions) {
	if e.hooks.OnAction != nil && prev.Phase == mission.PhaseRunning {
		for _, a := range act.List() {
			e.hooks.OnAction(a)
		}
	}
	if e.hooks.OnTick != nil {
		e.hooks.OnTick(took, next)
	}
	if e.hooks.OnMissionEnd != nil && !prev.Phase.Terminal() && next.Phase.Terminal() {
		e.hooks.OnMissionEnd(next)
	}
}

// publish stores a private copy for lock-free readers. Caller holds mu.
func (e *Engine) publish() {
	s := e.state
	e.snapshot.Store(&s)
}

// Snapshot returns the latest published frame. The State's slices are never
// written after publication, so it is safe to read concurrently.
func (e *Engine) Snapshot() mission.State {
	return *e.snapshot.Load()
}

// SetInput replaces the held-key snapshot used by every following tick.
func (e *Engine) SetInput(in mission.Input) {
	e.mu.Lock()
	e.input = in
	e.mu.Unlock()
}

// TriggerAction latches a one-shot action for the next tick. Triggering the
// same action twice before a tick fires it once.
func (e *Engine) TriggerAction(a mission.Action) {
	e.mu.Lock()
	e.latched = e.latched.With(a)
	e.mu.Unlock()
}

// Launch commits a handle and starts the countdown.
func (e *Engine) Launch(handle string) (mission.State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := mission.Launch(e.state, handle)
	if err != nil {
		return e.state, err
	}
	e.state = next
	e.publish()

	e.eventLog.EmitSimple(EventTypeLaunch, e.tickCount, next.Profile.Handle,
		LaunchPayload{Handle: next.Profile.Handle, Seed: next.Seed})
	e.log.Info().Str("handle", next.Profile.Handle).Uint64("seed", next.Seed).Msg("🚀 Mission launched")
	return next, nil
}

// Reset discards the current attempt and builds a fresh one with a new
// seed. A committed handle carries over, so the new attempt starts running;
// an attempt still in intro stays in intro. The leaderboard cache survives.
func (e *Engine) Reset() mission.State {
	e.mu.Lock()
	defer e.mu.Unlock()

	handle := ""
	if e.state.Phase != mission.PhaseIntro {
		handle = e.state.Profile.Handle
	}
	board := e.state.Leaderboard
	e.state = mission.New(handle, e.nowMs, e.nextSeed())
	e.state.Leaderboard = board
	e.input = mission.Input{}
	e.latched = mission.Actions{}
	e.publish()

	e.log.Info().Str("handle", e.state.Profile.Handle).Uint64("seed", e.state.Seed).Msg("🔄 Mission reset")
	return e.state
}

// SetLeaderboard replaces the cached leaderboard carried in the state.
func (e *Engine) SetLeaderboard(records []leaderboard.Record) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Leaderboard = append([]leaderboard.Record(nil), records...)
	e.publish()
}

// TickCount returns the number of ticks stepped so far.
func (e *Engine) TickCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickCount
}

// TickRate returns the configured ticks per second.
func (e *Engine) TickRate() int { return e.tickRate }

// StartEventLog initializes the event logging system
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog gracefully stops the event logging system
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// EventLogStats returns event log statistics for monitoring
func (e *Engine) EventLogStats() EventStats {
	return e.eventLog.Stats()
}
