package game

import (
	"math"

	"sea-game/internal/mission"
)

const (
	autopilotDeadband   = 4   // px; closer than this on an axis counts as arrived
	autopilotSweepY     = 270 // sand strip just above the waterline
	autopilotSweepStep  = 110
	autopilotSprintFrom = 35 // stamina floor for sprinting
)

// Autopilot is a scripted player used for headless runs and soak tests. It
// holds only its sweep position, so two autopilots fed the same states make
// the same choices.
type Autopilot struct {
	waypoints []mission.Vector2
	next      int
}

// NewAutopilot builds the sand sweep route, east then back west.
func NewAutopilot() *Autopilot {
	var route []mission.Vector2
	for x := 80.0; x <= mission.MapWidth-80; x += autopilotSweepStep {
		route = append(route, mission.Vector2{X: x, Y: autopilotSweepY})
	}
	for i := len(route) - 2; i > 0; i-- {
		route = append(route, route[i])
	}
	return &Autopilot{waypoints: route}
}

// Decide returns the held keys and one-shot actions for the next tick.
func (a *Autopilot) Decide(s mission.State) (mission.Input, mission.Actions) {
	var act mission.Actions
	if s.Phase != mission.PhaseRunning {
		return mission.Input{}, act
	}
	p := s.Player

	threatened := false
	if p.StrikeCooldown == 0 {
		for _, suit := range s.Suits {
			if suit.StunnedMs == 0 && mission.Distance(suit.Position, p.Position) <= mission.StrikeRadius {
				act.Strike = true
				break
			}
		}
	}
	for _, suit := range s.Suits {
		if suit.StunnedMs == 0 && mission.Distance(suit.Position, p.Position) <= mission.DetectionRange(p.CarryingDevice) {
			threatened = true
			break
		}
	}

	var target mission.Vector2
	switch {
	case p.CarryingDevice:
		target = s.PoliceZone.Position
		if mission.Distance(p.Position, target) <= s.PoliceZone.Radius-autopilotDeadband {
			act.Interact = true
		}
	case s.Device.Located:
		target = s.Device.Position
	default:
		target = a.waypoints[a.next]
		if mission.Distance(p.Position, target) <= autopilotDeadband*2 {
			a.next = (a.next + 1) % len(a.waypoints)
			target = a.waypoints[a.next]
		}
		if p.ScanCooldown == 0 && !p.Diving && mission.ZoneFor(p.Position.Y) == mission.ZoneSand {
			act.Scan = true
		}
	}

	in := steer(p.Position, target)
	in.Sprint = (threatened || p.CarryingDevice) && p.Stamina > autopilotSprintFrom
	return in, act
}

// steer maps a target onto the four held direction keys.
func steer(from, to mission.Vector2) mission.Input {
	d := to.Sub(from)
	var in mission.Input
	if math.Abs(d.X) > autopilotDeadband {
		in.Left = d.X < 0
		in.Right = d.X > 0
	}
	if math.Abs(d.Y) > autopilotDeadband {
		// Forward is up the screen
		in.Forward = d.Y < 0
		in.Backward = d.Y > 0
	}
	return in
}

// RunResult summarises a headless run.
type RunResult struct {
	Final   mission.State
	Ticks   int
	Actions map[mission.Action]int
}

// RunAutopilot steps e with the autopilot until the mission ends or
// maxTicks is reached, using a fixed frame length.
func RunAutopilot(e *Engine, pilot *Autopilot, frameMs float64, maxTicks int) RunResult {
	res := RunResult{Actions: make(map[mission.Action]int)}
	s := e.Snapshot()
	for res.Ticks < maxTicks && s.Phase == mission.PhaseRunning {
		in, act := pilot.Decide(s)
		e.SetInput(in)
		for _, a := range act.List() {
			e.TriggerAction(a)
			res.Actions[a]++
		}
		s = e.Step(frameMs)
		res.Ticks++
	}
	res.Final = s
	return res
}
