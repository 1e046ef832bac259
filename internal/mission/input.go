package mission

import "fmt"

// Input is the held-key snapshot for one tick.
type Input struct {
	Forward  bool `json:"forward"`
	Backward bool `json:"backward"`
	Left     bool `json:"left"`
	Right    bool `json:"right"`
	Sprint   bool `json:"sprint"`
}

// direction is the unit movement vector, or zero when nothing is held.
// Forward is up the screen (towards the cliff).
func (in Input) direction() Vector2 {
	var d Vector2
	if in.Forward {
		d.Y--
	}
	if in.Backward {
		d.Y++
	}
	if in.Left {
		d.X--
	}
	if in.Right {
		d.X++
	}
	return d.Normalize()
}

// Actions are edge-triggered: true only on the tick the key was pressed.
type Actions struct {
	Strike     bool `json:"strike"`
	Scan       bool `json:"scan"`
	ToggleDive bool `json:"toggleDive"`
	SonarPing  bool `json:"sonarPing"`
	Interact   bool `json:"interact"`
}

// Any reports whether at least one action fired.
func (a Actions) Any() bool {
	return a.Strike || a.Scan || a.ToggleDive || a.SonarPing || a.Interact
}

// Action names a single one-shot action.
type Action string

const (
	ActionStrike     Action = "strike"
	ActionScan       Action = "scan"
	ActionToggleDive Action = "toggleDive"
	ActionSonarPing  Action = "sonarPing"
	ActionInteract   Action = "interact"
)

// AllActions lists every action in processing order.
var AllActions = []Action{ActionStrike, ActionScan, ActionToggleDive, ActionSonarPing, ActionInteract}

// ParseAction validates an action name.
func ParseAction(name string) (Action, error) {
	for _, a := range AllActions {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", name)
}

// With returns a copy of a with action set.
func (a Actions) With(action Action) Actions {
	switch action {
	case ActionStrike:
		a.Strike = true
	case ActionScan:
		a.Scan = true
	case ActionToggleDive:
		a.ToggleDive = true
	case ActionSonarPing:
		a.SonarPing = true
	case ActionInteract:
		a.Interact = true
	}
	return a
}

// List returns the set actions in processing order.
func (a Actions) List() []Action {
	var out []Action
	for _, act := range AllActions {
		if a.Has(act) {
			out = append(out, act)
		}
	}
	return out
}

// Has reports whether action is set.
func (a Actions) Has(action Action) bool {
	switch action {
	case ActionStrike:
		return a.Strike
	case ActionScan:
		return a.Scan
	case ActionToggleDive:
		return a.ToggleDive
	case ActionSonarPing:
		return a.SonarPing
	case ActionInteract:
		return a.Interact
	}
	return false
}
