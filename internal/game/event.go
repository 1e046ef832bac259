package game

import (
	"encoding/json"
	"time"

	"sea-game/internal/mission"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick              // Tick boundary with seed and delta
	EventTypeLaunch
	EventTypeAction
	EventTypeSpawn
	EventTypeLocated
	EventTypeRetrieved
	EventTypeDelivered
	EventTypeDay
	EventTypePhase
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log
type Event struct {
	Version   uint8           `json:"version"`   // Schema version
	Type      EventType       `json:"type"`      // Event type
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`  // Monotonic sequence
	TickNum   uint64          `json:"tickNum"`   // Engine tick this occurred in
	Source    string          `json:"source"`    // Handle or client that caused it (for rate limiting)
	Payload   json.RawMessage `json:"payload"`   // Inline JSON payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeLaunch:
		return "launch"
	case EventTypeAction:
		return "action"
	case EventTypeSpawn:
		return "spawn"
	case EventTypeLocated:
		return "located"
	case EventTypeRetrieved:
		return "retrieved"
	case EventTypeDelivered:
		return "delivered"
	case EventTypeDay:
		return "day"
	case EventTypePhase:
		return "phase"
	default:
		return "unknown"
	}
}

// MarshalJSON writes the readable name so the JSONL file greps well.
func (t EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Typed payloads for different event types

// TickPayload contains tick boundary information for replay
type TickPayload struct {
	Seed    uint64  `json:"seed"`
	DeltaMs float64 `json:"deltaMs"`
	Suits   int     `json:"suits"`
}

// LaunchPayload is written when a handle is committed.
type LaunchPayload struct {
	Handle string `json:"handle"`
	Seed   uint64 `json:"seed"`
}

// ActionPayload records a latched action as the core received it.
type ActionPayload struct {
	Action  mission.Action  `json:"action"`
	Player  mission.Vector2 `json:"player"`
	ClockMs float64         `json:"clockMs"`
}

// SpawnPayload describes a new pursuer.
type SpawnPayload struct {
	SuitID   int             `json:"suitId"`
	Variant  mission.Variant `json:"variant"`
	Position mission.Vector2 `json:"position"`
	Total    int             `json:"total"`
}

// DevicePayload is shared by located, retrieved and delivered.
type DevicePayload struct {
	Position mission.Vector2 `json:"position"`
	Depth    mission.Depth   `json:"depth"`
	ClockMs  float64         `json:"clockMs"`
}

// DayPayload marks a new in-game day.
type DayPayload struct {
	Day     int     `json:"day"`
	Threat  float64 `json:"threat"`
	ClockMs float64 `json:"clockMs"`
}

// PhasePayload records a phase transition.
type PhasePayload struct {
	From    mission.Phase   `json:"from"`
	To      mission.Phase   `json:"to"`
	Outcome mission.Outcome `json:"outcome,omitempty"`
	Reason  string          `json:"reason,omitempty"`
	ScoreMs float64         `json:"scoreMs,omitempty"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload any) json.RawMessage {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, source string, payload any) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		Source:    source,
		Payload:   EncodePayload(payload),
	}
}

// diffEvents compares two consecutive states and returns the events the
// transition produced, in a stable order.
func diffEvents(prev, next mission.State, act mission.Actions) []pendingEvent {
	var out []pendingEvent
	for _, a := range act.List() {
		out = append(out, pendingEvent{EventTypeAction, ActionPayload{
			Action: a, Player: prev.Player.Position, ClockMs: prev.ClockMs,
		}})
	}

	known := make(map[int]struct{}, len(prev.Suits))
	for _, s := range prev.Suits {
		known[s.ID] = struct{}{}
	}
	for _, s := range next.Suits {
		if _, ok := known[s.ID]; !ok {
			out = append(out, pendingEvent{EventTypeSpawn, SpawnPayload{
				SuitID: s.ID, Variant: s.Variant, Position: s.Position, Total: len(next.Suits),
			}})
		}
	}

	dev := DevicePayload{Position: next.Device.Position, Depth: next.Device.Depth, ClockMs: next.ClockMs}
	if !prev.Device.Located && next.Device.Located {
		out = append(out, pendingEvent{EventTypeLocated, dev})
	}
	if !prev.Device.Retrieved && next.Device.Retrieved {
		out = append(out, pendingEvent{EventTypeRetrieved, dev})
	}
	if !prev.Device.Delivered && next.Device.Delivered {
		out = append(out, pendingEvent{EventTypeDelivered, dev})
	}
	if next.DayIndex != prev.DayIndex {
		out = append(out, pendingEvent{EventTypeDay, DayPayload{
			Day: next.DayIndex, Threat: next.ThreatLevel, ClockMs: next.ClockMs,
		}})
	}
	if next.Phase != prev.Phase {
		out = append(out, pendingEvent{EventTypePhase, PhasePayload{
			From: prev.Phase, To: next.Phase, Outcome: next.Outcome, Reason: next.Reason, ScoreMs: next.ScoreMs,
		}})
	}
	return out
}

type pendingEvent struct {
	Type    EventType
	Payload any
}
