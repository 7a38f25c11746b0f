package world

import "bump3d/internal/body"

// EventType is a trigger state transition.
type EventType uint8

const (
	// Enter fires the first tick a kinematic body overlaps a trigger.
	Enter EventType = iota
	// Stay fires every subsequent tick the overlap persists.
	Stay
	// Exit fires the first tick the overlap ends.
	Exit
)

func (e EventType) String() string {
	switch e {
	case Enter:
		return "enter"
	case Stay:
		return "stay"
	case Exit:
		return "exit"
	}
	return "unknown"
}

// TriggerEvent reports one trigger transition for one (body, trigger)
// pair. Each pair produces at most one event per tick.
type TriggerEvent struct {
	Type    EventType
	Body    body.ID
	Trigger body.ID
}
