package interact

import "github.com/roach88/nodemap/internal/graph"

// EventKind identifies an input event.
type EventKind string

const (
	EventPointerDown    EventKind = "pointer_down"
	EventPointerMove    EventKind = "pointer_move"
	EventPointerUp      EventKind = "pointer_up"
	EventPointerLeave   EventKind = "pointer_leave"
	EventTimerFired     EventKind = "timer_fired"
	EventContextAction  EventKind = "context_action"
	EventToggleLinkMode EventKind = "toggle_link_mode"
	EventKey            EventKind = "key"
	EventOpenOverlay    EventKind = "open_overlay"
	EventCloseOverlay   EventKind = "close_overlay"
)

// KeyEscape is the key that cancels gestures and closes overlays.
const KeyEscape = "Escape"

// Event is one input. Only the fields relevant to Kind are read.
type Event struct {
	Kind    EventKind
	Pos     graph.Vec2
	Button  Button
	Token   TimerToken
	Action  ContextAction
	Key     string
	On      bool // toggle_link_mode: desired state
	Overlay OverlayKind
}

// PointerDown builds a pointer-down event.
func PointerDown(x, y float64, b Button) Event {
	return Event{Kind: EventPointerDown, Pos: graph.Vec2{X: x, Y: y}, Button: b}
}

// PointerMove builds a pointer-move event.
func PointerMove(x, y float64) Event {
	return Event{Kind: EventPointerMove, Pos: graph.Vec2{X: x, Y: y}}
}

// PointerUp builds a pointer-up event.
func PointerUp(x, y float64, b Button) Event {
	return Event{Kind: EventPointerUp, Pos: graph.Vec2{X: x, Y: y}, Button: b}
}

// PointerLeave builds the event sent when the pointer leaves the canvas.
func PointerLeave() Event {
	return Event{Kind: EventPointerLeave}
}

// TimerFired builds the event delivered when a scheduled timer elapses.
func TimerFired(token TimerToken) Event {
	return Event{Kind: EventTimerFired, Token: token}
}

// ContextMenu builds a context menu action event.
func ContextMenu(a ContextAction) Event {
	return Event{Kind: EventContextAction, Action: a}
}

// ToggleLinkMode builds a link mode switch event.
func ToggleLinkMode(on bool) Event {
	return Event{Kind: EventToggleLinkMode, On: on}
}

// Key builds a key press event.
func Key(key string) Event {
	return Event{Kind: EventKey, Key: key}
}

// OpenOverlay builds an event for a collaborator opening an overlay on the
// current selection.
func OpenOverlay(k OverlayKind) Event {
	return Event{Kind: EventOpenOverlay, Overlay: k}
}

// CloseOverlay builds an event closing the open overlay.
func CloseOverlay() Event {
	return Event{Kind: EventCloseOverlay}
}
