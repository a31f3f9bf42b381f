package interact

import "github.com/roach88/nodemap/internal/graph"

// EffectKind identifies what an Effect asks the caller to do.
type EffectKind string

const (
	EffectSelect        EffectKind = "select"
	EffectPin           EffectKind = "pin"
	EffectUnpin         EffectKind = "unpin"
	EffectMoveNode      EffectKind = "move_node"
	EffectAddLink       EffectKind = "add_link"
	EffectScheduleTimer EffectKind = "schedule_timer"
	EffectCancelTimer   EffectKind = "cancel_timer"
	EffectOpenOverlay   EffectKind = "open_overlay"
	EffectCloseOverlay  EffectKind = "close_overlay"
	EffectShowTooltip   EffectKind = "show_tooltip"
	EffectHideTooltip   EffectKind = "hide_tooltip"
)

// Effect is one side effect requested by a transition. Only the fields
// relevant to Kind are set.
type Effect struct {
	Kind    EffectKind
	NodeID  string
	Target  string     // add_link: second endpoint
	Pos     graph.Vec2 // move_node: new position
	Timer   Timer      // schedule_timer
	Token   TimerToken // cancel_timer
	Overlay Overlay    // open_overlay, close_overlay
	Tooltip Tooltip    // show_tooltip
}

// Count returns how many effects have the given kind.
func Count(effects []Effect, kind EffectKind) int {
	n := 0
	for _, e := range effects {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// First returns the first effect of the given kind.
func First(effects []Effect, kind EffectKind) (Effect, bool) {
	for _, e := range effects {
		if e.Kind == kind {
			return e, true
		}
	}
	return Effect{}, false
}
