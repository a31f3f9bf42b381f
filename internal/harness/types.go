package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/nodemap/internal/engine"
	"github.com/roach88/nodemap/internal/graph"
	"github.com/roach88/nodemap/internal/interact"
)

// Trace event types.
const (
	TraceInput   = "input"
	TraceTick    = "tick"
	TraceCommand = "command"
)

// TraceEvent is one line of a scenario trace. Positions are left out of
// effects so traces stay stable under float rounding.
type TraceEvent struct {
	Seq     int64    `json:"seq"`
	Type    string   `json:"type"`
	Input   string   `json:"input,omitempty"`
	Command string   `json:"command,omitempty"`
	Effects []string `json:"effects,omitempty"`
	Gesture string   `json:"gesture,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace lists processed inputs, ticks and commands in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Frame is the final render input.
	Frame engine.Frame `json:"-"`

	effects []interact.Effect
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Effects returns every effect produced by processed inputs, in order.
func (r *Result) Effects() []interact.Effect {
	return r.effects
}

// addRecord appends an engine record to the trace.
func (r *Result) addRecord(rec engine.Record) {
	ev := TraceEvent{Seq: rec.Seq, Type: string(rec.Kind), Gesture: rec.Gesture.String()}
	if rec.Kind == engine.RecordInput {
		ev.Input = describeInput(rec.Input)
		for _, e := range rec.Effects {
			ev.Effects = append(ev.Effects, describeEffect(e))
		}
		r.effects = append(r.effects, rec.Effects...)
	}
	r.Trace = append(r.Trace, ev)
}

// addCommand appends a command line to the trace.
func (r *Result) addCommand(seq int64, c Command) {
	parts := []string{c.Name}
	for _, v := range []string{c.ID, c.To, c.Target, c.Color, c.File} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	r.Trace = append(r.Trace, TraceEvent{Seq: seq, Type: TraceCommand, Command: strings.Join(parts, " ")})
}

func describeInput(ev interact.Event) string {
	switch ev.Kind {
	case interact.EventPointerDown, interact.EventPointerUp:
		return fmt.Sprintf("%s %s %s", ev.Kind, ev.Button, point(ev.Pos))
	case interact.EventPointerMove:
		return fmt.Sprintf("%s %s", ev.Kind, point(ev.Pos))
	case interact.EventTimerFired:
		return fmt.Sprintf("%s #%d", ev.Kind, ev.Token)
	case interact.EventContextAction:
		return fmt.Sprintf("%s %s", ev.Kind, ev.Action)
	case interact.EventToggleLinkMode:
		if ev.On {
			return fmt.Sprintf("%s on", ev.Kind)
		}
		return fmt.Sprintf("%s off", ev.Kind)
	case interact.EventKey:
		return fmt.Sprintf("%s %s", ev.Kind, ev.Key)
	case interact.EventOpenOverlay:
		return fmt.Sprintf("%s %s", ev.Kind, ev.Overlay)
	}
	return string(ev.Kind)
}

func describeEffect(e interact.Effect) string {
	switch e.Kind {
	case interact.EffectSelect:
		if e.NodeID == "" {
			return "select -"
		}
		return "select " + e.NodeID
	case interact.EffectAddLink:
		return fmt.Sprintf("add_link %s-%s", e.NodeID, e.Target)
	case interact.EffectScheduleTimer:
		return fmt.Sprintf("schedule_timer %s#%d %s", e.Timer.Kind, e.Timer.Token, e.Timer.Delay)
	case interact.EffectCancelTimer:
		return fmt.Sprintf("cancel_timer #%d", e.Token)
	case interact.EffectOpenOverlay, interact.EffectCloseOverlay:
		if e.NodeID == "" {
			return fmt.Sprintf("%s %s", e.Kind, e.Overlay.Kind)
		}
		return fmt.Sprintf("%s %s %s", e.Kind, e.Overlay.Kind, e.NodeID)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.NodeID)
}

func point(p graph.Vec2) string {
	return strconv.FormatFloat(p.X, 'f', -1, 64) + "," + strconv.FormatFloat(p.Y, 'f', -1, 64)
}
