package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/nodemap/internal/engine"
	"github.com/roach88/nodemap/internal/interact"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, event := range e.Trace {
		switch event.Type {
		case TraceInput:
			fmt.Fprintf(&buf, "  [%d] %s %v\n", i+1, event.Input, event.Effects)
		case TraceCommand:
			fmt.Fprintf(&buf, "  [%d] command %s\n", i+1, event.Command)
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against the result and the
// final engine state. Returns the failure messages, empty when all pass.
func EvaluateAssertions(result *Result, assertions []Assertion, eng *engine.Engine) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a, eng); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion, eng *engine.Engine) error {
	st := eng.Store()
	sess := eng.Session()

	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Expected: expected, Actual: actual, Trace: result.Trace}
	}

	switch a.Type {
	case AssertNodeCount:
		if got := st.Len(); got != *a.Count {
			return fail(fmt.Sprintf("%d nodes", *a.Count), fmt.Sprintf("%d nodes", got))
		}

	case AssertNodeExists:
		if st.Has(a.Node) == a.Absent {
			if a.Absent {
				return fail("node "+a.Node+" absent", "present")
			}
			return fail("node "+a.Node+" present", "absent")
		}

	case AssertNode:
		n, ok := st.Node(a.Node)
		if !ok {
			return fail("node "+a.Node, "absent")
		}
		if a.Info != nil && n.Info != *a.Info {
			return fail(fmt.Sprintf("info %q", *a.Info), fmt.Sprintf("info %q", n.Info))
		}
		if a.Color != "" && n.Color != a.Color {
			return fail("color "+a.Color, "color "+n.Color)
		}

	case AssertLinkCount:
		if got := len(st.Links()); got != *a.Count {
			return fail(fmt.Sprintf("%d links", *a.Count), fmt.Sprintf("%d links", got))
		}

	case AssertHasLink:
		if st.HasLink(a.Source, a.Target) == a.Absent {
			if a.Absent {
				return fail(fmt.Sprintf("no link %s-%s", a.Source, a.Target), "link present")
			}
			return fail(fmt.Sprintf("link %s-%s", a.Source, a.Target), "no such link")
		}

	case AssertSelection:
		if sess.Selected != a.Node {
			return fail(fmt.Sprintf("selection %q", a.Node), fmt.Sprintf("selection %q", sess.Selected))
		}

	case AssertOverlay:
		got := sess.Overlay
		if got.Kind.String() != a.Kind {
			return fail("overlay "+a.Kind, "overlay "+got.Kind.String())
		}
		if a.Node != "" && got.NodeID != a.Node {
			return fail("overlay on "+a.Node, "overlay on "+got.NodeID)
		}

	case AssertTooltip:
		tip := sess.Tooltip
		if a.Node == "" {
			if tip.Visible {
				return fail("no tooltip", "tooltip on "+tip.NodeID)
			}
			return nil
		}
		if !tip.Visible || tip.NodeID != a.Node {
			return fail("tooltip on "+a.Node, fmt.Sprintf("visible=%v node=%q", tip.Visible, tip.NodeID))
		}
		if a.Content != "" && tip.Content != a.Content {
			return fail(fmt.Sprintf("content %q", a.Content), fmt.Sprintf("content %q", tip.Content))
		}

	case AssertGesture:
		if got := sess.Gesture.String(); got != a.Gesture {
			return fail("gesture "+a.Gesture, "gesture "+got)
		}

	case AssertEffectCount:
		got := interact.Count(result.Effects(), interact.EffectKind(a.Effect))
		if got != *a.Count {
			return fail(fmt.Sprintf("%d %s effects", *a.Count, a.Effect), fmt.Sprintf("%d", got))
		}

	case AssertNodePosition:
		n, ok := st.Node(a.Node)
		if !ok {
			return fail("node "+a.Node, "absent")
		}
		tol := a.Tolerance
		if tol == 0 {
			tol = 0.5
		}
		if math.Abs(n.Pos.X-*a.X) > tol || math.Abs(n.Pos.Y-*a.Y) > tol {
			return fail(fmt.Sprintf("(%v, %v) ±%v", *a.X, *a.Y, tol), fmt.Sprintf("(%v, %v)", n.Pos.X, n.Pos.Y))
		}

	case AssertLinkMode:
		if sess.LinkMode != *a.On {
			return fail(fmt.Sprintf("link mode %v", *a.On), fmt.Sprintf("link mode %v", sess.LinkMode))
		}

	case AssertPendingTimer:
		if got := eng.PendingTimers(); got != *a.Count {
			return fail(fmt.Sprintf("%d pending timers", *a.Count), fmt.Sprintf("%d", got))
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
