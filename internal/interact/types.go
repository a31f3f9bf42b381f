package interact

import (
	"time"

	"github.com/roach88/nodemap/internal/graph"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// String returns the button name.
func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonMiddle:
		return "middle"
	case ButtonSecondary:
		return "secondary"
	}
	return "unknown"
}

// ParseButton converts a button name. Empty means primary.
func ParseButton(s string) (Button, bool) {
	switch s {
	case "", "primary", "left":
		return ButtonPrimary, true
	case "middle":
		return ButtonMiddle, true
	case "secondary", "right":
		return ButtonSecondary, true
	}
	return 0, false
}

// Gesture is the active pointer gesture.
type Gesture int

const (
	GestureIdle Gesture = iota
	GestureArmedDrag
	GestureDragging
	GestureDrawingLink
)

// String returns the gesture name.
func (g Gesture) String() string {
	switch g {
	case GestureIdle:
		return "idle"
	case GestureArmedDrag:
		return "armed-drag"
	case GestureDragging:
		return "dragging"
	case GestureDrawingLink:
		return "drawing-link"
	}
	return "unknown"
}

// OverlayKind is the kind of overlay currently open.
type OverlayKind int

const (
	OverlayNone OverlayKind = iota
	OverlayInfo
	OverlayLinkForm
	OverlayDeleteConfirm
	OverlayColorPicker
	OverlayContextMenu
)

var overlayNames = map[OverlayKind]string{
	OverlayNone:          "none",
	OverlayInfo:          "info",
	OverlayLinkForm:      "link-form",
	OverlayDeleteConfirm: "delete-confirm",
	OverlayColorPicker:   "color-picker",
	OverlayContextMenu:   "context-menu",
}

// String returns the overlay name.
func (k OverlayKind) String() string {
	if n, ok := overlayNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseOverlayKind converts an overlay name.
func ParseOverlayKind(s string) (OverlayKind, bool) {
	for k, n := range overlayNames {
		if n == s {
			return k, true
		}
	}
	return OverlayNone, false
}

// Overlay is the open overlay, if any.
type Overlay struct {
	Kind   OverlayKind
	Anchor graph.Vec2
	NodeID string
	Text   string // info pre-populated into the info overlay
	Docked bool   // info shown in a side panel rather than a modal
}

// Modal reports whether the overlay captures canvas input.
func (o Overlay) Modal() bool {
	switch o.Kind {
	case OverlayNone, OverlayContextMenu:
		return false
	case OverlayInfo:
		return !o.Docked
	}
	return true
}

// Tooltip is the hover tooltip.
type Tooltip struct {
	Visible bool
	NodeID  string
	Content string
	Anchor  graph.Vec2
}

// TimerKind identifies what a pending timer is for.
type TimerKind int

const (
	TimerClick TimerKind = iota + 1
	TimerArm
	TimerHover
)

// String returns the timer name.
func (k TimerKind) String() string {
	switch k {
	case TimerClick:
		return "click"
	case TimerArm:
		return "arm"
	case TimerHover:
		return "hover"
	}
	return "unknown"
}

// TimerToken identifies one scheduled timer. Zero means none.
type TimerToken uint64

// Timer is a request to deliver a timer_fired event after Delay.
type Timer struct {
	Token  TimerToken
	Kind   TimerKind
	Delay  time.Duration
	NodeID string
}

// ContextAction is an entry of the node context menu.
type ContextAction int

const (
	ActionEditInfo ContextAction = iota + 1
	ActionChangeColor
)

// String returns the action name.
func (a ContextAction) String() string {
	switch a {
	case ActionEditInfo:
		return "edit_info"
	case ActionChangeColor:
		return "change_color"
	}
	return "unknown"
}

// ParseContextAction converts an action name.
func ParseContextAction(s string) (ContextAction, bool) {
	switch s {
	case "edit_info":
		return ActionEditInfo, true
	case "change_color":
		return ActionChangeColor, true
	}
	return 0, false
}

// Session is the ephemeral interaction state. It is a plain value: copy it
// freely, and keep the one returned by Handle.
type Session struct {
	Selected string
	Gesture  Gesture
	LinkMode bool

	// Drag target and pointer-to-node offset while armed or dragging.
	DragNode   string
	DragOffset graph.Vec2

	// Rubber band while drawing a link.
	LinkSource string
	RubberBand graph.Vec2

	Hovered     string
	LastClicked string

	Overlay Overlay
	Tooltip Tooltip

	ArmTimer   TimerToken
	ClickTimer TimerToken
	HoverTimer TimerToken
	lastToken  TimerToken
}

// Pinned returns the node whose position is driven by the pointer, or "".
func (s Session) Pinned() string {
	if s.Gesture == GestureArmedDrag || s.Gesture == GestureDragging {
		return s.DragNode
	}
	return ""
}

// Pending returns the pending timer tokens keyed by kind.
func (s Session) Pending() map[TimerKind]TimerToken {
	out := make(map[TimerKind]TimerToken, 3)
	if s.ArmTimer != 0 {
		out[TimerArm] = s.ArmTimer
	}
	if s.ClickTimer != 0 {
		out[TimerClick] = s.ClickTimer
	}
	if s.HoverTimer != 0 {
		out[TimerHover] = s.HoverTimer
	}
	return out
}

// GraphView is the read-only store view the machine hit-tests against.
// *graph.Store implements it.
type GraphView interface {
	Node(id string) (graph.Node, bool)
	Nodes() []graph.Node
}
