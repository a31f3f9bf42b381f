package interact

import (
	"time"

	"github.com/roach88/nodemap/internal/graph"
)

// Options tunes the machine. Zero durations and radius fall back to the
// defaults.
type Options struct {
	HitRadius         float64
	ArmDelay          time.Duration
	DoubleClickWindow time.Duration
	HoverDwell        time.Duration
	TooltipOffset     float64

	// LinkModeAvailable enables the toggle_link_mode input.
	LinkModeAvailable bool
	// SidePanel docks the info overlay instead of showing it as a modal.
	SidePanel bool
}

// DefaultOptions returns the standard editor timings.
func DefaultOptions() Options {
	return Options{
		HitRadius:         20,
		ArmDelay:          100 * time.Millisecond,
		DoubleClickWindow: 300 * time.Millisecond,
		HoverDwell:        1500 * time.Millisecond,
		TooltipOffset:     30,
		LinkModeAvailable: true,
	}
}

// Machine holds the options for a family of pure transitions. It has no
// mutable state and is safe to share.
type Machine struct {
	opts Options
}

// New creates a Machine.
func New(opts Options) *Machine {
	def := DefaultOptions()
	if opts.HitRadius <= 0 {
		opts.HitRadius = def.HitRadius
	}
	if opts.ArmDelay <= 0 {
		opts.ArmDelay = def.ArmDelay
	}
	if opts.DoubleClickWindow <= 0 {
		opts.DoubleClickWindow = def.DoubleClickWindow
	}
	if opts.HoverDwell <= 0 {
		opts.HoverDwell = def.HoverDwell
	}
	if opts.TooltipOffset <= 0 {
		opts.TooltipOffset = def.TooltipOffset
	}
	return &Machine{opts: opts}
}

// Options returns the effective options.
func (m *Machine) Options() Options { return m.opts }

// Handle applies one event to s and returns the next session together with
// the effects the caller must apply, in order.
func (m *Machine) Handle(s Session, g GraphView, ev Event) (Session, []Effect) {
	t := &transition{m: m, g: g, s: s}
	switch ev.Kind {
	case EventPointerDown:
		t.pointerDown(ev)
	case EventPointerMove:
		t.pointerMove(ev)
	case EventPointerUp:
		t.pointerUp(ev)
	case EventPointerLeave:
		t.hover("")
	case EventTimerFired:
		t.timerFired(ev.Token)
	case EventContextAction:
		t.contextAction(ev.Action)
	case EventToggleLinkMode:
		if m.opts.LinkModeAvailable {
			t.endGesture()
			t.s.LinkMode = ev.On
		}
	case EventKey:
		if ev.Key == KeyEscape {
			t.endGesture()
			t.closeOverlay()
		}
	case EventOpenOverlay:
		t.openRequested(ev.Overlay)
	case EventCloseOverlay:
		t.closeOverlay()
	}
	return t.s, t.out
}

// Reconcile drops references to nodes that no longer exist in g, cancelling
// whatever was pending on them.
func (m *Machine) Reconcile(s Session, g GraphView) (Session, []Effect) {
	t := &transition{m: m, g: g, s: s}
	gone := func(id string) bool {
		if id == "" {
			return false
		}
		_, ok := g.Node(id)
		return !ok
	}

	if gone(t.s.DragNode) {
		t.endDrag()
	}
	if gone(t.s.LinkSource) {
		t.endGesture()
	}
	if gone(t.s.Hovered) {
		t.cancel(TimerHover)
		t.s.Hovered = ""
	}
	if gone(t.s.Tooltip.NodeID) {
		t.hideTooltip()
	}
	if gone(t.s.Overlay.NodeID) {
		t.closeOverlay()
	}
	if gone(t.s.LastClicked) {
		t.cancel(TimerClick)
		t.s.LastClicked = ""
	}
	if gone(t.s.Selected) {
		t.setSelected("")
	}
	return t.s, t.out
}

// Rename rewrites every session reference to oldID.
func (m *Machine) Rename(s Session, oldID, newID string) Session {
	swap := func(p *string) {
		if *p == oldID {
			*p = newID
		}
	}
	swap(&s.Selected)
	swap(&s.DragNode)
	swap(&s.LinkSource)
	swap(&s.Hovered)
	swap(&s.LastClicked)
	swap(&s.Overlay.NodeID)
	swap(&s.Tooltip.NodeID)
	return s
}

// HitTest returns the topmost node within radius of p. Nodes drawn later
// are on top.
func HitTest(g GraphView, p graph.Vec2, radius float64) (graph.Node, bool) {
	nodes := g.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].Pos.Dist(p) <= radius {
			return nodes[i], true
		}
	}
	return graph.Node{}, false
}

// Within returns the ids of every node within radius of p.
func Within(g GraphView, p graph.Vec2, radius float64) []string {
	var ids []string
	for _, n := range g.Nodes() {
		if n.Pos.Dist(p) <= radius {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

type transition struct {
	m   *Machine
	g   GraphView
	s   Session
	out []Effect
}

func (t *transition) emit(e Effect) { t.out = append(t.out, e) }

func (t *transition) slot(kind TimerKind) *TimerToken {
	switch kind {
	case TimerArm:
		return &t.s.ArmTimer
	case TimerClick:
		return &t.s.ClickTimer
	default:
		return &t.s.HoverTimer
	}
}

func (t *transition) schedule(kind TimerKind, delay time.Duration, nodeID string) {
	t.cancel(kind)
	t.s.lastToken++
	*t.slot(kind) = t.s.lastToken
	t.emit(Effect{
		Kind:   EffectScheduleTimer,
		NodeID: nodeID,
		Timer:  Timer{Token: t.s.lastToken, Kind: kind, Delay: delay, NodeID: nodeID},
	})
}

func (t *transition) cancel(kind TimerKind) {
	slot := t.slot(kind)
	if *slot == 0 {
		return
	}
	t.emit(Effect{Kind: EffectCancelTimer, Token: *slot})
	*slot = 0
}

func (t *transition) setSelected(id string) {
	if t.s.Selected == id {
		return
	}
	t.s.Selected = id
	t.emit(Effect{Kind: EffectSelect, NodeID: id})
}

func (t *transition) pointerDown(ev Event) {
	// A modal overlay owns the pointer; pressing outside it dismisses it.
	if t.s.Overlay.Modal() {
		t.closeOverlay()
		return
	}

	hit, ok := HitTest(t.g, ev.Pos, t.m.opts.HitRadius)
	if !ok {
		if t.s.Overlay.Kind == OverlayContextMenu {
			t.closeOverlay()
		}
		t.endGesture()
		return
	}

	switch {
	case t.s.LinkMode && ev.Button == ButtonPrimary:
		t.beginPress()
		t.s.Gesture = GestureDrawingLink
		t.s.LinkSource = hit.ID
		t.s.RubberBand = ev.Pos

	case ev.Button == ButtonSecondary:
		t.setSelected(hit.ID)
		t.openOverlay(Overlay{Kind: OverlayContextMenu, Anchor: ev.Pos, NodeID: hit.ID})

	case ev.Button == ButtonPrimary:
		t.beginPress()
		t.setSelected(hit.ID)
		t.s.Gesture = GestureArmedDrag
		t.s.DragNode = hit.ID
		t.s.DragOffset = ev.Pos.Sub(hit.Pos)
		t.emit(Effect{Kind: EffectPin, NodeID: hit.ID})
		t.schedule(TimerArm, t.m.opts.ArmDelay, hit.ID)
	}
}

// beginPress clears whatever a primary press replaces: a stray gesture, an
// open context menu and a pending hover dwell.
func (t *transition) beginPress() {
	t.endGesture()
	if t.s.Overlay.Kind == OverlayContextMenu {
		t.closeOverlay()
	}
	t.cancel(TimerHover)
}

func (t *transition) pointerMove(ev Event) {
	t.hover(t.topmostID(ev.Pos))

	switch t.s.Gesture {
	case GestureDragging:
		t.emit(Effect{Kind: EffectMoveNode, NodeID: t.s.DragNode, Pos: ev.Pos.Sub(t.s.DragOffset)})
	case GestureDrawingLink:
		t.s.RubberBand = ev.Pos
	}
}

func (t *transition) pointerUp(ev Event) {
	if ev.Button != ButtonPrimary {
		return
	}
	switch t.s.Gesture {
	case GestureArmedDrag:
		node := t.s.DragNode
		t.endDrag()
		t.click(node)

	case GestureDragging:
		t.endDrag()

	case GestureDrawingLink:
		source := t.s.LinkSource
		t.s.LinkSource = ""
		t.s.RubberBand = graph.Vec2{}
		t.s.Gesture = GestureIdle

		ids := Within(t.g, ev.Pos, t.m.opts.HitRadius)
		if len(ids) != 1 {
			return
		}
		if ids[0] == source {
			t.click(source)
			return
		}
		t.emit(Effect{Kind: EffectAddLink, NodeID: source, Target: ids[0]})
	}
}

func (t *transition) click(id string) {
	t.s.LastClicked = id
	if t.s.ClickTimer != 0 {
		t.cancel(TimerClick)
		t.openInfo(id)
		return
	}
	t.schedule(TimerClick, t.m.opts.DoubleClickWindow, id)
}

func (t *transition) timerFired(token TimerToken) {
	if token == 0 {
		return
	}
	switch token {
	case t.s.ArmTimer:
		t.s.ArmTimer = 0
		if t.s.Gesture == GestureArmedDrag {
			t.s.Gesture = GestureDragging
		}

	case t.s.ClickTimer:
		// Single click: the selection already happened on press.
		t.s.ClickTimer = 0

	case t.s.HoverTimer:
		t.s.HoverTimer = 0
		if t.s.Gesture != GestureIdle || t.s.Hovered == "" {
			return
		}
		n, ok := t.g.Node(t.s.Hovered)
		if !ok {
			return
		}
		content := n.Info
		if content == "" {
			content = n.ID
		}
		t.s.Tooltip = Tooltip{
			Visible: true,
			NodeID:  n.ID,
			Content: content,
			Anchor:  graph.Vec2{X: n.Pos.X, Y: n.Pos.Y - t.m.opts.TooltipOffset},
		}
		t.emit(Effect{Kind: EffectShowTooltip, NodeID: n.ID, Tooltip: t.s.Tooltip})
	}
}

func (t *transition) topmostID(p graph.Vec2) string {
	n, ok := HitTest(t.g, p, t.m.opts.HitRadius)
	if !ok {
		return ""
	}
	return n.ID
}

func (t *transition) hover(id string) {
	if id == t.s.Hovered {
		return
	}
	if t.s.Hovered != "" {
		t.cancel(TimerHover)
		t.hideTooltip()
	}
	t.s.Hovered = id
	if id != "" && t.s.Gesture == GestureIdle {
		t.schedule(TimerHover, t.m.opts.HoverDwell, id)
	}
}

func (t *transition) hideTooltip() {
	if !t.s.Tooltip.Visible {
		return
	}
	t.emit(Effect{Kind: EffectHideTooltip, NodeID: t.s.Tooltip.NodeID})
	t.s.Tooltip = Tooltip{}
}

func (t *transition) contextAction(a ContextAction) {
	target := t.s.Selected
	if t.s.Overlay.Kind == OverlayContextMenu {
		target = t.s.Overlay.NodeID
		t.closeOverlay()
	}
	if target == "" {
		return
	}
	switch a {
	case ActionEditInfo:
		t.openInfo(target)
	case ActionChangeColor:
		t.openOn(OverlayColorPicker, target)
	}
}

func (t *transition) openRequested(kind OverlayKind) {
	switch kind {
	case OverlayInfo:
		t.openInfo(t.s.Selected)
	case OverlayLinkForm:
		t.openOverlay(Overlay{Kind: OverlayLinkForm, NodeID: t.s.Selected})
	case OverlayDeleteConfirm, OverlayColorPicker, OverlayContextMenu:
		t.openOn(kind, t.s.Selected)
	}
}

// openOn opens an overlay anchored at a node. A missing node opens nothing.
func (t *transition) openOn(kind OverlayKind, id string) {
	n, ok := t.g.Node(id)
	if !ok {
		return
	}
	t.openOverlay(Overlay{Kind: kind, Anchor: n.Pos, NodeID: id})
}

func (t *transition) openInfo(id string) {
	n, ok := t.g.Node(id)
	if !ok {
		return
	}
	t.setSelected(id)
	t.openOverlay(Overlay{
		Kind:   OverlayInfo,
		Anchor: n.Pos,
		NodeID: id,
		Text:   n.Info,
		Docked: t.m.opts.SidePanel,
	})
}

func (t *transition) openOverlay(o Overlay) {
	t.closeOverlay()
	t.s.Overlay = o
	t.emit(Effect{Kind: EffectOpenOverlay, NodeID: o.NodeID, Overlay: o})
}

func (t *transition) closeOverlay() {
	if t.s.Overlay.Kind == OverlayNone {
		return
	}
	t.emit(Effect{Kind: EffectCloseOverlay, NodeID: t.s.Overlay.NodeID, Overlay: t.s.Overlay})
	t.s.Overlay = Overlay{}
}

func (t *transition) endDrag() {
	if t.s.DragNode != "" {
		t.emit(Effect{Kind: EffectUnpin, NodeID: t.s.DragNode})
	}
	t.cancel(TimerArm)
	t.s.DragNode = ""
	t.s.DragOffset = graph.Vec2{}
	t.s.Gesture = GestureIdle
}

func (t *transition) endGesture() {
	switch t.s.Gesture {
	case GestureArmedDrag, GestureDragging:
		t.endDrag()
	case GestureDrawingLink:
		t.s.LinkSource = ""
		t.s.RubberBand = graph.Vec2{}
		t.s.Gesture = GestureIdle
	}
}
