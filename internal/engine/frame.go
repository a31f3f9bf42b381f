package engine

import (
	"github.com/roach88/nodemap/internal/graph"
	"github.com/roach88/nodemap/internal/interact"
)

// FrameNode is a node as drawn.
type FrameNode struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Pos      graph.Vec2 `json:"pos"`
	Color    string     `json:"color"`
	Selected bool       `json:"selected,omitempty"`
	Pinned   bool       `json:"pinned,omitempty"`
}

// FrameLink is a link with resolved endpoint positions.
type FrameLink struct {
	Source string     `json:"source"`
	Target string     `json:"target"`
	From   graph.Vec2 `json:"from"`
	To     graph.Vec2 `json:"to"`
}

// FrameOverlay is the open overlay as drawn.
type FrameOverlay struct {
	Kind   string     `json:"kind"`
	NodeID string     `json:"node,omitempty"`
	Anchor graph.Vec2 `json:"anchor"`
	Text   string     `json:"text,omitempty"`
	Docked bool       `json:"docked,omitempty"`
}

// FrameTooltip is the visible tooltip.
type FrameTooltip struct {
	NodeID  string     `json:"node"`
	Content string     `json:"content"`
	Anchor  graph.Vec2 `json:"anchor"`
}

// RubberBand is the transient segment drawn while a link is being drawn.
type RubberBand struct {
	From graph.Vec2 `json:"from"`
	To   graph.Vec2 `json:"to"`
}

// Frame is everything a renderer needs for one picture. Nil pointers mean
// the element is not shown.
type Frame struct {
	Seq        int64         `json:"seq"`
	Nodes      []FrameNode   `json:"nodes"`
	Links      []FrameLink   `json:"links"`
	Selected   string        `json:"selected,omitempty"`
	Overlay    *FrameOverlay `json:"overlay,omitempty"`
	Tooltip    *FrameTooltip `json:"tooltip,omitempty"`
	RubberBand *RubberBand   `json:"rubber_band,omitempty"`
	LinkMode   bool          `json:"link_mode"`
	Gesture    string        `json:"gesture"`
}

// Frame builds the render inputs for the current state.
func (e *Engine) Frame() Frame {
	return BuildFrame(e.store, e.session, e.clock.Current())
}

// BuildFrame builds render inputs from a store and session.
func BuildFrame(s *graph.Store, sess interact.Session, seq int64) Frame {
	nodes := s.Nodes()
	pinned := sess.Pinned()

	f := Frame{
		Seq:      seq,
		Nodes:    make([]FrameNode, 0, len(nodes)),
		Links:    []FrameLink{},
		Selected: sess.Selected,
		LinkMode: sess.LinkMode,
		Gesture:  sess.Gesture.String(),
	}
	for _, n := range nodes {
		f.Nodes = append(f.Nodes, FrameNode{
			ID:       n.ID,
			Label:    graph.Label(n.ID),
			Pos:      n.Pos,
			Color:    n.Color,
			Selected: n.ID == sess.Selected,
			Pinned:   n.ID == pinned,
		})
	}
	for _, l := range s.ResolvedLinks() {
		f.Links = append(f.Links, FrameLink{Source: l.A, Target: l.B, From: l.From, To: l.To})
	}

	if sess.Overlay.Kind != interact.OverlayNone {
		f.Overlay = &FrameOverlay{
			Kind:   sess.Overlay.Kind.String(),
			NodeID: sess.Overlay.NodeID,
			Anchor: sess.Overlay.Anchor,
			Text:   sess.Overlay.Text,
			Docked: sess.Overlay.Docked,
		}
	}
	if sess.Tooltip.Visible {
		f.Tooltip = &FrameTooltip{
			NodeID:  sess.Tooltip.NodeID,
			Content: sess.Tooltip.Content,
			Anchor:  sess.Tooltip.Anchor,
		}
	}
	if sess.Gesture == interact.GestureDrawingLink {
		if src, ok := s.Node(sess.LinkSource); ok {
			f.RubberBand = &RubberBand{From: src.Pos, To: sess.RubberBand}
		}
	}
	return f
}
