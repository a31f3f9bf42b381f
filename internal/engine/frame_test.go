package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nodemap/internal/graph"
	"github.com/roach88/nodemap/internal/interact"
)

func TestFrame_NodesAndLinks(t *testing.T) {
	e := newTestEngine(t)
	e.place(t, "PhilosophyOfMind", 100, 100)
	e.place(t, "b", 300, 200)
	require.True(t, e.AddLink("PhilosophyOfMind", "b"))
	require.NoError(t, e.Store().Replace(e.Store().Nodes(), append(e.Store().Links(), graph.Link{A: "b", B: "ghost"})))

	f := e.Frame()

	require.Len(t, f.Nodes, 2)
	assert.Equal(t, "Philosophy...", f.Nodes[0].Label)
	assert.Equal(t, "b", f.Nodes[1].Label)
	require.Len(t, f.Links, 1, "dangling link is not drawn")
	assert.Equal(t, FrameLink{
		Source: "PhilosophyOfMind",
		Target: "b",
		From:   graph.Vec2{X: 100, Y: 100},
		To:     graph.Vec2{X: 300, Y: 200},
	}, f.Links[0])
	assert.Equal(t, "idle", f.Gesture)
	assert.Nil(t, f.Overlay)
	assert.Nil(t, f.Tooltip)
}

func TestFrame_SelectionAndOverlay(t *testing.T) {
	e := newTestEngine(t)
	e.place(t, "a", 100, 100)

	e.Dispatch(interact.PointerDown(110, 90, interact.ButtonSecondary))
	f := e.Frame()

	assert.Equal(t, "a", f.Selected)
	assert.True(t, f.Nodes[0].Selected)
	require.NotNil(t, f.Overlay)
	assert.Equal(t, "context-menu", f.Overlay.Kind)
	assert.Equal(t, graph.Vec2{X: 110, Y: 90}, f.Overlay.Anchor)
}

func TestFrame_PinnedWhileArmed(t *testing.T) {
	e := newTestEngine(t)
	e.place(t, "a", 100, 100)

	e.Dispatch(interact.PointerDown(100, 100, interact.ButtonPrimary))
	f := e.Frame()

	assert.True(t, f.Nodes[0].Pinned)
	assert.Equal(t, "armed-drag", f.Gesture)
}
