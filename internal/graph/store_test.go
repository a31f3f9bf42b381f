package graph

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a store with a fixed random source.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(WithRand(rand.New(rand.NewPCG(1, 2))))
}

// mustInsert places a node at (x, y) or fails the test.
func mustInsert(t *testing.T, s *Store, id string, x, y float64) {
	t.Helper()
	_, err := s.InsertNode(Node{ID: id, Pos: Vec2{X: x, Y: y}, Color: Palette[0]})
	require.NoError(t, err)
}

// assertInvariants checks the store invariants that every mutator preserves.
func assertInvariants(t *testing.T, s *Store) {
	t.Helper()
	assert.Empty(t, s.Check(), "store should have no invariant violations")
	ids := make(map[string]bool)
	for _, n := range s.Nodes() {
		assert.False(t, ids[n.ID], "duplicate node id %q", n.ID)
		ids[n.ID] = true
	}
}

func TestStore_AddNode(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddNode("Stoicism", "virtue")
	require.NoError(t, err)
	assert.Equal(t, "Stoicism", id)

	n, ok := s.Node("Stoicism")
	require.True(t, ok)
	assert.Equal(t, "virtue", n.Info)
	assert.True(t, DefaultSpawn.Contains(n.Pos), "spawn position %v outside spawn rect", n.Pos)
	assert.True(t, IsPaletteColor(n.Color), "color %q not in palette", n.Color)
	assert.Equal(t, Vec2{}, n.Vel)
}

func TestStore_AddNode_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddNode("A", "first")
	require.NoError(t, err)

	_, err = s.AddNode("A", "second")
	require.Error(t, err)
	assert.True(t, IsDuplicateID(err))

	n, _ := s.Node("A")
	assert.Equal(t, "first", n.Info, "store should be unchanged")
	assert.Equal(t, 1, s.Len())
}

func TestStore_AddNode_NormalizesID(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddNode("  Cafe\u0301  ", "")
	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9", id, "id should be trimmed and NFC normalized")

	_, err = s.AddNode("Caf\u00e9", "")
	assert.True(t, IsDuplicateID(err), "composed and decomposed forms are the same id")

	_, err = s.AddNode("   ", "")
	assert.True(t, IsInvalidID(err))
}

func TestStore_AddLink_Idempotent(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, "A", 0, 0)
	mustInsert(t, s, "B", 100, 0)

	assert.True(t, s.AddLink("A", "B"))
	assert.False(t, s.AddLink("A", "B"), "same order is a no-op")
	assert.False(t, s.AddLink("B", "A"), "reverse order is a no-op")

	require.Len(t, s.Links(), 1)
	assert.Equal(t, Link{A: "A", B: "B"}, s.Links()[0])
	assertInvariants(t, s)
}

func TestStore_AddLink_Rejects(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, "A", 0, 0)

	assert.False(t, s.AddLink("A", "A"), "self link")
	assert.False(t, s.AddLink("A", "ghost"), "missing endpoint")
	assert.Empty(t, s.Links())
}

func TestStore_DeleteNode_Cascades(t *testing.T) {
	s := newTestStore(t)
	for i, id := range []string{"X", "A", "B", "C"} {
		mustInsert(t, s, id, float64(i*50), 0)
	}
	s.AddLink("X", "A")
	s.AddLink("B", "X")
	s.AddLink("A", "B")
	s.AddLink("B", "C")

	s.DeleteNode("X")

	assert.False(t, s.Has("X"))
	assert.Equal(t, []Link{{A: "A", B: "B"}, {A: "B", B: "C"}}, s.Links())
	for _, id := range []string{"A", "B", "C"} {
		n, ok := s.Node(id)
		require.True(t, ok, "node %s should survive", id)
		assert.Equal(t, id, n.ID)
	}
	assertInvariants(t, s)

	// Idempotent
	s.DeleteNode("X")
	assert.Equal(t, 3, s.Len())
}

func TestStore_RenameNode_Cascades(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, "X", 0, 0)
	mustInsert(t, s, "A", 10, 0)
	mustInsert(t, s, "B", 20, 0)
	s.AddLink("X", "A")
	s.AddLink("B", "X")

	require.NoError(t, s.RenameNode("X", "Y"))

	assert.False(t, s.Has("X"))
	assert.True(t, s.Has("Y"))
	assert.Equal(t, []Link{{A: "Y", B: "A"}, {A: "B", B: "Y"}}, s.Links())
	assertInvariants(t, s)
}

func TestStore_RenameNode_DuplicateLeavesStoreUntouched(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, "X", 0, 0)
	mustInsert(t, s, "Y", 10, 0)
	s.AddLink("X", "Y")
	before := s.Links()

	err := s.RenameNode("X", "Y")
	require.Error(t, err)
	assert.True(t, IsDuplicateID(err))
	assert.True(t, s.Has("X"))
	assert.Equal(t, before, s.Links())
}

func TestStore_RenameNode_EdgeCases(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, "X", 0, 0)

	assert.NoError(t, s.RenameNode("X", "X"), "rename to self is a no-op")
	assert.True(t, IsNodeNotFound(s.RenameNode("nope", "Z")))
	assert.True(t, IsInvalidID(s.RenameNode("X", "  ")))
}

func TestStore_SetColorAndInfo(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, "A", 0, 0)

	require.NoError(t, s.SetColor("A", Palette[5]))
	require.NoError(t, s.SetInfo("A", "notes"))
	n, _ := s.Node("A")
	assert.Equal(t, Palette[5], n.Color)
	assert.Equal(t, "notes", n.Info)

	assert.True(t, IsNodeNotFound(s.SetColor("B", Palette[0])))
	assert.True(t, IsNodeNotFound(s.SetInfo("B", "")))
}

func TestStore_ImportTextAsNode(t *testing.T) {
	s := newTestStore(t)

	id, err := s.ImportTextAsNode("notes/meditations.txt", "Book II")
	require.NoError(t, err)
	assert.Equal(t, "meditations", id)
	n, _ := s.Node(id)
	assert.Equal(t, "Book II", n.Info)

	id, err = s.ImportTextAsNode("meditations.md", "again")
	require.NoError(t, err)
	assert.Equal(t, "meditations-2", id)

	id, err = s.ImportTextAsNode(".hidden", "dotfile")
	require.NoError(t, err)
	assert.Equal(t, DefaultImportID, id)
}

func TestStore_ReplaceKeepsDanglingLinks(t *testing.T) {
	s := newTestStore(t)
	err := s.Replace(
		[]Node{{ID: "A", Pos: Vec2{X: 1, Y: 2}, Vel: Vec2{X: 9, Y: 9}}, {ID: "B"}},
		[]Link{{A: "A", B: "B"}, {A: "A", B: "ghost"}},
	)
	require.NoError(t, err)

	assert.Len(t, s.Links(), 2, "links are installed verbatim")
	resolved := s.ResolvedLinks()
	require.Len(t, resolved, 1, "dangling link is not resolvable")
	assert.Equal(t, Vec2{X: 1, Y: 2}, resolved[0].From)

	n, _ := s.Node("A")
	assert.Equal(t, Vec2{}, n.Vel, "velocity is reset on load")

	v := s.Check()
	require.Len(t, v, 1)
	assert.Equal(t, ViolationMissingTarget, v[0].Kind)
	assert.Equal(t, 1, v[0].Index)
}

func TestStore_ReplaceRejectsDuplicateIDs(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, "keep", 0, 0)

	err := s.Replace([]Node{{ID: "A"}, {ID: "A"}}, nil)
	assert.True(t, IsDuplicateID(err))
	assert.True(t, s.Has("keep"), "store should be unchanged")
}

func TestStore_ReplaceNormalizesIDs(t *testing.T) {
	s := newTestStore(t)
	err := s.Replace(
		[]Node{{ID: " a "}, {ID: "cafe\u0301"}},
		[]Link{{A: "a\t", B: " caf\u00e9"}},
	)
	require.NoError(t, err)

	assert.True(t, s.Has("a"))
	assert.True(t, s.Has("caf\u00e9"))
	assert.Equal(t, []Link{{A: "a", B: "caf\u00e9"}}, s.Links())
}

func TestStore_ReplaceRejectsIDsThatNormalizeTogether(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, "keep", 0, 0)

	err := s.Replace([]Node{{ID: "a"}, {ID: " a"}}, nil)
	assert.True(t, IsDuplicateID(err))

	err = s.Replace([]Node{{ID: "  "}}, nil)
	assert.True(t, IsInvalidID(err))
	assert.True(t, s.Has("keep"), "store should be unchanged")
}

func TestStore_PruneDanglingLinks(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Replace(
		[]Node{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		[]Link{
			{A: "A", B: "B"},
			{A: "B", B: "A"},
			{A: "C", B: "C"},
			{A: "ghost", B: "A"},
			{A: "B", B: "C"},
		},
	))

	removed := s.PruneDanglingLinks()

	assert.Equal(t, 3, removed)
	assert.Equal(t, []Link{{A: "A", B: "B"}, {A: "B", B: "C"}}, s.Links())
	assertInvariants(t, s)
}

func TestStore_Neighbors(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Replace(
		[]Node{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		[]Link{{A: "A", B: "B"}, {A: "C", B: "A"}, {A: "A", B: "ghost"}},
	))

	assert.Equal(t, []string{"B", "C"}, s.Neighbors("A"))
	assert.Equal(t, []string{"A"}, s.Neighbors("B"))
}

func TestStore_MoveTo(t *testing.T) {
	s := newTestStore(t)
	mustInsert(t, s, "A", 0, 0)
	s.SetVelocity("A", Vec2{X: 3, Y: 4})

	assert.True(t, s.MoveTo("A", Vec2{X: 10, Y: 20}))
	n, _ := s.Node("A")
	assert.Equal(t, Vec2{X: 10, Y: 20}, n.Pos)
	assert.Equal(t, Vec2{}, n.Vel)
	assert.False(t, s.MoveTo("missing", Vec2{}))
}
