package sim

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nodemap/internal/graph"
)

func storeWith(t *testing.T, nodes []graph.Node, links []graph.Link) *graph.Store {
	t.Helper()
	s := graph.NewStore(graph.WithRand(rand.New(rand.NewPCG(7, 7))))
	require.NoError(t, s.Replace(nodes, links))
	return s
}

func TestForces_Repulsion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CenterStiffness = 0
	s := New(cfg)

	nodes := []graph.Node{
		{ID: "A", Pos: graph.Vec2{X: 350, Y: 300}},
		{ID: "B", Pos: graph.Vec2{X: 450, Y: 300}},
	}
	f := s.Forces(nodes, nil)

	// (A-B) * 300 / 100^2
	assert.InDelta(t, -3.0, f[0].X, 1e-9)
	assert.InDelta(t, 0.0, f[0].Y, 1e-9)
	assert.InDelta(t, 3.0, f[1].X, 1e-9)
}

func TestForces_RepulsionCutoff(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CenterStiffness = 0
	s := New(cfg)

	nodes := []graph.Node{
		{ID: "A", Pos: graph.Vec2{X: 0, Y: 0}},
		{ID: "B", Pos: graph.Vec2{X: 200, Y: 0}},
	}
	f := s.Forces(nodes, nil)
	assert.Equal(t, graph.Vec2{}, f[0], "nodes at the cutoff distance do not repel")
}

func TestForces_CoincidentNodesSkipped(t *testing.T) {
	s := New(DefaultConfig())
	nodes := []graph.Node{
		{ID: "A", Pos: graph.Vec2{X: 100, Y: 100}},
		{ID: "B", Pos: graph.Vec2{X: 100, Y: 100}},
	}
	f := s.Forces(nodes, nil)
	for _, v := range f {
		assert.False(t, math.IsNaN(v.X) || math.IsNaN(v.Y), "coincident nodes must not produce NaN")
		assert.False(t, math.IsInf(v.X, 0) || math.IsInf(v.Y, 0))
	}
}

func TestForces_LinkSpringGrowsWithDistance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Repulsion = 0
	cfg.CenterStiffness = 0
	s := New(cfg)

	nodes := []graph.Node{
		{ID: "A", Pos: graph.Vec2{X: 0, Y: 0}},
		{ID: "B", Pos: graph.Vec2{X: 100, Y: 0}},
	}
	links := []graph.ResolvedLink{{Link: graph.Link{A: "A", B: "B"}}}
	f := s.Forces(nodes, links)

	// (B-A) * |B-A| * 0.0015
	assert.InDelta(t, 15.0, f[0].X, 1e-9)
	assert.InDelta(t, -15.0, f[1].X, 1e-9)

	nodes[1].Pos.X = 200
	far := s.Forces(nodes, links)
	assert.InDelta(t, 60.0, far[0].X, 1e-9, "doubling distance quadruples the pull")
}

func TestForces_Centering(t *testing.T) {
	cfg := DefaultConfig()
	s := New(cfg)
	f := s.Forces([]graph.Node{{ID: "A", Pos: graph.Vec2{X: 300, Y: 200}}}, nil)
	assert.InDelta(t, 0.5, f[0].X, 1e-9)
	assert.InDelta(t, 0.5, f[0].Y, 1e-9)
}

func TestStep_Integration(t *testing.T) {
	cfg := DefaultConfig()
	s := New(cfg)
	store := storeWith(t, []graph.Node{{ID: "A", Pos: graph.Vec2{X: 300, Y: 200}}}, nil)

	stats := s.Step(store, "")

	n, _ := store.Node("A")
	// vel = (0 + 0.5) * 0.9
	assert.InDelta(t, 0.45, n.Vel.X, 1e-9)
	assert.InDelta(t, 300.45, n.Pos.X, 1e-9)
	assert.Equal(t, 1, stats.Moved)
}

func TestStep_PinnedNodeIsSourceButNotReceiver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CenterStiffness = 0
	s := New(cfg)
	store := storeWith(t, []graph.Node{
		{ID: "A", Pos: graph.Vec2{X: 350, Y: 300}},
		{ID: "B", Pos: graph.Vec2{X: 450, Y: 300}},
	}, nil)

	s.Step(store, "A")

	a, _ := store.Node("A")
	b, _ := store.Node("B")
	assert.Equal(t, graph.Vec2{X: 350, Y: 300}, a.Pos, "pinned node stays put")
	assert.Equal(t, graph.Vec2{}, a.Vel)
	assert.Greater(t, b.Pos.X, 450.0, "pinned node still repels its neighbor")
}

func TestStep_DanglingLinksIgnored(t *testing.T) {
	nodes := []graph.Node{
		{ID: "A", Pos: graph.Vec2{X: 100, Y: 100}},
		{ID: "B", Pos: graph.Vec2{X: 600, Y: 500}},
	}
	with := storeWith(t, nodes, []graph.Link{{A: "A", B: "ghost"}})
	without := storeWith(t, nodes, nil)

	s := New(DefaultConfig())
	s.Step(with, "")
	s.Step(without, "")

	assert.Equal(t, without.Nodes(), with.Nodes())
}

func TestStep_StaysInsideBounds(t *testing.T) {
	for _, preset := range PresetNames() {
		t.Run(preset, func(t *testing.T) {
			cfg, err := Preset(preset)
			require.NoError(t, err)
			s := New(cfg)

			rng := rand.New(rand.NewPCG(42, uint64(len(preset))))
			store := graph.NewStore(graph.WithRand(rng))
			var ids []string
			for i := 0; i < 25; i++ {
				_, err := store.InsertNode(graph.Node{
					ID:  string(rune('a' + i)),
					Pos: graph.Vec2{X: rng.Float64()*1000 - 100, Y: rng.Float64()*800 - 100},
				})
				require.NoError(t, err)
				ids = append(ids, string(rune('a'+i)))
			}
			for i := 0; i < 40; i++ {
				store.AddLink(ids[rng.IntN(len(ids))], ids[rng.IntN(len(ids))])
			}

			for tick := 0; tick < 300; tick++ {
				s.Step(store, "")
				for _, n := range store.Nodes() {
					require.True(t, cfg.Bounds.Contains(n.Pos), "tick %d: %s at %v out of bounds", tick, n.ID, n.Pos)
				}
			}
		})
	}
}

func TestPreset(t *testing.T) {
	calm, err := Preset(PresetCalm)
	require.NoError(t, err)
	assert.Equal(t, 300.0, calm.Repulsion)
	assert.Equal(t, 0.9, calm.Damping)

	lively, err := Preset(PresetLively)
	require.NoError(t, err)
	assert.Equal(t, 600.0, lively.Repulsion)
	assert.Equal(t, 0.7, lively.Damping)

	_, err = Preset("bouncy")
	assert.Error(t, err)
	assert.Equal(t, []string{"calm", "lively"}, PresetNames())
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero cutoff", mutate: func(c *Config) { c.Cutoff = 0 }},
		{name: "zero damping", mutate: func(c *Config) { c.Damping = 0 }},
		{name: "damping above one", mutate: func(c *Config) { c.Damping = 1.5 }},
		{name: "negative repulsion", mutate: func(c *Config) { c.Repulsion = -1 }},
		{name: "inverted bounds", mutate: func(c *Config) { c.Bounds.MinX = 900 }},
		{name: "zero frame interval", mutate: func(c *Config) { c.FrameInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
