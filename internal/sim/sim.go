package sim

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/roach88/nodemap/internal/graph"
)

// Simulator applies one force step per call.
type Simulator struct {
	cfg Config
}

// New creates a simulator with cfg. Callers validate cfg beforehand.
func New(cfg Config) *Simulator {
	return &Simulator{cfg: cfg}
}

// Config returns the simulator's constants.
func (s *Simulator) Config() Config { return s.cfg }

// StepStats summarizes one step.
type StepStats struct {
	Moved int // nodes that received an update
	// Energy is the sum of squared velocities after the step.
	Energy float64
}

// Step advances every node except pinned by one frame.
//
// All forces are computed from the positions at the start of the step. The
// pinned node (an active drag target, or "" for none) is left where the
// pointer put it but still pushes and pulls every other node.
func (s *Simulator) Step(store *graph.Store, pinned string) StepStats {
	nodes := store.Nodes()
	forces := s.Forces(nodes, store.ResolvedLinks())

	var stats StepStats
	for i, n := range nodes {
		if n.ID == pinned {
			continue
		}
		vel := r2.Scale(s.cfg.Damping, r2.Add(n.Vel.R2(), forces[i].R2()))
		pos := s.cfg.Bounds.Clamp(graph.FromR2(r2.Add(n.Pos.R2(), vel)))
		store.SetVelocity(n.ID, graph.FromR2(vel))
		store.SetPosition(n.ID, pos)
		stats.Moved++
		stats.Energy += r2.Norm2(vel)
	}
	return stats
}

// Forces returns the net force on each node, indexed like nodes. Links
// must already be resolved; dangling links never reach this point.
func (s *Simulator) Forces(nodes []graph.Node, links []graph.ResolvedLink) []graph.Vec2 {
	acc := make([]r2.Vec, len(nodes))
	pos := make([]r2.Vec, len(nodes))
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
		pos[i] = n.Pos.R2()
	}

	// Repulsion, O(N^2). Coincident and out-of-range pairs contribute nothing.
	for i := range pos {
		for j := range pos {
			if i == j {
				continue
			}
			d := r2.Sub(pos[i], pos[j])
			dist := r2.Norm(d)
			if dist > 0 && dist < s.cfg.Cutoff {
				acc[i] = r2.Add(acc[i], r2.Scale(s.cfg.Repulsion/(dist*dist), d))
			}
		}
	}

	// Link springs: pull grows with distance, no rest length.
	for _, l := range links {
		if l.A == l.B {
			continue
		}
		a, b := index[l.A], index[l.B]
		d := r2.Sub(pos[b], pos[a])
		pull := r2.Scale(r2.Norm(d)*s.cfg.LinkStiffness, d)
		acc[a] = r2.Add(acc[a], pull)
		acc[b] = r2.Sub(acc[b], pull)
	}

	// Centering.
	center := s.cfg.Center.R2()
	for i := range pos {
		acc[i] = r2.Add(acc[i], r2.Scale(s.cfg.CenterStiffness, r2.Sub(center, pos[i])))
	}

	forces := make([]graph.Vec2, len(acc))
	for i, f := range acc {
		forces[i] = graph.FromR2(f)
	}
	return forces
}
