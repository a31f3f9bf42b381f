package sim

import (
	"fmt"
	"sort"
	"time"

	"github.com/roach88/nodemap/internal/graph"
)

// Config holds the force constants and integration bounds.
type Config struct {
	Repulsion       float64       `json:"repulsion"`        // k_rep
	Cutoff          float64       `json:"cutoff"`           // repulsion range R
	LinkStiffness   float64       `json:"link_stiffness"`   // k_link
	CenterStiffness float64       `json:"center_stiffness"` // k_center
	Damping         float64       `json:"damping"`
	Center          graph.Vec2    `json:"center"`
	Bounds          graph.Rect    `json:"bounds"`
	FrameInterval   time.Duration `json:"frame_interval"`
}

// Preset names.
const (
	PresetCalm   = "calm"
	PresetLively = "lively"
)

// DefaultPreset is used when no preset is configured.
const DefaultPreset = PresetCalm

var presets = map[string]Config{
	// Settles quickly with little overshoot.
	PresetCalm: base(300, 0.9),
	// Stronger push, lighter damping; visibly springy.
	PresetLively: base(600, 0.7),
}

func base(repulsion, damping float64) Config {
	return Config{
		Repulsion:       repulsion,
		Cutoff:          200,
		LinkStiffness:   0.0015,
		CenterStiffness: 0.005,
		Damping:         damping,
		Center:          graph.Vec2{X: 400, Y: 300},
		Bounds:          graph.Rect{MinX: 30, MaxX: 770, MinY: 30, MaxY: 570},
		FrameInterval:   16 * time.Millisecond,
	}
}

// Preset returns the named preset.
func Preset(name string) (Config, error) {
	c, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown simulation preset %q: must be one of %v", name, PresetNames())
	}
	return c, nil
}

// PresetNames lists the known presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DefaultConfig returns the default preset.
func DefaultConfig() Config {
	return presets[DefaultPreset]
}

// Validate rejects constants the integrator cannot work with.
func (c Config) Validate() error {
	if c.Cutoff <= 0 {
		return fmt.Errorf("cutoff must be positive, got %v", c.Cutoff)
	}
	if c.Repulsion < 0 || c.LinkStiffness < 0 || c.CenterStiffness < 0 {
		return fmt.Errorf("force constants must be non-negative")
	}
	if c.Damping <= 0 || c.Damping > 1 {
		return fmt.Errorf("damping must be in (0, 1], got %v", c.Damping)
	}
	if c.Bounds.MinX > c.Bounds.MaxX || c.Bounds.MinY > c.Bounds.MaxY {
		return fmt.Errorf("bounds are inverted: %+v", c.Bounds)
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("frame interval must be positive, got %v", c.FrameInterval)
	}
	return nil
}
