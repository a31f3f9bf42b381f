package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/nodemap/internal/graph"
	"github.com/roach88/nodemap/internal/interact"
	"github.com/roach88/nodemap/internal/sim"
)

//go:embed schema.cue
var schemaSource string

// File mirrors #Config as decoded from CUE.
type File struct {
	Preset      string               `json:"preset"`
	Simulation  *SimulationOverrides `json:"simulation,omitempty"`
	Interaction Interaction          `json:"interaction"`
	Canvas      Canvas               `json:"canvas"`
}

// SimulationOverrides replace individual preset parameters.
type SimulationOverrides struct {
	Repulsion       *float64 `json:"repulsion,omitempty"`
	Cutoff          *float64 `json:"cutoff,omitempty"`
	LinkStiffness   *float64 `json:"link_stiffness,omitempty"`
	CenterStiffness *float64 `json:"center_stiffness,omitempty"`
	Damping         *float64 `json:"damping,omitempty"`
	FrameIntervalMS *int     `json:"frame_interval_ms,omitempty"`
}

// Interaction holds pointer timings and feature switches.
type Interaction struct {
	HitRadius     float64 `json:"hit_radius"`
	ArmDelayMS    int     `json:"arm_delay_ms"`
	DoubleClickMS int     `json:"double_click_ms"`
	HoverDwellMS  int     `json:"hover_dwell_ms"`
	LinkMode      bool    `json:"link_mode"`
	SidePanel     bool    `json:"side_panel"`
}

// Canvas is the drawing surface. Nodes are kept Margin away from its edges.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"`
}

// Bounds returns the rectangle node centres are clamped to.
func (c Canvas) Bounds() graph.Rect {
	return graph.Rect{MinX: c.Margin, MaxX: c.Width - c.Margin, MinY: c.Margin, MaxY: c.Height - c.Margin}
}

// Center returns the canvas centre.
func (c Canvas) Center() graph.Vec2 {
	return graph.Vec2{X: c.Width / 2, Y: c.Height / 2}
}

// Config is the resolved editor configuration.
type Config struct {
	Source      string
	Preset      string
	Sim         sim.Config
	Interaction interact.Options
	Canvas      Canvas
}

// Default returns the configuration of an empty file.
func Default() Config {
	cfg, err := Parse("default.cue", nil)
	if err != nil {
		panic(fmt.Sprintf("embedded config schema: %v", err))
	}
	return cfg
}

// Load reads and resolves a CUE configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, data)
}

// Parse resolves CUE source against the schema. filename is used in error
// positions.
func Parse(filename string, data []byte) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	user := ctx.CompileBytes(data, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}

	merged := def.Unify(user)
	if err := merged.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	var f File
	if err := merged.Decode(&f); err != nil {
		return Config{}, formatCUEError(err)
	}
	return resolve(filename, f)
}

// resolve turns a decoded file into engine settings.
func resolve(source string, f File) (Config, error) {
	simCfg, err := sim.Preset(f.Preset)
	if err != nil {
		return Config{}, &Error{Field: "preset", Message: err.Error()}
	}
	if o := f.Simulation; o != nil {
		setFloat(&simCfg.Repulsion, o.Repulsion)
		setFloat(&simCfg.Cutoff, o.Cutoff)
		setFloat(&simCfg.LinkStiffness, o.LinkStiffness)
		setFloat(&simCfg.CenterStiffness, o.CenterStiffness)
		setFloat(&simCfg.Damping, o.Damping)
		if o.FrameIntervalMS != nil {
			simCfg.FrameInterval = ms(*o.FrameIntervalMS)
		}
	}
	simCfg.Bounds = f.Canvas.Bounds()
	simCfg.Center = f.Canvas.Center()
	if err := simCfg.Validate(); err != nil {
		return Config{}, &Error{Field: "simulation", Message: err.Error()}
	}

	opts := interact.DefaultOptions()
	opts.HitRadius = f.Interaction.HitRadius
	opts.ArmDelay = ms(f.Interaction.ArmDelayMS)
	opts.DoubleClickWindow = ms(f.Interaction.DoubleClickMS)
	opts.HoverDwell = ms(f.Interaction.HoverDwellMS)
	opts.LinkModeAvailable = f.Interaction.LinkMode
	opts.SidePanel = f.Interaction.SidePanel

	return Config{
		Source:      source,
		Preset:      f.Preset,
		Sim:         simCfg,
		Interaction: opts,
		Canvas:      f.Canvas,
	}, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
