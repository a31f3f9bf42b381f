package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nodemap/internal/graph"
	"github.com/roach88/nodemap/internal/interact"
	"github.com/roach88/nodemap/internal/sim"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, sim.PresetCalm, cfg.Preset)
	assert.Equal(t, sim.DefaultConfig(), cfg.Sim)
	assert.Equal(t, interact.DefaultOptions(), cfg.Interaction)
	assert.Equal(t, Canvas{Width: 800, Height: 600, Margin: 30}, cfg.Canvas)
}

func TestParse_Preset(t *testing.T) {
	cfg, err := Parse("editor.cue", []byte(`preset: "lively"`))
	require.NoError(t, err)

	assert.Equal(t, 600.0, cfg.Sim.Repulsion)
	assert.Equal(t, 0.7, cfg.Sim.Damping)
	assert.Equal(t, "editor.cue", cfg.Source)
}

func TestParse_Overrides(t *testing.T) {
	src := `
preset: "calm"
simulation: {
	damping: 0.5
	frame_interval_ms: 33
}
interaction: {
	hover_dwell_ms: 800
	link_mode: false
	side_panel: true
}
canvas: {
	width: 1000
	height: 500
	margin: 20
}
`
	cfg, err := Parse("editor.cue", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, 300.0, cfg.Sim.Repulsion, "preset value kept")
	assert.Equal(t, 0.5, cfg.Sim.Damping)
	assert.Equal(t, 33*time.Millisecond, cfg.Sim.FrameInterval)
	assert.Equal(t, graph.Rect{MinX: 20, MaxX: 980, MinY: 20, MaxY: 480}, cfg.Sim.Bounds)
	assert.Equal(t, graph.Vec2{X: 500, Y: 250}, cfg.Sim.Center)

	assert.Equal(t, 800*time.Millisecond, cfg.Interaction.HoverDwell)
	assert.Equal(t, 100*time.Millisecond, cfg.Interaction.ArmDelay)
	assert.False(t, cfg.Interaction.LinkModeAvailable)
	assert.True(t, cfg.Interaction.SidePanel)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown preset", `preset: "frantic"`},
		{"unknown field", `colour: "red"`},
		{"wrong type", `interaction: hover_dwell_ms: "slow"`},
		{"damping above one", `simulation: damping: 1.5`},
		{"negative repulsion", `simulation: repulsion: -1`},
		{"syntax error", `preset: `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.cue", []byte(tt.src))
			require.Error(t, err)
			assert.True(t, IsConfigError(err), "expected *config.Error, got %T: %v", err, err)
		})
	}
}

func TestParse_ErrorNamesField(t *testing.T) {
	_, err := Parse("bad.cue", []byte("preset: \"calm\"\ninteraction: arm_delay_ms: -5\n"))
	require.Error(t, err)

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), "arm_delay_ms")
}

func TestParse_MarginLargerThanCanvas(t *testing.T) {
	_, err := Parse("bad.cue", []byte(`canvas: { width: 40, margin: 30 }`))
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodemap.cue")
	require.NoError(t, os.WriteFile(path, []byte(`preset: "lively"`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sim.PresetLively, cfg.Preset)

	_, err = Load(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)
	assert.False(t, IsConfigError(err))
}
