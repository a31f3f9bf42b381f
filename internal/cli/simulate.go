package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/nodemap/internal/engine"
	"github.com/roach88/nodemap/internal/sim"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Frames   int
	Duration time.Duration
	Seed     uint64
	Output   string
}

// SimulateResult summarizes a simulation run.
type SimulateResult struct {
	Frames int     `json:"frames"`
	Nodes  int     `json:"nodes"`
	Links  int     `json:"links"`
	Energy float64 `json:"energy"`
	Output string  `json:"output,omitempty"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <map.json>",
		Short: "Settle a map's layout with the force simulation",
		Long: `Load a map and advance the force simulation.

By default the simulation is stepped --frames times as fast as possible.
With --duration the engine loop runs in real time at the configured frame
interval until the duration elapses or the process is interrupted.

The settled map is written back in place unless --output is given.

Example:
  nodemap simulate map.json --frames 500
  nodemap simulate map.json --duration 5s -o settled.json
  nodemap simulate map.json --config lively.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Frames, "frames", 300, "number of simulation frames")
	cmd.Flags().DurationVar(&opts.Duration, "duration", 0, "run the live loop for this long instead of a frame count")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "random seed")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the settled map here instead of in place")

	return cmd
}

func runSimulate(opts *SimulateOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	if opts.Frames < 0 {
		return reportError(formatter, NewExitError(ExitCommandError, "--frames must not be negative"))
	}

	cfg, err := opts.LoadConfig()
	if err != nil {
		return reportError(formatter, err)
	}
	doc, err := readMap(path)
	if err != nil {
		return reportError(formatter, err)
	}

	var result SimulateResult
	listener := func(r engine.Record) {
		if r.Kind == engine.RecordTick {
			result.Frames++
			result.Energy = r.Stats.Energy
		}
	}
	logger := opts.Logger(cmd.ErrOrStderr())
	eng := newEngine(cfg, logger, opts.Seed, engine.WithListener(listener))
	if err := eng.LoadDocument(doc); err != nil {
		return reportError(formatter, WrapExitError(ExitFailure, "invalid map", err))
	}

	if opts.Duration > 0 {
		if err := runLive(cmd.Context(), eng, opts.Duration, logger); err != nil {
			return reportError(formatter, err)
		}
	} else {
		settle(eng, opts.Frames)
		eng.Stop()
	}

	result.Nodes = eng.Store().Len()
	result.Links = len(eng.Store().Links())
	result.Output = path
	if opts.Output != "" {
		result.Output = opts.Output
	}
	if err := writeMap(result.Output, eng.Document()); err != nil {
		return reportError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "%s Simulated %d frame(s) of %d nodes, %d links (energy %.4f)\n",
		statusIcon(true), result.Frames, result.Nodes, result.Links, result.Energy)
	fmt.Fprintf(formatter.Writer, "  wrote %s\n", result.Output)
	return nil
}

// runLive drives the engine loop in real time until d elapses or the process
// receives SIGINT/SIGTERM. Run returns on the calling goroutine, so the
// engine may be read directly afterwards.
func runLive(parent context.Context, eng *engine.Engine, d time.Duration, logger *slog.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	logger.Info("simulation starting", "duration", d, "session", eng.SessionID())
	err := eng.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return WrapExitError(ExitFailure, "engine error", err)
	}
	logger.Info("simulation stopped")
	return nil
}

// settle advances the simulation n frames. Used by commands that lay a map
// out before presenting it.
func settle(eng *engine.Engine, n int) sim.StepStats {
	var stats sim.StepStats
	for i := 0; i < n; i++ {
		stats = eng.Tick()
	}
	return stats
}
