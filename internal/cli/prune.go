package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// PruneOptions holds flags for the prune command.
type PruneOptions struct {
	*RootOptions
	Output string
	DryRun bool
}

// PruneResult reports what prune removed.
type PruneResult struct {
	Removed int    `json:"removed"`
	Links   int    `json:"links"`
	Output  string `json:"output,omitempty"`
}

// NewPruneCommand creates the prune command.
func NewPruneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PruneOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "prune <map.json>",
		Short: "Remove dangling, self and duplicate links",
		Long: `Remove links that reference missing nodes, connect a node to itself
or repeat another link. The map is rewritten in place unless --output is
given.

Example:
  nodemap prune map.json
  nodemap prune map.json -o clean.json
  nodemap prune map.json --dry-run`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the pruned map here instead of in place")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report without writing")

	return cmd
}

func runPrune(opts *PruneOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := opts.LoadConfig()
	if err != nil {
		return reportError(formatter, err)
	}
	doc, err := readMap(path)
	if err != nil {
		return reportError(formatter, err)
	}

	eng := newEngine(cfg, opts.Logger(cmd.ErrOrStderr()), 0)
	defer eng.Stop()
	if err := eng.LoadDocument(doc); err != nil {
		return reportError(formatter, WrapExitError(ExitFailure, "invalid map", err))
	}

	result := PruneResult{Removed: eng.PruneDanglingLinks()}
	result.Links = len(eng.Store().Links())

	if !opts.DryRun {
		result.Output = path
		if opts.Output != "" {
			result.Output = opts.Output
		}
		if err := writeMap(result.Output, eng.Document()); err != nil {
			return reportError(formatter, err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "%s Removed %d link(s), %d remain\n", statusIcon(true), result.Removed, result.Links)
	if result.Output != "" {
		fmt.Fprintf(formatter.Writer, "  wrote %s\n", result.Output)
	}
	return nil
}
