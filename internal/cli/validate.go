package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/nodemap/internal/document"
	"github.com/roach88/nodemap/internal/graph"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool              `json:"valid"`
	Nodes      int               `json:"nodes"`
	Links      int               `json:"links"`
	Digest     string            `json:"digest,omitempty"`
	Violations []graph.Violation `json:"violations,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <map.json>",
		Short: "Check a map file",
		Long: `Decode a map file strictly and check its links.

A malformed document, or links that reference missing nodes, connect a node
to itself or repeat another link, fail validation. Run prune to repair
link problems. The config file, when given, is validated too.

Exit codes:
  0 - Map is valid
  1 - Map is malformed or has link violations
  2 - Command error (missing file, bad config)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if _, err := opts.LoadConfig(); err != nil {
		return reportError(formatter, err)
	}

	doc, err := readMap(path)
	if err != nil {
		return reportError(formatter, err)
	}

	st := graph.NewStore()
	if err := doc.Apply(st); err != nil {
		return reportError(formatter, WrapExitError(ExitFailure, "invalid map", err))
	}
	digest, err := document.Digest(doc)
	if err != nil {
		return reportError(formatter, err)
	}

	result := ValidationResult{
		Valid:      true,
		Nodes:      st.Len(),
		Links:      len(st.Links()),
		Digest:     digest,
		Violations: st.Check(),
	}
	formatter.VerboseLog("Decoded %d node(s) and %d link(s) from %s", result.Nodes, result.Links, path)

	if len(result.Violations) > 0 {
		result.Valid = false
		return outputViolations(formatter, result)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "%s %s: %d nodes, %d links\n", statusIcon(true), path, result.Nodes, result.Links)
	fmt.Fprintf(formatter.Writer, "  digest %s\n", result.Digest)
	return nil
}

// outputViolations reports link violations. Violations are a validation
// failure (exit code 1).
func outputViolations(formatter *OutputFormatter, result ValidationResult) error {
	msg := fmt.Sprintf("validation failed with %d violation(s)", len(result.Violations))

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error:  &CLIError{Code: ErrCodeViolations, Message: msg},
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	fmt.Fprintf(formatter.Writer, "%s Validation failed\n\n", statusIcon(false))
	for _, v := range result.Violations {
		fmt.Fprintf(formatter.Writer, "  link %d (%s -> %s): %s\n", v.Index, v.Link.A, v.Link.B, v.Kind)
	}
	fmt.Fprintln(formatter.Writer)
	formatter.Warn("run 'nodemap prune' to remove them")
	return NewExitError(ExitFailure, msg)
}
