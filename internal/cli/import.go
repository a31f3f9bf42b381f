package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Seed uint64
}

// ImportResult lists the node ids created by an import.
type ImportResult struct {
	Map   string   `json:"map"`
	Nodes []string `json:"nodes"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <map.json> <file>...",
		Short: "Add text files to a map as nodes",
		Long: `Add each text file to a map as a new node.

The node id is the file name up to its first dot, and the file content
becomes the node's info. A taken id gets a numeric suffix (-2, -3, ...).
The map is created when it does not exist.

Example:
  nodemap import map.json notes/*.txt`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "random seed for spawn positions and colours")

	return cmd
}

func runImport(opts *ImportOptions, mapPath string, files []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := opts.LoadConfig()
	if err != nil {
		return reportError(formatter, err)
	}
	doc, err := readMapOrEmpty(mapPath)
	if err != nil {
		return reportError(formatter, err)
	}

	eng := newEngine(cfg, opts.Logger(cmd.ErrOrStderr()), opts.Seed)
	defer eng.Stop()
	if err := eng.LoadDocument(doc); err != nil {
		return reportError(formatter, WrapExitError(ExitFailure, "invalid map", err))
	}

	result := ImportResult{Map: mapPath, Nodes: make([]string, 0, len(files))}
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return reportError(formatter, WrapExitError(ExitCommandError, "failed to read "+f, err))
		}
		id, err := eng.ImportText(filepath.Base(f), string(content))
		if err != nil {
			return reportError(formatter, WrapExitError(ExitFailure, "failed to import "+f, err))
		}
		formatter.VerboseLog("Imported %s as %q", f, id)
		result.Nodes = append(result.Nodes, id)
	}

	if err := writeMap(mapPath, eng.Document()); err != nil {
		return reportError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	for _, id := range result.Nodes {
		fmt.Fprintf(formatter.Writer, "%s %s\n", statusIcon(true), id)
	}
	fmt.Fprintf(formatter.Writer, "Imported %d file(s) into %s\n", len(result.Nodes), mapPath)
	return nil
}
