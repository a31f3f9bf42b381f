package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/nodemap/internal/document"
	"github.com/roach88/nodemap/internal/library"
)

// DefaultDatabase is the library path used when neither --db nor
// NODEMAP_DB is set.
const DefaultDatabase = "nodemap.db"

// LibraryOptions holds flags shared by the library subcommands.
type LibraryOptions struct {
	*RootOptions
	Database string
}

// databasePath resolves --db, then $NODEMAP_DB, then the default.
func (o *LibraryOptions) databasePath() string {
	if o.Database != "" {
		return o.Database
	}
	if env := os.Getenv(EnvDatabase); env != "" {
		return env
	}
	return DefaultDatabase
}

func (o *LibraryOptions) open() (*library.Library, error) {
	lib, err := library.Open(o.databasePath())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open library", err)
	}
	return lib, nil
}

// NewLibraryCommand creates the library command group.
func NewLibraryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LibraryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "library",
		Short: "Archive maps in a SQLite library",
		Long: `Save, load, list and delete named maps in a SQLite library.

Every save of a changed map is kept as a revision. Saving a map whose
content is unchanged is a no-op.`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "library database (default $"+EnvDatabase+" or "+DefaultDatabase+")")

	cmd.AddCommand(newLibrarySaveCommand(opts))
	cmd.AddCommand(newLibraryLoadCommand(opts))
	cmd.AddCommand(newLibraryListCommand(opts))
	cmd.AddCommand(newLibraryHistoryCommand(opts))
	cmd.AddCommand(newLibraryDeleteCommand(opts))

	return cmd
}

// LibrarySaveResult reports a save.
type LibrarySaveResult struct {
	library.Entry
	Created bool `json:"created"`
}

func newLibrarySaveCommand(opts *LibraryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "save <name> <map.json>",
		Short:         "Save a map file under a name",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)

			doc, err := readMap(args[1])
			if err != nil {
				return reportError(formatter, err)
			}
			lib, err := opts.open()
			if err != nil {
				return reportError(formatter, err)
			}
			defer lib.Close()

			entry, created, err := lib.Save(cmd.Context(), args[0], doc)
			if err != nil {
				return reportError(formatter, WrapExitError(ExitFailure, "failed to save map", err))
			}

			if formatter.Format == "json" {
				return formatter.Success(LibrarySaveResult{Entry: entry, Created: created})
			}
			if !created {
				fmt.Fprintf(formatter.Writer, "%s %s unchanged (revision %s)\n", statusIcon(true), entry.Name, entry.Revision)
				return nil
			}
			fmt.Fprintf(formatter.Writer, "%s Saved %s revision %s (%d nodes, %d links)\n",
				statusIcon(true), entry.Name, entry.Revision, entry.Nodes, entry.Links)
			return nil
		},
	}
}

func newLibraryLoadCommand(opts *LibraryOptions) *cobra.Command {
	var output, revision string

	cmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Write a saved map to a file",
		Long: `Write the latest revision of a saved map, or the revision given with
--revision, to a file or stdout.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			if len(args) == 0 && revision == "" {
				return reportError(formatter, NewExitError(ExitCommandError, "a map name or --revision is required"))
			}

			lib, err := opts.open()
			if err != nil {
				return reportError(formatter, err)
			}
			defer lib.Close()

			doc, entry, err := loadEntry(cmd, lib, args, revision)
			if err != nil {
				if library.IsNotFound(err) {
					_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
					return WrapExitError(ExitFailure, "map not found", err)
				}
				return reportError(formatter, err)
			}

			if output == "" {
				if formatter.Format == "json" {
					return formatter.Success(doc)
				}
				data, err := document.Encode(doc)
				if err != nil {
					return reportError(formatter, err)
				}
				fmt.Fprintln(formatter.Writer, string(data))
				return nil
			}

			if err := writeMap(output, doc); err != nil {
				return reportError(formatter, err)
			}
			if formatter.Format == "json" {
				return formatter.Success(entry)
			}
			fmt.Fprintf(formatter.Writer, "%s Wrote %s revision %s to %s\n", statusIcon(true), entry.Name, entry.Revision, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&revision, "revision", "", "load this revision id")

	return cmd
}

func newLibraryListCommand(opts *LibraryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List saved maps",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)

			lib, err := opts.open()
			if err != nil {
				return reportError(formatter, err)
			}
			defer lib.Close()

			entries, err := lib.List(cmd.Context())
			if err != nil {
				return reportError(formatter, err)
			}
			return outputEntries(formatter, entries, "No maps saved.")
		},
	}
}

func newLibraryHistoryCommand(opts *LibraryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "history <name>",
		Short:         "List the revisions of a saved map",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)

			lib, err := opts.open()
			if err != nil {
				return reportError(formatter, err)
			}
			defer lib.Close()

			entries, err := lib.History(cmd.Context(), args[0])
			if err != nil {
				if library.IsNotFound(err) {
					_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
					return WrapExitError(ExitFailure, "map not found", err)
				}
				return reportError(formatter, err)
			}
			return outputEntries(formatter, entries, "")
		},
	}
}

func newLibraryDeleteCommand(opts *LibraryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a saved map and all its revisions",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)

			lib, err := opts.open()
			if err != nil {
				return reportError(formatter, err)
			}
			defer lib.Close()

			if err := lib.Delete(cmd.Context(), args[0]); err != nil {
				if library.IsNotFound(err) {
					_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
					return WrapExitError(ExitFailure, "map not found", err)
				}
				return reportError(formatter, err)
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(formatter.Writer, "%s Deleted %s\n", statusIcon(true), args[0])
			return nil
		},
	}
}

func loadEntry(cmd *cobra.Command, lib *library.Library, args []string, revision string) (document.Document, library.Entry, error) {
	if revision != "" {
		return lib.LoadRevision(cmd.Context(), revision)
	}
	return lib.Load(cmd.Context(), args[0])
}

// outputEntries prints library entries as a table or JSON.
func outputEntries(formatter *OutputFormatter, entries []library.Entry, empty string) error {
	if formatter.Format == "json" {
		if entries == nil {
			entries = []library.Entry{}
		}
		return formatter.Success(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, empty)
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREVISION\tNODES\tLINKS\tSEQ")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", e.Name, e.Revision, e.Nodes, e.Links, e.Seq)
	}
	return tw.Flush()
}
