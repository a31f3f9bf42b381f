package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/nodemap/internal/config"
	"github.com/roach88/nodemap/internal/document"
	"github.com/roach88/nodemap/internal/engine"
)

// newFormatter builds the formatter for a command. Verbose logs go to stderr
// so they never corrupt JSON output.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// readMap reads and decodes a map file. A missing file is a command error;
// a malformed one is a failure.
func readMap(path string) (document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Document{}, WrapExitError(ExitCommandError, "failed to read map", err)
	}
	doc, err := document.Decode(data)
	if err != nil {
		return document.Document{}, WrapExitError(ExitFailure, fmt.Sprintf("malformed map %s", path), err)
	}
	return doc, nil
}

// readMapOrEmpty is readMap, except a missing file yields an empty map.
func readMapOrEmpty(path string) (document.Document, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return document.Document{}, nil
	}
	return readMap(path)
}

// writeMap encodes doc to path.
func writeMap(path string, doc document.Document) error {
	data, err := document.Encode(doc)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to encode map", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write map", err)
	}
	return nil
}

// newEngine builds an engine for batch commands. A fixed seed makes spawn
// positions reproducible.
func newEngine(cfg config.Config, logger *slog.Logger, seed uint64, extra ...engine.Option) *engine.Engine {
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithSimConfig(cfg.Sim),
		engine.WithInteraction(cfg.Interaction),
		engine.WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))),
	}
	return engine.New(append(opts, extra...)...)
}

// reportError prints err through the formatter and returns it as an
// ExitError.
func reportError(f *OutputFormatter, err error) error {
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		exitErr = WrapExitError(ExitFailure, "command failed", err)
	}
	code := ErrCodeGeneric
	var malformed *document.MalformedDocumentError
	if errors.As(err, &malformed) {
		code = ErrCodeMalformed
	}
	_ = f.Error(code, exitErr.Error(), nil)
	return exitErr
}
