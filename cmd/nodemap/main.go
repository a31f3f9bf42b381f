// Command nodemap validates, settles, renders and archives node maps.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/nodemap/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands silence cobra's own error printing.
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
