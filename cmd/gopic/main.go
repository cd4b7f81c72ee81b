// Command gopic inspects, indexes, converts and plots the dumps of
// particle-in-cell simulations.
package main

import (
	"fmt"
	"os"

	"github.com/rmera/gopic/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gopic:", err)
		os.Exit(cli.ExitCode(err))
	}
}
