// Command ctsim is a batch driver over the reconstruction pipeline: it
// stands in for the interactive GUI's command surface (out of core
// scope, per spec.md §1) with four subcommands that exercise
// phantom → project → filter → backproject end to end from the shell.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
