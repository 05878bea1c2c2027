// Command aiassistbridge is a thin CLI demo over the orchestrator
// package, exposing scan/convert/write/backups/restore as Cobra
// subcommands. It contains no format-mapping logic of its own.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
