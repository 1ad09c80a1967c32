// Command edesigner is the CLI entry point for the library design engine:
// classifying building blocks, growing designs, and (via design-worker)
// running the distributed cycle-expansion variant.
package main

import (
	"os"

	"github.com/dnaenc/edesigner/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
}

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
