// Command soundview renders pre-computed acoustic-analytics views in the
// terminal.
package main

import (
	"os"

	"github.com/acousticlab/soundview/internal/cli"
	"github.com/acousticlab/soundview/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		// Cobra already printed the error.
		return 1
	}
	return 0
}
