// Command evosynth is the entry point for the tape-machine program-synthesis
// toolkit: genetic-algorithm and random-search engines, ad hoc interpretation,
// and results-shard aggregation, all exposed as cobra subcommands.
package main

import (
	"os"

	"github.com/evosynth/evosynth/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
