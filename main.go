package main

import (
	"github.com/axellelanca/linkbio/cmd"
	_ "github.com/axellelanca/linkbio/cmd/cli"
	_ "github.com/axellelanca/linkbio/cmd/server"
)

// main is the entry point of the application.
// The blank imports register the CLI subcommands with the root command
// through their init() functions.
func main() {
	cmd.Execute()
}
