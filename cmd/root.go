package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/axellelanca/linkbio/internal/config"
	"github.com/spf13/cobra"
)

// Cfg is the global variable that will contain the loaded configuration.
// It is accessible to all Cobra commands throughout the application.
var Cfg *config.Config

// RootCmd is the base command for the CLI application.
// The other commands (run-server, migrate, stats, upgrade) are added as
// subcommands.
var RootCmd = &cobra.Command{
	Use:   "linkbio",
	Short: "A link-in-bio application",
	Long: `A link-in-bio application: users manage a public profile page of
outbound links, visitors click through, and clicks and page views are
tracked for analytics.`,
}

// Execute is the main entry point for the Cobra application.
// It is called from main.go and handles command execution and error handling.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// init sets up configuration loading to run before any command executes.
// Commands register themselves via their own init() functions, which keeps
// the command tree modular and avoids import cycles.
func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig loads the application configuration.
// It is called at the beginning of every Cobra command execution thanks to
// cobra.OnInitialize set up above.
func initConfig() {
	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Printf("Warning: Problem loading configuration: %v. Using default values.", err)
	}
}
