package main

import (
	"fmt"
	"os"

	"vrt/internal/cli"
	"vrt/internal/cli/commands"
	"vrt/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "vrt",
		Short:         "Visual regression tests for graphics demos",
		Long:          `Launch each graphics demo, capture its window and compare the capture with a stored reference image. Also serves an HTTP endpoint that runs a demo's built-in graphic test.`,
		Version:       version,
		SilenceErrors: true,
	}

	// Defaults, then .env and VRT_* variables; flags are applied once parsed
	cfg := config.Load(config.Flags{})

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
