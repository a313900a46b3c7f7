package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vrt/internal/config"
	"vrt/internal/storage"
	"vrt/internal/ui"
)

// FailsCommand handles the fails command
type FailsCommand struct {
	config  *config.Config
	storage storage.Storage
	viewer  ui.Viewer
}

// NewFailsCommand creates a new FailsCommand
func NewFailsCommand(cfg *config.Config, st storage.Storage, viewer ui.Viewer) *FailsCommand {
	return &FailsCommand{
		config:  cfg,
		storage: st,
		viewer:  viewer,
	}
}

// Execute runs the command
func (fc *FailsCommand) Execute(cmd *cobra.Command, args []string) error {
	results, err := fc.storage.Load()
	if err != nil {
		return fmt.Errorf("no results at %s, run the graphic tests first: %w", fc.config.GetOutputPath(), err)
	}

	if len(results.Details) == 0 {
		color.Green("No failures in the last run")
		return nil
	}

	return fc.viewer.View(results)
}
