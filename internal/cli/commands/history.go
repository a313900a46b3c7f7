package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"vrt/internal/config"
	"vrt/internal/storage"
	"vrt/internal/ui"
)

// ErrNoHistory is returned when no history database is configured
var ErrNoHistory = errors.New("history is disabled, set VRT_HISTORY_DSN")

// HistoryCommand handles the history command
type HistoryCommand struct {
	config    *config.Config
	formatter *ui.Formatter
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(cfg *config.Config, formatter *ui.Formatter) *HistoryCommand {
	return &HistoryCommand{
		config:    cfg,
		formatter: formatter,
	}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	if hc.config.HistoryDSN == "" {
		return ErrNoHistory
	}

	history, err := storage.OpenHistory(cmd.Context(), hc.config.HistoryDriver, hc.config.HistoryDSN)
	if err != nil {
		return err
	}
	defer history.Close()

	rows, err := history.Recent(cmd.Context(), hc.config.Flags.HistoryLimit)
	if err != nil {
		return err
	}
	hc.formatter.PrintHistory(rows)
	return nil
}
