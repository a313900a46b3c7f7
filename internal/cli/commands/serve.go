package commands

import (
	"log"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vrt/internal/config"
	"vrt/internal/execution"
	"vrt/internal/server"
)

// ServeCommand handles the serve command
type ServeCommand struct {
	config   *config.Config
	launcher execution.Launcher
}

// NewServeCommand creates a new ServeCommand
func NewServeCommand(cfg *config.Config, launcher execution.Launcher) *ServeCommand {
	return &ServeCommand{
		config:   cfg,
		launcher: launcher,
	}
}

// Execute runs the command
func (sc *ServeCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	suite, err := config.LoadSuite(sc.config.GetSuitePath())
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "vrt: ", log.LstdFlags)
	srv := server.New(sc.config, sc.launcher, suite.Cases, logger)

	color.Green("Listening on %s", sc.config.ServerAddr)
	return srv.ListenAndServe(ctx)
}
