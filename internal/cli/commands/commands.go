package commands

import (
	"vrt/internal/cli"
	"vrt/internal/config"
	"vrt/internal/discovery"
	"vrt/internal/execution"
	"vrt/internal/storage"
	"vrt/internal/ui"
	"vrt/internal/window"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	List    *ListCommand
	Serve   *ServeCommand
	Fails   *FailsCommand
	History *HistoryCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	// Initialize dependencies
	filter := discovery.NewFilter()
	launcher := execution.NewExecLauncher()
	killer := execution.NewProcessKiller()
	capturer := window.NewScreenCapturer()
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg)
	failureViewer := ui.NewFailureViewer(jsonStorage)

	return &Commands{
		Run:     NewRunCommand(cfg, filter, launcher, killer, capturer, jsonStorage, formatter, failureViewer),
		List:    NewListCommand(cfg, filter, formatter, jsonStorage),
		Serve:   NewServeCommand(cfg, launcher),
		Fails:   NewFailsCommand(cfg, jsonStorage, failureViewer),
		History: NewHistoryCommand(cfg, formatter),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Update config with flags after parsing
	applyFlags := func(cmd *cobra.Command, args []string) error {
		cfg.ApplyFlags(flags.ToConfigFlags())
		return nil
	}

	rootCmd.PersistentFlags().StringVarP(&flags.SuiteFile, "suite", "s", "", "Suite file listing the graphic test cases (default "+config.DefaultSuiteFile+")")

	// Run command
	runCmd := &cobra.Command{
		Use:          "run",
		Short:        "Run the graphic tests",
		Long:         "Launch each demo, capture its window and compare it byte-for-byte with the reference image. Exits non-zero if any case fails.",
		RunE:         c.Run.Execute,
		PreRunE:      applyFlags,
		SilenceUsage: true,
	}
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter cases by name pattern (supports wildcards, e.g. 'Hello*' or '*Pass*')")
	runCmd.Flags().BoolVar(&flags.KeepGoing, "keep-going", false, "Run every case instead of stopping at the first failure")
	runCmd.Flags().BoolVar(&flags.OpenFails, "open-fails", false, "Open the fails viewer when the run finishes with failures")
	runCmd.Flags().DurationVar(&flags.WindowTimeout, "window-timeout", 0, "How long to wait for each demo window (default "+config.DefaultWindowTimeout.String()+")")
	runCmd.Flags().DurationVar(&flags.SettleDelay, "settle", 0, "Delay between the window appearing and the capture (default "+config.DefaultSettleDelay.String()+")")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list [discover-root]",
		Short:   "List graphic test cases",
		Long:    "List the cases of the suite, or with --discover scan for folders holding a reference image and print a suite file for them",
		Args:    cobra.MaximumNArgs(1),
		RunE:    c.List.Execute,
		PreRunE: applyFlags,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter cases by name pattern (supports wildcards, e.g. 'Hello*' or '*Pass*')")
	listCmd.Flags().BoolVarP(&flags.Discover, "discover", "d", false, "Scan for reference images and print a suite file")
	rootCmd.AddCommand(listCmd)

	// Serve command
	serveCmd := &cobra.Command{
		Use:          "serve",
		Short:        "Serve the graphic test trigger endpoint",
		Long:         "Serve GET /graphictests, which runs the demo's built-in graphic test and answers with its exit code",
		RunE:         c.Serve.Execute,
		PreRunE:      applyFlags,
		SilenceUsage: true,
	}
	serveCmd.Flags().StringVarP(&flags.ServerAddr, "addr", "a", "", "Address to listen on (default "+config.DefaultServerAddr+")")
	rootCmd.AddCommand(serveCmd)

	// Fails command
	failsCmd := &cobra.Command{
		Use:   "fails",
		Short: "View graphic test failures interactively",
		Long:  "Display failures from the last run in an interactive viewer",
		RunE:  c.Fails.Execute,
	}
	rootCmd.AddCommand(failsCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:     "history",
		Short:   "Show recorded graphic test runs",
		Long:    "List case results stored in the history database (enabled by VRT_HISTORY_DSN)",
		RunE:    c.History.Execute,
		PreRunE: applyFlags,
	}
	historyCmd.Flags().IntVarP(&flags.HistoryLimit, "limit", "n", 20, "Number of rows to show")
	rootCmd.AddCommand(historyCmd)
}
