package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vrt/internal/config"
	"vrt/internal/discovery"
	"vrt/internal/domain"
	"vrt/internal/storage"
	"vrt/internal/ui"
)

// DefaultDiscoverRoot is scanned by list --discover when no directory is given
const DefaultDiscoverRoot = ".."

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	filter    *discovery.Filter
	formatter *ui.Formatter
	storage   storage.Storage
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	filter *discovery.Filter,
	formatter *ui.Formatter,
	st storage.Storage,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		filter:    filter,
		formatter: formatter,
		storage:   st,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	if lc.config.Flags.Discover {
		root := DefaultDiscoverRoot
		if len(args) > 0 {
			root = args[0]
		}
		return lc.discover(cmd, root)
	}

	suite, err := config.LoadSuite(lc.config.GetSuitePath())
	if err != nil {
		return err
	}

	cases := lc.filter.FilterByName(suite.Cases, lc.config.Flags.NameFilter)
	if len(cases) == 0 {
		color.Yellow("No graphic tests found")
		return nil
	}

	lc.formatter.PrintCaseList(cases, lc.lastFailures())
	return nil
}

// discover prints a suite file for every folder under root holding a reference image
func (lc *ListCommand) discover(cmd *cobra.Command, root string) error {
	scanner := discovery.NewScanner(lc.config.ReferenceFile, lc.config.PathsToIgnore)
	folders, err := scanner.Scan(lc.config.ResolveFolder(root))
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		color.Yellow("No folders containing %s found under %s", lc.config.ReferenceFile, root)
		return nil
	}

	cases := discovery.NewProposer("").ProposeAll(lc.config.ProjectPath, folders)
	cases = lc.filter.FilterByName(cases, lc.config.Flags.NameFilter)

	data, err := config.MarshalSuite(domain.Suite{Cases: cases})
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}

// lastFailures returns the names of cases that failed in the last run, if results exist
func (lc *ListCommand) lastFailures() map[string]bool {
	failed := make(map[string]bool)
	out, err := lc.storage.Load()
	if err != nil || out == nil {
		return failed
	}
	for _, f := range out.Details {
		failed[f.TestName] = true
	}
	return failed
}
