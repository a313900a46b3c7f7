package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"vrt/internal/config"
	"vrt/internal/domain"
	"vrt/internal/storage"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter printing to stdout
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{
		config: cfg,
		out:    color.Output,
	}
}

// SetOutput redirects the formatter, mostly for tests
func (f *Formatter) SetOutput(w io.Writer) {
	f.out = w
}

// PrintMetaStats reads and displays meta statistics from the JSON results file
func (f *Formatter) PrintMetaStats() error {
	outputPath := f.config.GetOutputPath()

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}

	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	meta := output.Meta
	cyan := color.New(color.FgCyan)
	white := color.New(color.FgWhite)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	// Print header
	fmt.Fprint(f.out, "\n")
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                 Graphic Test Execution Statistics             ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")

	row := func(label string, c *color.Color, value string) {
		fmt.Fprintf(f.out, "│ %-31s │ ", label)
		c.Fprintf(f.out, "%-27s", value)
		fmt.Fprintln(f.out, " │")
	}
	sep := func() {
		fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
	}

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	row("Total Cases", white, fmt.Sprint(meta.TotalCases))
	sep()
	row("Passed Cases", green, fmt.Sprint(meta.PassedCases))
	sep()
	row("Failed Cases", red, fmt.Sprint(meta.FailedCases))
	sep()
	row("Skipped Cases", yellow, fmt.Sprint(meta.SkippedCases))
	sep()
	row("Duration", white, fmt.Sprintf("%.2fs", meta.DurationSeconds))
	sep()
	row("Timestamp", white, meta.Timestamp)
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	// Print summary line
	fmt.Fprintln(f.out)
	if meta.FailedCases == 0 && meta.SkippedCases == 0 {
		green.Fprintln(f.out, "✓ All graphic tests passed!")
		return nil
	}

	red.Fprintf(f.out, "✗ %d graphic test(s) failed", meta.FailedCases)
	if meta.Aborted {
		red.Fprintf(f.out, ", run stopped with %d case(s) not executed", meta.SkippedCases)
	}
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out)
	f.printFailures(output.Details)
	return nil
}

// printFailures prints one block per failed case
func (f *Formatter) printFailures(failures []domain.Failure) {
	for i, failure := range failures {
		connector := "├──"
		indent := "│  "
		if i == len(failures)-1 {
			connector = "└──"
			indent = "   "
		}
		color.New(color.FgYellow).Fprintf(f.out, "%s %s", connector, failure.TestName)
		color.New(color.FgRed).Fprintf(f.out, " [%s]\n", failure.Kind)
		fmt.Fprintf(f.out, "%s  %s\n", indent, failure.Message)
		if failure.CapturePath != "" {
			color.New(color.FgCyan).Fprintf(f.out, "%s  capture kept at %s\n", indent, failure.CapturePath)
		}
	}
}

// PrintResult prints a one-line outcome for a finished case
func (f *Formatter) PrintResult(res domain.CaseResult) {
	if res.Passed {
		color.New(color.FgGreen).Fprintf(f.out, "✓ %s", res.Case.Name)
	} else {
		color.New(color.FgRed).Fprintf(f.out, "✗ %s: %v", res.Case.Name, res.Err)
	}
	fmt.Fprintf(f.out, " (%s)\n", res.Duration.Round(time.Millisecond))
}

// PrintCaseList prints the suite; cases in failed (from the last run) are marked with [F]
func (f *Formatter) PrintCaseList(cases []domain.TestCase, failed map[string]bool) {
	color.New(color.FgGreen).Fprintf(f.out, "Found %d graphic test case(s):\n\n", len(cases))

	for i, tc := range cases {
		connector, indent := "├──", "│   "
		if i == len(cases)-1 {
			connector, indent = "└──", "    "
		}

		failMarker := ""
		if failed[tc.Name] {
			failMarker = " " + color.RedString("[F]")
		}
		color.New(color.FgCyan).Fprintf(f.out, "%s %s", connector, tc.Name)
		fmt.Fprintln(f.out, failMarker)
		fmt.Fprintf(f.out, "%s├── folder:     %s\n", indent, tc.Folder)
		fmt.Fprintf(f.out, "%s├── executable: %s\n", indent, tc.Executable)
		fmt.Fprintf(f.out, "%s└── window:     %s\n", indent, color.YellowString(tc.Window))
	}
}

// PrintHistory prints rows from the run history database
func (f *Formatter) PrintHistory(rows []storage.HistoryRow) {
	if len(rows) == 0 {
		color.New(color.FgYellow).Fprintln(f.out, "No recorded runs")
		return
	}

	w := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tCASE\tRESULT\tKIND\tDURATION\tCAPTURE SHA1")
	for _, r := range rows {
		result := color.GreenString("pass")
		if !r.Passed {
			result = color.RedString("FAIL")
		}
		digest := r.CaptureDigest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.CaseName, result, r.Kind, r.Duration, digest)
	}
	w.Flush()
}
