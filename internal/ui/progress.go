package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar creates and manages progress bars
type ProgressBar struct {
	bar     *progressbar.ProgressBar
	current string
}

// NewProgressBar creates a new progress bar on stderr
func NewProgressBar(count int) *ProgressBar {
	return NewProgressBarTo(os.Stderr, count)
}

// NewProgressBarTo creates a new progress bar writing to w
func NewProgressBarTo(w io.Writer, count int) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe("", 0, 0)),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// Start shows the case that is about to run
func (p *ProgressBar) Start(name string, successCount, failCount int) {
	p.current = name
	p.bar.Describe(describe(name, successCount, failCount))
}

// Update updates the progress bar with success and failure counts
func (p *ProgressBar) Update(successCount, failCount int) {
	p.bar.Describe(describe(p.current, successCount, failCount))
	_ = p.bar.Set(successCount + failCount)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}

func describe(name string, successCount, failCount int) string {
	label := "Graphic tests"
	if name != "" {
		label = name
	}
	return color.CyanString("%s: ", label) +
		color.GreenString("[success: %d", successCount) +
		" | " +
		color.RedString("failed: %d]", failCount)
}
