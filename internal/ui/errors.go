package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"vrt/internal/domain"
	"vrt/internal/storage"
)

// FailureViewer displays failed graphic tests in an interactive TUI
type FailureViewer struct {
	storage storage.Storage
}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer(st storage.Storage) *FailureViewer {
	return &FailureViewer{storage: st}
}

// View displays failures in an interactive TUI
func (fv *FailureViewer) View(results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No graphic test failures found!")
		return nil
	}

	// Track resolved failures (by index) - load from JSON
	resolved := make(map[int]bool)
	for i, failure := range results.Details {
		if failure.Resolved {
			resolved[i] = true
		}
	}

	saveResolvedStatus := func() error {
		for i := range results.Details {
			results.Details[i].Resolved = resolved[i]
		}
		return fv.storage.SaveOutput(results)
	}

	app := tview.NewApplication()

	// List of failed cases (left side)
	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	updateListItem := func(index int) {
		if index < 0 || index >= list.GetItemCount() {
			return
		}
		list.SetItemText(index, listItemText(results.Details[index], index, resolved[index]), "")
	}

	for i, failure := range results.Details {
		list.AddItem(listItemText(failure, i, resolved[i]), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	// list on left (1/3), details on right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		unresolved := 0
		for i := range results.Details {
			if !resolved[i] {
				unresolved++
			}
		}
		headerView.SetText(fmt.Sprintf(" Graphic Test Failures (%d total, %d unresolved) | ↑↓ navigate, [yellow]R[white] mark resolved, → details, ← back, Ctrl+C exit ",
			len(results.Details), unresolved))
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(results.Details) {
			failure := results.Details[index]
			statsView.SetText(formatFailureStats(failure, index+1))
			detailsView.SetText(formatFailureDetails(failure))
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(results.Details) {
					resolved[index] = !resolved[index]
					updateListItem(index)
					updateHeader()
					updateDetails()
					_ = saveResolvedStatus()
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

func listItemText(failure domain.Failure, index int, isResolved bool) string {
	name := failure.TestName
	if name == "" {
		name = fmt.Sprintf("Case %d", index+1)
	}
	if isResolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, name)
}

// formatFailureDetails formats a failure for display using tview color tags
func formatFailureDetails(failure domain.Failure) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[red]✗ %s[white]\n\n", tview.Escape(failure.TestName))
	fmt.Fprintf(w, "[cyan]Folder:[white]\t%s\n", tview.Escape(failure.Folder))
	fmt.Fprintf(w, "[cyan]Window:[white]\t%s\n", tview.Escape(failure.Window))
	fmt.Fprintf(w, "[cyan]Kind:[white]\t%s\n\n", failure.Kind)

	if failure.Message != "" {
		fmt.Fprintf(w, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
	}

	if failure.CapturePath != "" {
		fmt.Fprintf(w, "[yellow]Capture kept at:[white]\n%s\n\n", tview.Escape(failure.CapturePath))
	}
	if failure.ReferencePath != "" {
		fmt.Fprintf(w, "[yellow]Reference:[white]\n%s\n\n", tview.Escape(failure.ReferencePath))
	}
	if failure.CaptureDigest != "" || failure.ReferenceDigest != "" {
		fmt.Fprintf(w, "[yellow]SHA-1:[white]\n")
		fmt.Fprintf(w, "  capture\t%s\n", failure.CaptureDigest)
		fmt.Fprintf(w, "  reference\t%s\n", failure.ReferenceDigest)
	}

	w.Flush()
	return builder.String()
}

// formatFailureStats formats the stats header for a failure
func formatFailureStats(failure domain.Failure, number int) string {
	folder := failure.Folder
	if folder == "" {
		folder = "Unknown folder"
	}
	name := failure.TestName
	if name == "" {
		name = fmt.Sprintf("Case %d", number)
	}
	return fmt.Sprintf("[cyan]folder:[white] [yellow]%s[white]::[yellow]%s[white]\n", tview.Escape(folder), tview.Escape(name))
}
