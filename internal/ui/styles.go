// Package ui holds the Lip Gloss styles and small renderers shared by the CLI and the TUI.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-sync-todo/internal/models"
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	AccentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	MutedStyle   = lipgloss.NewStyle().Faint(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	SelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	DoneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	HelpStyle     = lipgloss.NewStyle().Faint(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

const (
	BoxChecked   = "☑"
	BoxUnchecked = "☐"
)

func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, SuccessStyle.Render("✔ "+msg))
}

func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, ErrorStyle.Render("✖ "+msg))
}

// Panel frames lines in a rounded border.
func Panel(lines []string) string {
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func ProgressBar(done, total, width int) string {
	denom := total
	if denom == 0 {
		denom = 1
	}
	if width <= 0 {
		width = 28
	}
	filled := int(float64(done) / float64(denom) * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf("] %d/%d", done, total)
}

func Stats(items []models.TodoItem) (done, pending int) {
	for _, it := range items {
		if it.Checked {
			done++
		} else {
			pending++
		}
	}
	return
}

// Header renders the "Todos ✔ n • n Total n" line.
func Header(items []models.TodoItem) string {
	d, p := Stats(items)
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		TitleStyle.Render("Todos"),
		SuccessStyle.Render("✔"), d,
		PendingStyle.Render("•"), p,
		AccentStyle.Render("Total"), len(items),
	)
}

// ItemLine renders one item as "<box> <task>".
func ItemLine(it models.TodoItem) string {
	if it.Checked {
		return SuccessStyle.Render(BoxChecked) + " " + DoneStyle.Render(it.Task)
	}
	return MutedStyle.Render(BoxUnchecked) + " " + it.Task
}

// EmptyMessage is shown instead of the list when there are no items.
// hasHadTodos distinguishes "all done" from "never started".
func EmptyMessage(hasHadTodos bool) string {
	if hasHadTodos {
		return SuccessStyle.Render("All done! 🎉")
	}
	return MutedStyle.Render("Nothing to do yet. Add your first task.")
}
