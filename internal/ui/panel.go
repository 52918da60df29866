package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// OK prints a success status line.
func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Success.Render(current.SymDone+" "+msg))
}

// Fail prints a failure status line.
func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Error.Render("✖ "+msg))
}

// Hint prints a muted follow-up line.
func Hint(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Muted.Render(msg))
}

// Panel frames lines in a box using the current theme.
func Panel(lines []string) string {
	return PanelString(strings.Join(lines, "\n"))
}

// PanelString frames pre-joined content.
func PanelString(inner string) string {
	return lipgloss.NewStyle().
		Border(current.Border).
		BorderForeground(current.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// ProgressBar renders a bar of width cells followed by "done/total".
func ProgressBar(done, total, width int) string {
	if width < 5 {
		width = 5
	}
	den := total
	if den <= 0 {
		den = 1
	}
	filled := done * width / den
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat(current.Bar, filled) + strings.Repeat(current.BarEmpty, width-filled) +
		fmt.Sprintf(" %d/%d", done, total)
}

// Truncate shortens s to at most width cells, marking the cut with "...".
func Truncate(s string, width int) string {
	return ansi.Truncate(s, width, "...")
}

// Checkbox renders the completion box for a task.
func Checkbox(completed bool) string {
	if completed {
		return current.Success.Render(current.BoxChecked)
	}
	return current.Muted.Render(current.BoxUnchecked)
}
