package components

import (
	"strings"

	"github.com/theirongolddev/cflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// right-aligned info on the right, and an optional flash message between them.
func RenderStatusBar(width int, right, flash string, flashColor lipgloss.Color) string {
	t := theme.Active

	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	flashStyle := lipgloss.NewStyle().Foreground(flashColor).Background(t.Surface).Bold(true)
	fill := lipgloss.NewStyle().Background(t.Surface)

	left := fill.Render(" ") +
		keyStyle.Render("[+]") + hintStyle.Render("in  ") +
		keyStyle.Render("[-]") + hintStyle.Render("out  ") +
		keyStyle.Render("[?]") + hintStyle.Render("help  ") +
		keyStyle.Render("[^c]") + hintStyle.Render("quit")

	mid := ""
	if flash != "" {
		mid = fill.Render("   ") + flashStyle.Render(flash)
	}
	rightStr := hintStyle.Render(right + " ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(rightStr)
	if padding < 0 {
		// Not enough room: drop the right side first.
		rightStr = ""
		padding = max(width-lipgloss.Width(left)-lipgloss.Width(mid), 0)
	}

	return left + mid + fill.Render(strings.Repeat(" ", padding)) + rightStr
}
