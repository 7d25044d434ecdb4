package components

import (
	"fmt"

	"github.com/theirongolddev/cflow/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// SpendRatio returns out/in clamped to [0, 1]. With no inflow, any outflow
// counts as fully spent.
func SpendRatio(in, out float64) float64 {
	if out <= 0 {
		return 0
	}
	if in <= 0 {
		return 1
	}
	return min(out/in, 1)
}

// ColorForRatio returns inflow/warning/outflow colors as spending approaches income.
func ColorForRatio(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 0.9:
		return t.Outflow
	case pct >= 0.6:
		return t.Warning
	default:
		return t.Inflow
	}
}

// RatioBar renders a labeled bar showing how much of the inflow has been spent.
func RatioBar(label string, pct float64, width int) string {
	t := theme.Active

	pct = min(max(pct, 0), 1)
	color := ColorForRatio(pct)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	pctStr := fmt.Sprintf("%3.0f%%", pct*100)
	barW := max(width-lipgloss.Width(label)-len(pctStr)-2, 4)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	return labelStyle.Render(label) +
		spaceStyle.Render(" ") +
		bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		pctStyle.Render(pctStr)
}
