package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/cflow/internal/cli"
	"github.com/theirongolddev/cflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// SeriesPoint is one sample on a line chart.
type SeriesPoint struct {
	X float64
	Y float64
}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = min(max(idx, 0), len(blocks)-1)
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// LineChart plots points over the x-range [0, xMax] with a shaded area
// under the line. Data points are drawn as ●, interpolated segments as •.
// Every returned line is exactly width cells wide.
func LineChart(points []SeriesPoint, xMax float64, color lipgloss.Color, width, height int) string {
	t := theme.Active
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(points) == 0 {
		return axisStyle.Render("no data yet")
	}
	if width < 15 || height < 3 {
		ys := make([]float64, len(points))
		for i, p := range points {
			ys[i] = p.Y
		}
		return Sparkline(ys, color)
	}

	maxVal := 0.0
	for _, p := range points {
		maxVal = math.Max(maxVal, p.Y)
	}
	if maxVal == 0 {
		maxVal = 1
	}
	step := chartTickStep(maxVal)
	ceiling := math.Ceil(maxVal/step) * step

	yLabelW := max(len(cli.FormatCompactMoney(ceiling))+1, 4)
	chartW := max(width-yLabelW-1, 5)
	chartH := height

	if last := points[len(points)-1].X; last > xMax {
		xMax = last
	}
	col := func(x float64) int {
		if xMax <= 0 {
			return 0
		}
		c := int(math.Round(x / xMax * float64(chartW-1)))
		return min(max(c, 0), chartW-1)
	}
	level := func(y float64) int {
		h := int(math.Round(y / ceiling * float64(chartH-1)))
		return min(max(h, 0), chartH-1)
	}

	// Per-column line height, -1 where the line does not pass.
	levels := make([]int, chartW)
	for i := range levels {
		levels[i] = -1
	}
	marks := make([]bool, chartW)

	for i, p := range points {
		c := col(p.X)
		levels[c] = max(levels[c], level(p.Y))
		marks[c] = true
		if i == 0 {
			continue
		}
		prev := points[i-1]
		pc := col(prev.X)
		for k := pc + 1; k < c; k++ {
			if marks[k] {
				continue
			}
			frac := float64(k-pc) / float64(c-pc)
			levels[k] = level(prev.Y + (p.Y-prev.Y)*frac)
		}
	}

	pointStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	lineStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	fillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for h := chartH - 1; h >= 0; h-- {
		label := ""
		switch {
		case h == chartH-1:
			label = cli.FormatCompactMoney(ceiling)
		case chartH >= 5 && h == (chartH-1)/2:
			label = cli.FormatCompactMoney(ceiling * float64(h) / float64(chartH-1))
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))

		for c := 0; c < chartW; c++ {
			l := levels[c]
			switch {
			case l < 0 || h > l:
				b.WriteString(blank.Render(" "))
			case h == l && marks[c]:
				b.WriteString(pointStyle.Render("●"))
			case h == l:
				b.WriteString(lineStyle.Render("•"))
			default:
				b.WriteString(fillStyle.Render("░"))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", chartW)))
	b.WriteString("\n")

	left := "0"
	right := cli.FormatCompactMoney(xMax)
	gap := chartW - len(left) - len(right)
	xLabels := left + strings.Repeat(" ", max(gap, 1)) + right
	if gap < 1 {
		xLabels = fmt.Sprintf("%-*s", chartW, left)
	}
	b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(axisStyle.Render(xLabels))

	return b.String()
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}
