package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cflow/internal/cli"
	"github.com/theirongolddev/cflow/internal/ledger"
	"github.com/theirongolddev/cflow/internal/tui/components"
	"github.com/theirongolddev/cflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const (
	seqColWidth  = 6
	timeColWidth = 15
)

// renderDashboard lays out the cards for content width cw: two columns when
// wide, a single stacked column otherwise.
func (a App) renderDashboard(cw int) string {
	if !a.isWideLayout() {
		return lipgloss.JoinVertical(lipgloss.Left,
			a.renderBalance(cw),
			a.renderInput(cw),
			a.renderChart("Inflow", ledger.Inflow, cw),
			a.renderChart("Outflow", ledger.Outflow, cw),
			a.renderSummary(cw),
			a.renderHistory(cw),
		)
	}

	widths := components.LayoutRow(cw, 2)
	left := lipgloss.JoinVertical(lipgloss.Left,
		a.renderBalance(widths[0]),
		a.renderInput(widths[0]),
		a.renderHistory(widths[0]),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		a.renderChart("Inflow", ledger.Inflow, widths[1]),
		a.renderChart("Outflow", ledger.Outflow, widths[1]),
		a.renderSummary(widths[1]),
	)
	return components.CardRow([]string{left, right})
}

func (a App) renderBalance(w int) string {
	t := theme.Active
	balance := a.ledger.CurrentBalance()

	color := t.TextPrimary
	switch balance.Sign() {
	case 1:
		color = t.Inflow
	case -1:
		color = t.Outflow
	}

	return components.MetricCard(components.Metric{
		Label: "Total Balance",
		Value: cli.FormatMoney(balance, a.cur),
		Color: color,
	}, w)
}

func (a App) renderInput(w int) string {
	t := theme.Active
	outKey := lipgloss.NewStyle().Foreground(t.Outflow).Background(t.Surface).Bold(true)
	inKey := lipgloss.NewStyle().Foreground(t.Inflow).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface)

	body := outKey.Render("[-]") + space.Render(" ") +
		a.input.View() +
		space.Render(" ") + inKey.Render("[+]")
	return components.FocusCard("Amount", body, w)
}

// inputWidth sizes the text field to the input card of the current layout.
func (a App) inputWidth() int {
	w := a.contentWidth()
	if a.isWideLayout() {
		w = components.LayoutRow(w, 2)[0]
	}
	// "[-] " + " [+]" plus the cursor cell
	return max(components.CardInnerWidth(w)-9, amountCharLimit)
}

func (a App) renderHistory(w int) string {
	t := theme.Active
	inner := components.CardInnerWidth(w)
	rows := a.cfg.TUI.HistoryRows

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	inStyle := lipgloss.NewStyle().Foreground(t.Inflow).Background(t.Surface)
	outStyle := lipgloss.NewStyle().Foreground(t.Outflow).Background(t.Surface)

	history := a.ledger.HistorySnapshot()
	if len(history) == 0 {
		return components.ContentCard("History", dimStyle.Render("no transactions yet"), w)
	}

	showTime := inner >= seqColWidth+timeColWidth+12
	amountW := inner - seqColWidth - 1
	if showTime {
		amountW -= timeColWidth + 1
	}

	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf("%-*s ", seqColWidth, "Seq")))
	if showTime {
		b.WriteString(headStyle.Render(fmt.Sprintf("%-*s ", timeColWidth, "Time")))
	}
	b.WriteString(headStyle.Render(fmt.Sprintf("%*s", amountW, "Amount")))
	b.WriteString("\n")

	// Newest at the bottom; scroll moves the window toward older rows.
	end := len(history) - a.scroll
	start := max(end-rows, 0)
	for i, tx := range history[start:end] {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(cellStyle.Render(fmt.Sprintf("%-*s ", seqColWidth, fmt.Sprintf("#%d", tx.Sequence))))
		if showTime {
			b.WriteString(dimStyle.Render(fmt.Sprintf("%-*s ", timeColWidth, cli.FormatTimestamp(tx.Timestamp))))
		}
		style := inStyle
		if tx.Direction == ledger.Outflow {
			style = outStyle
		}
		amount := cli.FormatSignedMoney(tx.Amount, tx.Direction == ledger.Inflow, a.cur)
		b.WriteString(style.Render(fmt.Sprintf("%*s", amountW, amount)))
	}

	title := "History"
	if len(history) > rows {
		title = fmt.Sprintf("History  %d-%d of %d", start+1, end, len(history))
	}
	return components.ContentCard(title, b.String(), w)
}

// renderChart plots one series over the shared sequence axis, so a point
// recorded at sequence n sits in the same column on both charts.
func (a App) renderChart(title string, dir ledger.Direction, w int) string {
	t := theme.Active
	color := t.Inflow
	if dir == ledger.Outflow {
		color = t.Outflow
	}

	series := a.ledger.SeriesSnapshot(dir)
	pts := make([]components.SeriesPoint, len(series))
	for i, p := range series {
		pts[i] = components.SeriesPoint{X: float64(p.Sequence), Y: p.Amount.InexactFloat64()}
	}
	xMax := float64(max(a.ledger.LastSequence(), 0))

	chart := components.LineChart(pts, xMax, color, components.CardInnerWidth(w), a.cfg.TUI.ChartHeight)
	return components.ContentCard(fmt.Sprintf("%s  %d", title, len(series)), chart, w)
}

func (a App) renderSummary(w int) string {
	t := theme.Active
	totals := a.ledger.Totals()
	inner := components.CardInnerWidth(w)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	inStyle := lipgloss.NewStyle().Foreground(t.Inflow).Background(t.Surface).Bold(true)
	outStyle := lipgloss.NewStyle().Foreground(t.Outflow).Background(t.Surface).Bold(true)

	inLine := labelStyle.Render(fmt.Sprintf("%-5s", "In")) +
		inStyle.Render(cli.FormatMoney(totals.In, a.cur)) +
		labelStyle.Render(fmt.Sprintf("  (%d)", totals.InCount))
	outLine := labelStyle.Render(fmt.Sprintf("%-5s", "Out")) +
		outStyle.Render(cli.FormatMoney(totals.Out, a.cur)) +
		labelStyle.Render(fmt.Sprintf("  (%d)", totals.OutCount))

	pct := components.SpendRatio(totals.In.InexactFloat64(), totals.Out.InexactFloat64())
	bar := components.RatioBar("Spent", pct, inner)

	return components.ContentCard("Summary", inLine+"\n"+outLine+"\n"+bar, w)
}
