// Package tui provides the interactive Bubble Tea dashboard for cflow.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/theirongolddev/cflow/internal/cli"
	"github.com/theirongolddev/cflow/internal/config"
	"github.com/theirongolddev/cflow/internal/ledger"
	"github.com/theirongolddev/cflow/internal/logging"
	"github.com/theirongolddev/cflow/internal/tui/components"
	"github.com/theirongolddev/cflow/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// flashExpiredMsg clears the flash message it was scheduled for.
type flashExpiredMsg struct {
	id int
}

// Options configures a new App.
type Options struct {
	Config config.Config
	Logger *slog.Logger

	// FirstRun opens the setup form before the dashboard.
	FirstRun bool

	// Ledger defaults to a fresh ledger.New().
	Ledger *ledger.Ledger

	// SaveConfig defaults to config.Save.
	SaveConfig func(config.Config) error
}

// App is the root Bubble Tea model.
type App struct {
	ledger *ledger.Ledger
	input  textinput.Model

	cfg        config.Config
	cur        config.Currency
	saveConfig func(config.Config) error
	log        *slog.Logger

	// UI state
	width    int
	height   int
	showHelp bool
	scroll   int // table rows scrolled up from the newest

	// Setup / settings (huh form)
	setupForm *huh.Form
	setupVals *setupValues

	flash      string
	flashColor lipgloss.Color
	flashID    int
}

const (
	minTerminalWidth = 60
	wideWidth        = 100
	maxContentWidth  = 180

	amountCharLimit  = 16
	flashTimeout     = 3 * time.Second
	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	l := opts.Ledger
	if l == nil {
		l = ledger.New()
	}
	save := opts.SaveConfig
	if save == nil {
		save = config.Save
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	cfg := opts.Config
	cfg.Normalize()

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "0.00"
	ti.CharLimit = amountCharLimit
	ti.Focus()

	a := App{
		ledger:     l,
		input:      ti,
		cfg:        cfg,
		cur:        cfg.Currency.Resolve(),
		saveConfig: save,
		log:        logger,
	}
	a.styleInput()

	if opts.FirstRun {
		a.openSetup()
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// Ledger returns the ledger backing the dashboard.
func (a App) Ledger() *ledger.Ledger {
	return a.ledger
}

// Currency returns the active display currency.
func (a App) Currency() config.Currency {
	return a.cur
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = a.inputWidth()
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(a.formWidth()).WithHeight(msg.Height)
		}
		return a, nil

	case flashExpiredMsg:
		if msg.id == a.flashID {
			a.flash = ""
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		// Global: quit
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// Setup / settings form intercepts all keys
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// Dismiss help with any key
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		return a.updateKeys(msg)
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	empty := a.input.Value() == ""

	switch msg.String() {
	case "+", "enter":
		return a.record(ledger.Inflow)
	case "-":
		return a.record(ledger.Outflow)
	case "esc":
		a.input.Reset()
		a.flash = ""
		return a, nil
	case "up":
		a.scrollBy(1)
		return a, nil
	case "down":
		a.scrollBy(-1)
		return a, nil
	case "pgup":
		a.scrollBy(a.cfg.TUI.HistoryRows)
		return a, nil
	case "pgdown":
		a.scrollBy(-a.cfg.TUI.HistoryRows)
		return a, nil
	case "ctrl+t":
		return a.cycleTheme()
	case "ctrl+o":
		return a, a.openSetup()
	case "?":
		if empty {
			a.showHelp = true
		}
		return a, nil
	case "q":
		if empty {
			return a, tea.Quit
		}
		return a, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		if !amountRunes(msg.Runes) {
			return a, nil
		}
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight,
		tea.KeyHome, tea.KeyEnd, tea.KeyCtrlU, tea.KeyCtrlW:
	default:
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// amountRunes reports whether every rune may appear in an amount.
func amountRunes(rs []rune) bool {
	if len(rs) == 0 {
		return false
	}
	for _, r := range rs {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

func (a App) record(dir ledger.Direction) (tea.Model, tea.Cmd) {
	text := a.input.Value()

	res, err := a.ledger.Record(text, dir)
	if err != nil {
		if !errors.Is(err, ledger.ErrInvalidAmount) {
			a.log.Error("record failed", "direction", dir.String(), "error", err)
		} else {
			a.log.Debug("rejected amount", "input", text, "direction", dir.String())
		}
		return a, a.setFlash("invalid amount", theme.Active.Warning)
	}

	a.log.Info("recorded",
		"seq", res.Transaction.Sequence,
		"direction", dir.String(),
		"amount", res.Transaction.Amount.String(),
		"balance", res.Balance.String(),
	)

	a.input.Reset()
	a.scroll = 0

	color := theme.Active.Inflow
	if dir == ledger.Outflow {
		color = theme.Active.Outflow
	}
	msg := fmt.Sprintf("#%d %s", res.Transaction.Sequence,
		cli.FormatSignedMoney(res.Transaction.Amount, dir == ledger.Inflow, a.cur))
	return a, a.setFlash(msg, color)
}

func (a *App) setFlash(msg string, color lipgloss.Color) tea.Cmd {
	a.flashID++
	a.flash = msg
	a.flashColor = color
	id := a.flashID
	return tea.Tick(flashTimeout, func(time.Time) tea.Msg {
		return flashExpiredMsg{id: id}
	})
}

func (a *App) scrollBy(n int) {
	maxScroll := max(a.ledger.Len()-a.cfg.TUI.HistoryRows, 0)
	a.scroll = min(max(a.scroll+n, 0), maxScroll)
}

func (a App) cycleTheme() (tea.Model, tea.Cmd) {
	next := theme.Next(theme.Active.Name)
	theme.SetActive(next.Name)
	a.styleInput()

	// Persist to config (best-effort)
	a.cfg.Appearance.Theme = next.Name
	if err := a.saveConfig(a.cfg); err != nil {
		a.log.Warn("theme not saved", "theme", next.Name, "error", err)
	}
	return a, a.setFlash("theme: "+next.Name, theme.Active.Accent)
}

// styleInput applies the active theme to the amount field.
func (a *App) styleInput() {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.SurfaceBright)
	a.input.TextStyle = bg.Foreground(t.TextPrimary).Bold(true)
	a.input.PlaceholderStyle = bg.Foreground(t.TextDim)
	a.input.Cursor.Style = lipgloss.NewStyle().Foreground(t.AccentBright)
	a.input.Cursor.TextStyle = bg.Foreground(t.TextPrimary)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isWideLayout() bool {
	return a.contentWidth() >= wideWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.setupForm != nil {
		return a.viewSetup()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cflow needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Recording", []struct{ key, desc string }{
			{"0-9 .", "Type an amount"},
			{"+ Enter", "Record as inflow"},
			{"-", "Record as outflow"},
			{"Esc", "Clear the amount"},
		}},
		{"Navigation", []struct{ key, desc string }{
			{"↑ ↓", "Scroll history"},
			{"PgUp PgDn", "Scroll history by a page"},
		}},
		{"Settings", []struct{ key, desc string }{
			{"^t", "Next theme"},
			{"^o", "Theme and currency"},
			{"?", "Toggle help"},
			{"q ^c", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := titleStyle.Render(" ◈ cflow")
	right := dimStyle.Render(fmt.Sprintf("%s records ", cli.FormatNumber(int64(a.ledger.Len()))))
	gap := max(w-lipgloss.Width(left)-lipgloss.Width(right), 1)
	header := left + dimStyle.Render(strings.Repeat(" ", gap)) + right

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, t.Name, a.flash, a.flashColor)

	// 3. Content zone height
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	// 4. Dashboard, truncated and padded to exactly contentH lines
	content := a.renderDashboard(cw)
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
