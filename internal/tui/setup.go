package tui

import (
	"fmt"

	"github.com/theirongolddev/cflow/internal/cli"
	"github.com/theirongolddev/cflow/internal/config"
	"github.com/theirongolddev/cflow/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// setupValues is bound to the huh form fields.
type setupValues struct {
	theme    string
	currency string
}

const maxFormWidth = 72

var currencySample = decimal.RequireFromString("1234.56")

func newSetupForm(vals *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	var currencyOpts []huh.Option[string]
	for _, name := range config.PresetNames() {
		cur, _ := config.LookupPreset(name)
		label := fmt.Sprintf("%-4s %s", name, cli.FormatMoney(currencySample, cur))
		currencyOpts = append(currencyOpts, huh.NewOption(label, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("cflow settings").
				Description("Saved to "+config.Path()+"\nEsc cancels."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
			huh.NewSelect[string]().
				Title("Currency format").
				Options(currencyOpts...).
				Value(&vals.currency),
		),
	).WithShowHelp(true)
}

// openSetup shows the theme/currency form seeded with the current settings.
func (a *App) openSetup() tea.Cmd {
	a.setupVals = &setupValues{
		theme:    theme.Active.Name,
		currency: a.cfg.Currency.Preset,
	}
	a.setupForm = newSetupForm(a.setupVals)
	if a.width > 0 {
		a.setupForm = a.setupForm.WithWidth(a.formWidth()).WithHeight(a.height)
	}
	return a.setupForm.Init()
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		a.closeSetup()
		return a, nil
	}

	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		vals := *a.setupVals
		a.closeSetup()
		return a, a.applySetup(vals)
	case huh.StateAborted:
		a.closeSetup()
		return a, nil
	}

	return a, cmd
}

func (a *App) closeSetup() {
	a.setupForm = nil
	a.setupVals = nil
}

// applySetup activates the chosen theme and currency and saves them.
func (a *App) applySetup(v setupValues) tea.Cmd {
	if theme.Known(v.theme) {
		theme.SetActive(v.theme)
		a.cfg.Appearance.Theme = v.theme
		a.styleInput()
	}
	if _, ok := config.LookupPreset(v.currency); ok {
		a.cfg.Currency.Preset = v.currency
		a.cur = a.cfg.Currency.Resolve()
	}

	if err := a.saveConfig(a.cfg); err != nil {
		a.log.Warn("settings not saved", "error", err)
		return a.setFlash("settings not saved", theme.Active.Warning)
	}
	a.log.Info("settings saved", "theme", a.cfg.Appearance.Theme, "currency", a.cfg.Currency.Preset)
	return a.setFlash("settings saved", theme.Active.Accent)
}

func (a App) formWidth() int {
	return min(a.width, maxFormWidth)
}

func (a App) viewSetup() string {
	t := theme.Active
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.setupForm.View(),
		lipgloss.WithWhitespaceBackground(t.Background))
}
