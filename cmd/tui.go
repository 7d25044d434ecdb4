package cmd

import (
	"fmt"

	"github.com/theirongolddev/cflow/internal/cli"
	"github.com/theirongolddev/cflow/internal/config"
	"github.com/theirongolddev/cflow/internal/logging"
	"github.com/theirongolddev/cflow/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	firstRun := !config.Exists()

	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	logger, closer, err := logging.Open(flagLogFile, "tui", flagDebug)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = closer.Close() }()

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Config:   cfg,
		Logger:   logger,
		FirstRun: firstRun,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Nothing persists, so leave the closing balance on screen.
	if a, ok := final.(tui.App); ok && a.Ledger().Len() > 0 {
		l := a.Ledger()
		fmt.Printf("  %s records, closing balance %s\n",
			cli.FormatNumber(int64(l.Len())),
			cli.FormatMoney(l.CurrentBalance(), a.Currency()))
	}
	return nil
}
