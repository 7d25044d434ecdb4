// Package cmd implements the cflow CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/cflow/internal/config"
	"github.com/theirongolddev/cflow/internal/tui/theme"

	"github.com/spf13/cobra"
)

var (
	flagTheme    string
	flagCurrency string
	flagLogFile  string
	flagDebug    bool
)

var rootCmd = &cobra.Command{
	Use:   "cflow",
	Short: "Terminal cash-flow ledger",
	Long:  "Track money in and out of a running balance, with live inflow and outflow charts.",
	RunE:  runTUI,

	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "Color theme for this run (overrides config and CFLOW_THEME)")
	rootCmd.PersistentFlags().StringVar(&flagCurrency, "currency", "", "Currency format preset for this run (usd, eur)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write structured logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log at debug level")
}

// loadSettings loads the config file and applies the per-run flag overrides.
// A malformed config file is reported and defaults are used instead.
func loadSettings() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Config error: %v (using defaults)\n", err)
	}
	return applyOverrides(cfg, flagTheme, flagCurrency)
}

// applyOverrides activates the theme (flag, then CFLOW_THEME, then config)
// and applies a currency preset override.
func applyOverrides(cfg config.Config, themeFlag, currencyFlag string) (config.Config, error) {
	name := config.ThemeName(cfg)
	if themeFlag != "" {
		if !theme.Known(themeFlag) {
			return cfg, fmt.Errorf("unknown theme %q", themeFlag)
		}
		name = themeFlag
	}
	theme.SetActive(name)

	if currencyFlag != "" {
		if _, ok := config.LookupPreset(currencyFlag); !ok {
			return cfg, fmt.Errorf("unknown currency preset %q (have %v)", currencyFlag, config.PresetNames())
		}
		cfg.Currency.Preset = currencyFlag
	}
	return cfg, nil
}
