package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/cflow/internal/cli"
	"github.com/theirongolddev/cflow/internal/config"
	"github.com/theirongolddev/cflow/internal/tui/theme"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	if env := os.Getenv("CFLOW_THEME"); env != "" {
		fmt.Printf("    CFLOW_THEME override: %s\n", env)
	}
	if !theme.Known(config.ThemeName(cfg)) {
		fmt.Printf("    (unknown theme, %s will be used)\n", theme.All[0].Name)
	}
	fmt.Println()

	cur := cfg.Currency.Resolve()
	fmt.Println("  [Currency]")
	fmt.Printf("    Preset:   %s\n", cfg.Currency.Preset)
	fmt.Printf("    Decimals: %d\n", cur.Decimals)
	fmt.Printf("    Sample:   %s\n", cli.FormatMoney(decimal.RequireFromString("-1234.56"), cur))
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    History rows: %d\n", cfg.TUI.HistoryRows)
	fmt.Printf("    Chart height: %d\n", cfg.TUI.ChartHeight)
	fmt.Println()

	fmt.Println("  Run `cflow setup` to reconfigure.")
	return nil
}
