package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/cflow/internal/cli"
	"github.com/theirongolddev/cflow/internal/config"
	"github.com/theirongolddev/cflow/internal/tui/theme"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, _ := config.Load()

	cfg = runSetupPrompts(bufio.NewReader(os.Stdin), os.Stdout, cfg)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `cflow setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

// runSetupPrompts asks for theme and currency. An empty or unrecognized
// answer keeps the current value.
func runSetupPrompts(r *bufio.Reader, w io.Writer, cfg config.Config) config.Config {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Welcome to cflow!")
	fmt.Fprintln(w)

	// 1. Theme
	themes := make([]string, len(theme.All))
	for i, t := range theme.All {
		themes[i] = t.Name
	}
	fmt.Fprintln(w, "  1. Color theme")
	if pick, ok := choose(r, w, themes, cfg.Appearance.Theme); ok {
		cfg.Appearance.Theme = pick
	}
	fmt.Fprintln(w)

	// 2. Currency
	presets := config.PresetNames()
	sample := decimal.RequireFromString("1234.56")
	labels := make([]string, len(presets))
	for i, name := range presets {
		cur, _ := config.LookupPreset(name)
		labels[i] = fmt.Sprintf("%-4s %s", name, cli.FormatMoney(sample, cur))
	}
	fmt.Fprintln(w, "  2. Currency format")
	if i, ok := chooseIndex(r, w, labels, indexOf(presets, cfg.Currency.Preset)); ok {
		cfg.Currency.Preset = presets[i]
	}

	return cfg
}

func choose(r *bufio.Reader, w io.Writer, options []string, current string) (string, bool) {
	i, ok := chooseIndex(r, w, options, indexOf(options, current))
	if !ok {
		return "", false
	}
	return options[i], true
}

// chooseIndex prints a numbered menu and reads one answer. It accepts a
// number or an option's first word.
func chooseIndex(r *bufio.Reader, w io.Writer, options []string, current int) (int, bool) {
	for i, opt := range options {
		mark := ""
		if i == current {
			mark = " [current]"
		}
		fmt.Fprintf(w, "     (%d) %s%s\n", i+1, opt, mark)
	}
	fmt.Fprint(w, "     > ")

	answer, _ := r.ReadString('\n')
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return n - 1, true
		}
		return 0, false
	}
	for i, opt := range options {
		if fields := strings.Fields(opt); len(fields) > 0 && strings.EqualFold(fields[0], answer) {
			return i, true
		}
	}
	return 0, false
}

func indexOf(options []string, v string) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return -1
}
