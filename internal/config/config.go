// Package config loads and saves the cflow TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all cflow configuration.
type Config struct {
	Appearance AppearanceConfig `toml:"appearance"`
	Currency   CurrencyConfig   `toml:"currency"`
	TUI        TUIConfig        `toml:"tui"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// CurrencyConfig selects how amounts are displayed. Overrides win over the preset.
type CurrencyConfig struct {
	Preset       string  `toml:"preset"`
	Symbol       *string `toml:"symbol,omitempty"`
	SymbolAfter  *bool   `toml:"symbol_after,omitempty"`
	ThousandsSep *string `toml:"thousands_sep,omitempty"`
	DecimalSep   *string `toml:"decimal_sep,omitempty"`
	Decimals     *int    `toml:"decimals,omitempty"`
}

// TUIConfig holds dashboard layout preferences.
type TUIConfig struct {
	HistoryRows int `toml:"history_rows"`
	ChartHeight int `toml:"chart_height"`
}

const (
	defaultHistoryRows = 12
	defaultChartHeight = 8
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Currency: CurrencyConfig{
			Preset: "usd",
		},
		TUI: TUIConfig{
			HistoryRows: defaultHistoryRows,
			ChartHeight: defaultChartHeight,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cflow")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Normalize replaces out-of-range layout values with defaults.
func (c *Config) Normalize() {
	if c.TUI.HistoryRows < 3 {
		c.TUI.HistoryRows = defaultHistoryRows
	}
	if c.TUI.ChartHeight < 3 {
		c.TUI.ChartHeight = defaultChartHeight
	}
	if c.Currency.Preset == "" {
		c.Currency.Preset = "usd"
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// ThemeName returns the theme from CFLOW_THEME if set, else from cfg.
func ThemeName(cfg Config) string {
	if name := os.Getenv("CFLOW_THEME"); name != "" {
		return name
	}
	return cfg.Appearance.Theme
}
