package config

import (
	"sort"
	"strings"
)

// Currency is a resolved display format.
type Currency struct {
	Symbol       string
	SymbolAfter  bool
	ThousandsSep string
	DecimalSep   string
	Decimals     int
}

// currencyPresets mirror the en_US and pt_PT locales.
var currencyPresets = map[string]Currency{
	"usd": {Symbol: "$", ThousandsSep: ",", DecimalSep: ".", Decimals: 2},
	"eur": {Symbol: "€", SymbolAfter: true, ThousandsSep: ".", DecimalSep: ",", Decimals: 2},
}

// PresetNames returns the known preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(currencyPresets))
	for name := range currencyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupPreset returns the named preset.
func LookupPreset(name string) (Currency, bool) {
	c, ok := currencyPresets[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Resolve returns the effective currency format: preset first, overrides on top.
// Unknown presets fall back to usd.
func (c CurrencyConfig) Resolve() Currency {
	cur, ok := LookupPreset(c.Preset)
	if !ok {
		cur = currencyPresets["usd"]
	}
	if c.Symbol != nil {
		cur.Symbol = *c.Symbol
	}
	if c.SymbolAfter != nil {
		cur.SymbolAfter = *c.SymbolAfter
	}
	if c.ThousandsSep != nil {
		cur.ThousandsSep = *c.ThousandsSep
	}
	if c.DecimalSep != nil {
		cur.DecimalSep = *c.DecimalSep
	}
	if c.Decimals != nil && *c.Decimals >= 0 && *c.Decimals <= 8 {
		cur.Decimals = *c.Decimals
	}
	return cur
}
