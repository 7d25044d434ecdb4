// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/cflow/internal/config"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount in the given currency, with grouping.
// e.g., usd: 1234.5 -> "$1,234.50", -3 -> "-$3.00"; eur: 1234.5 -> "1.234,50 €"
func FormatMoney(d decimal.Decimal, c config.Currency) string {
	neg := d.IsNegative()
	// StringFixed rounds half away from zero.
	fixed := d.Abs().StringFixed(int32(c.Decimals))

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	body := groupDigits(intPart, c.ThousandsSep)
	if fracPart != "" {
		body += c.DecimalSep + fracPart
	}

	var s string
	if c.SymbolAfter {
		s = body + " " + c.Symbol
	} else {
		s = c.Symbol + body
	}
	if neg && !isAllZero(intPart+fracPart) {
		return "-" + s
	}
	return s
}

// FormatSignedMoney prefixes "+" for inflows and "-" for outflows.
func FormatSignedMoney(d decimal.Decimal, inflow bool, c config.Currency) string {
	if inflow {
		return "+" + FormatMoney(d.Abs(), c)
	}
	return "-" + FormatMoney(d.Abs(), c)
}

// FormatCompactMoney formats an amount with k/M suffixes for chart axes.
// e.g., 1500 -> "1.5k", 2000000 -> "2M", 12 -> "12"
func FormatCompactMoney(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case abs >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case abs >= 1 || abs == 0:
		return strconv.FormatFloat(v, 'f', 0, 64)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	return groupDigits(strconv.FormatInt(n, 10), ",")
}

// FormatTimestamp renders unix seconds in local time.
func FormatTimestamp(unix int64) string {
	return time.Unix(unix, 0).Local().Format("Jan 02 15:04:05")
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

func groupDigits(s, sep string) string {
	if len(s) <= 3 || sep == "" {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteString(sep)
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

func isAllZero(digits string) bool {
	for _, r := range digits {
		if r != '0' {
			return false
		}
	}
	return true
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
