package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user text to a positive decimal.
//
// Accepted: "12", "12.5", "0.75", ".5". Surrounding whitespace is ignored.
// Rejected: empty text, signs, exponents, separators other than a single '.',
// and anything that evaluates to zero.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if !isPlainDecimal(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	return d, nil
}

// isPlainDecimal matches digits with at most one '.', requiring a digit after it.
func isPlainDecimal(s string) bool {
	if s == "" {
		return false
	}
	intDigits, fracDigits := 0, 0
	seenDot := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			if seenDot {
				fracDigits++
			} else {
				intDigits++
			}
		case c == '.' && !seenDot:
			seenDot = true
		default:
			return false
		}
	}
	if seenDot {
		return fracDigits > 0
	}
	return intDigits > 0
}
