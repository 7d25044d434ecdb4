package ledger

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	valid := map[string]string{
		"100":     "100",
		"12.5":    "12.5",
		"0.75":    "0.75",
		".5":      "0.5",
		" 42 ":    "42",
		"007":     "7",
		"1234.00": "1234",
	}
	for in, want := range valid {
		got, err := ParseAmount(in)
		if err != nil {
			t.Errorf("ParseAmount(%q) unexpected error: %v", in, err)
			continue
		}
		if got.String() != want {
			t.Errorf("ParseAmount(%q) = %s, want %s", in, got, want)
		}
	}

	invalid := []string{"", " ", "-1", "+1", "0", "0.0", ".", "1.", "1e2", "1,5", "$5", "five", "1 000"}
	for _, in := range invalid {
		if _, err := ParseAmount(in); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ParseAmount(%q) err = %v, want ErrInvalidAmount", in, err)
		}
	}
}
