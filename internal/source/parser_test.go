package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/cflow/internal/ledger"
)

// writeReplay creates a temp replay file and returns its path.
func writeReplay(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseLine(t *testing.T) {
	cases := []struct {
		in     string
		amount string
		dir    ledger.Direction
	}{
		{"+100", "100", ledger.Inflow},
		{"-30", "30", ledger.Outflow},
		{"+ 12.5", "12.5", ledger.Inflow},
		{"in 100", "100", ledger.Inflow},
		{"out 30.5", "30.5", ledger.Outflow},
		{"  OUTFLOW   2  ", "2", ledger.Outflow},
		{"in 40 # salary", "40", ledger.Inflow},
		{`{"amount":"12.50","direction":"outflow"}`, "12.50", ledger.Outflow},
	}
	for _, tc := range cases {
		amount, dir, ok, err := ParseLine(tc.in)
		if err != nil || !ok {
			t.Errorf("ParseLine(%q) = ok %v, err %v", tc.in, ok, err)
			continue
		}
		if amount != tc.amount || dir != tc.dir {
			t.Errorf("ParseLine(%q) = (%q, %v), want (%q, %v)", tc.in, amount, dir, tc.amount, tc.dir)
		}
	}
}

func TestParseLine_Skips(t *testing.T) {
	for _, in := range []string{"", "   ", "# header", "  # indented comment"} {
		_, _, ok, err := ParseLine(in)
		if ok || err != nil {
			t.Errorf("ParseLine(%q) = ok %v, err %v; want skipped", in, ok, err)
		}
	}
}

func TestParseLine_Malformed(t *testing.T) {
	for _, in := range []string{"100", "sideways 5", "in", "in 1 2", `{"amount":"1","direction":"up"}`, `{"amount":`} {
		_, _, _, err := ParseLine(in)
		if !errors.Is(err, ErrMalformedLine) {
			t.Errorf("ParseLine(%q) err = %v, want ErrMalformedLine", in, err)
		}
	}
}

func TestReplayFile(t *testing.T) {
	path := writeReplay(t,
		"# june",
		"+100",
		"-30",
		"",
		"out abc",
		"sideways 4",
		"in 0.5",
		"-0",
	)

	l := ledger.New()
	res, err := ReplayFile(path, l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Recorded != 3 {
		t.Errorf("Recorded = %d, want 3", res.Recorded)
	}
	if res.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", res.Skipped)
	}
	if got := l.CurrentBalance().String(); got != "70.5" {
		t.Errorf("balance = %s, want 70.5", got)
	}

	if len(res.Errors) != 3 {
		t.Fatalf("Errors = %v, want 3", res.Errors)
	}
	wantLines := []int{5, 6, 8}
	for i, e := range res.Errors {
		if e.Line != wantLines[i] {
			t.Errorf("error %d on line %d, want %d", i, e.Line, wantLines[i])
		}
	}
	if !errors.Is(res.Errors[0], ledger.ErrInvalidAmount) {
		t.Errorf("line 5 error = %v, want ErrInvalidAmount", res.Errors[0])
	}
	if !errors.Is(res.Errors[1], ErrMalformedLine) {
		t.Errorf("line 6 error = %v, want ErrMalformedLine", res.Errors[1])
	}
}

func TestReplay_SequencesSkipRejectedLines(t *testing.T) {
	l := ledger.New()
	_, err := Replay(strings.NewReader("+1\n-x\n-2\n"), l)
	if err != nil {
		t.Fatal(err)
	}

	history := l.HistorySnapshot()
	if len(history) != 2 || history[0].Sequence != 0 || history[1].Sequence != 1 {
		t.Errorf("history = %+v, want sequences 0 and 1", history)
	}
}

func TestReplayFile_Missing(t *testing.T) {
	if _, err := ReplayFile(filepath.Join(t.TempDir(), "nope.txt"), ledger.New()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}
