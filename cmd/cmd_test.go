package cmd

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/theirongolddev/cflow/internal/config"
	"github.com/theirongolddev/cflow/internal/ledger"
	"github.com/theirongolddev/cflow/internal/source"
	"github.com/theirongolddev/cflow/internal/tui/theme"
)

func restoreTheme(t *testing.T) {
	t.Helper()
	prev := theme.Active.Name
	t.Cleanup(func() { theme.SetActive(prev) })
}

func TestApplyOverrides(t *testing.T) {
	restoreTheme(t)
	t.Setenv("CFLOW_THEME", "")

	cfg, err := applyOverrides(config.DefaultConfig(), "tokyo-night", "eur")
	if err != nil {
		t.Fatal(err)
	}
	if theme.Active.Name != "tokyo-night" {
		t.Errorf("active theme = %s", theme.Active.Name)
	}
	if cfg.Currency.Preset != "eur" {
		t.Errorf("currency preset = %s", cfg.Currency.Preset)
	}
}

func TestApplyOverrides_EnvTheme(t *testing.T) {
	restoreTheme(t)
	t.Setenv("CFLOW_THEME", "catppuccin-mocha")

	if _, err := applyOverrides(config.DefaultConfig(), "", ""); err != nil {
		t.Fatal(err)
	}
	if theme.Active.Name != "catppuccin-mocha" {
		t.Errorf("active theme = %s, want env theme", theme.Active.Name)
	}

	// A flag beats the environment.
	if _, err := applyOverrides(config.DefaultConfig(), "terminal", ""); err != nil {
		t.Fatal(err)
	}
	if theme.Active.Name != "terminal" {
		t.Errorf("active theme = %s, want flag theme", theme.Active.Name)
	}
}

func TestApplyOverrides_Unknown(t *testing.T) {
	restoreTheme(t)

	if _, err := applyOverrides(config.DefaultConfig(), "neon", ""); err == nil {
		t.Error("unknown theme accepted")
	}
	if _, err := applyOverrides(config.DefaultConfig(), "", "gbp"); err == nil {
		t.Error("unknown currency accepted")
	}
}

func TestWriteReplayReport(t *testing.T) {
	l := ledger.New()
	res, err := source.Replay(strings.NewReader("+100\n-30\nbad line\n"), l)
	if err != nil {
		t.Fatal(err)
	}

	cur := config.CurrencyConfig{Preset: "usd"}.Resolve()

	var buf bytes.Buffer
	writeReplayReport(&buf, l, res, cur, true)
	out := buf.String()
	for _, want := range []string{"CFLOW REPLAY", "Recorded", "$70.00", "$100.00 (1)", "$30.00 (1)", "Transactions", "-$30.00", "30.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	writeReplayReport(&buf, l, res, cur, false)
	if strings.Contains(buf.String(), "Transactions") {
		t.Error("--no-table report still lists transactions")
	}
}

func TestRunSetupPrompts(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("3\neur\n"))
	var out bytes.Buffer

	cfg := runSetupPrompts(in, &out, config.DefaultConfig())
	if cfg.Appearance.Theme != theme.All[2].Name {
		t.Errorf("theme = %s, want %s", cfg.Appearance.Theme, theme.All[2].Name)
	}
	if cfg.Currency.Preset != "eur" {
		t.Errorf("currency = %s, want eur", cfg.Currency.Preset)
	}
	if !strings.Contains(out.String(), "[current]") {
		t.Error("menu does not mark the current value")
	}
}

func TestRunSetupPrompts_KeepsCurrentOnBlankOrBadInput(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("\n99\n"))
	var out bytes.Buffer

	cfg := runSetupPrompts(in, &out, config.DefaultConfig())
	if cfg.Appearance.Theme != "flexoki-dark" || cfg.Currency.Preset != "usd" {
		t.Errorf("cfg = %+v, want defaults kept", cfg)
	}
}

func TestFilterDetachArg(t *testing.T) {
	in := []string{"serve", "--detach", "--addr", ":9000", "--log-file", "/tmp/x.log", "--detach=true", "--log-file=/tmp/y.log", "--seed", "s.txt"}
	want := []string{"serve", "--addr", ":9000", "--seed", "s.txt"}
	if got := filterDetachArg(in); !reflect.DeepEqual(got, want) {
		t.Errorf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cflowd.pid")
	if err := writePID(path, 4242); err != nil {
		t.Fatal(err)
	}
	pid, err := readPID(path)
	if err != nil || pid != 4242 {
		t.Fatalf("readPID = %d, %v", pid, err)
	}

	if err := os.WriteFile(path, []byte("nope\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readPID(path); err == nil {
		t.Error("garbage pid file accepted")
	}
}

func TestEnsureServerNotRunning_RemovesStalePID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cflowd.pid")
	if err := ensureServerNotRunning(path); err != nil {
		t.Fatalf("missing pid file: %v", err)
	}

	if err := writePID(path, os.Getpid()); err != nil {
		t.Fatal(err)
	}
	if err := ensureServerNotRunning(path); err == nil {
		t.Error("live pid not reported as running")
	}
}
