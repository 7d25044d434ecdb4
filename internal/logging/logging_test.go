package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "serve", slog.LevelInfo).Info("listening", "addr", ":8080")

	out := buf.String()
	for _, want := range []string{"component=serve", "msg=listening", "addr=:8080"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %s", want, out)
		}
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "tui", slog.LevelInfo).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record written at info level: %s", buf.String())
	}
}

func TestOpenWithoutPathDiscards(t *testing.T) {
	logger, closer, err := Open("", "tui", true)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("nothing")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cflow.log")
	logger, closer, err := Open(path, "tui", false)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("recorded", "seq", 0)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "msg=recorded") {
		t.Errorf("log file = %q", data)
	}
}
