package logging

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupStderrOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := setup(&buf, "warn", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closer()

	logger.Info("hidden")
	logger.Warn("shown", "table", "orders")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "table=orders") {
		t.Errorf("expected warn message with attrs, got %s", out)
	}
}

func TestSetupWithDirectory(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	logger, closer, err := setup(&buf, "info", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("loaded tables", "count", 12)
	if err := closer(); err != nil {
		t.Fatalf("closing log file: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 log file, got %d", len(entries))
	}
	if !strings.HasPrefix(entries[0].Name(), "salesinsight-") {
		t.Errorf("unexpected log file name %s", entries[0].Name())
	}
	if !strings.Contains(buf.String(), "count=12") {
		t.Errorf("expected stderr copy of the log line, got %s", buf.String())
	}
}
