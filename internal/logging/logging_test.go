package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewWritesStderrAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	var stderr bytes.Buffer

	log, closer, err := New(Options{Level: "info", Dir: dir, Stderr: &stderr, Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("book loaded", "pages", 12)
	log.Debug("hidden")
	closer.Close()

	if !strings.Contains(stderr.String(), "book loaded") || !strings.Contains(stderr.String(), "pages=12") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if strings.Contains(stderr.String(), "hidden") {
		t.Error("debug record written at info level")
	}

	data, err := os.ReadFile(filepath.Join(dir, "inkreader_2024-03-09.log"))
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !strings.Contains(string(data), "book loaded") {
		t.Errorf("log file = %q", data)
	}
}

func TestNewWithoutDir(t *testing.T) {
	var stderr bytes.Buffer
	log, closer, err := New(Options{Stderr: &stderr})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closer.Close()
	log.Warn("display busy")
	if !strings.Contains(stderr.String(), "level=WARN") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestClearOld(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 30, 9, 0, 0, 0, time.UTC)
	for _, name := range []string{
		"inkreader_2024-03-29.log",
		"inkreader_2024-03-01.log",
		"inkreader_2023-12-25.log",
		"inkreader_notadate.log",
		"other.log",
	} {
		os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644)
	}

	removed, err := ClearOld(dir, 7, now)
	if err != nil {
		t.Fatalf("ClearOld: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	for _, keep := range []string{"inkreader_2024-03-29.log", "inkreader_notadate.log", "other.log"} {
		if _, err := os.Stat(filepath.Join(dir, keep)); err != nil {
			t.Errorf("%s should remain: %v", keep, err)
		}
	}
}

func TestClearOldMissingDir(t *testing.T) {
	if n, err := ClearOld(filepath.Join(t.TempDir(), "none"), 7, time.Now()); n != 0 || err != nil {
		t.Errorf("ClearOld = %d, %v", n, err)
	}
}
