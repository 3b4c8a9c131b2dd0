// Package logging builds the process logger: text records to stderr and,
// when a log directory is configured, to one file per day.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	filePrefix = "inkreader_"
	fileSuffix = ".log"
	dateLayout = "2006-01-02"
)

// Options configures New.
type Options struct {
	Level  string    // debug, info, warn or error
	Dir    string    // empty disables the log file
	Stderr io.Writer // defaults to os.Stderr
	Now    func() time.Time
}

// New returns a logger writing to stderr and to <Dir>/inkreader_YYYY-MM-DD.log.
// The returned closer releases the log file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var w io.Writer = opts.Stderr
	var closer io.Closer = nopCloser{}
	if strings.TrimSpace(opts.Dir) != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(FilePath(opts.Dir, opts.Now()), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(opts.Stderr, f)
		closer = f
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	return slog.New(h), closer, nil
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FilePath returns the log file for day t.
func FilePath(dir string, t time.Time) string {
	return filepath.Join(dir, filePrefix+t.Format(dateLayout)+fileSuffix)
}

// ClearOld removes log files in dir dated more than days days before now.
// It returns the number of files removed.
func ClearOld(dir string, days int, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff := now.AddDate(0, 0, -days)
	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		day, err := time.ParseInLocation(dateLayout, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix), now.Location())
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
