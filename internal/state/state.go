// Package state persists per-book bookmarks in sidecar files next to the
// book.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const sidecarSuffix = ".bookmarks.json"

// Bookmark is a named position in a book.
type Bookmark struct {
	Page      int     `json:"page"`
	Timestamp float64 `json:"timestamp"`
}

// CreatedAt returns the bookmark's creation time.
func (b Bookmark) CreatedAt() time.Time {
	sec, frac := math.Modf(b.Timestamp)
	return time.Unix(int64(sec), int64(frac*1e9))
}

// Bookmarks maps bookmark name to position.
type Bookmarks map[string]Bookmark

// Add stores a bookmark at page and returns its name. An empty name becomes
// "Bookmark N" where N is the current count plus one. Existing names are
// overwritten.
func (m Bookmarks) Add(name string, page int, now time.Time) string {
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Bookmark %d", len(m)+1)
	}
	m[name] = Bookmark{
		Page:      page,
		Timestamp: float64(now.UnixNano()) / 1e9,
	}
	return name
}

// Remove deletes name and reports whether it existed.
func (m Bookmarks) Remove(name string) bool {
	if _, ok := m[name]; !ok {
		return false
	}
	delete(m, name)
	return true
}

// Names returns bookmark names ordered by creation time, oldest first.
func (m Bookmarks) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := m[names[i]], m[names[j]]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return names[i] < names[j]
	})
	return names
}

// Store loads and saves bookmark sidecars.
type Store struct {
	log *slog.Logger
}

// NewStore returns a Store that reports load problems to log.
func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{log: log}
}

// SidecarPath returns <dir>/<stem>.bookmarks.json for bookPath.
func SidecarPath(bookPath string) string {
	dir, base := filepath.Split(bookPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+sidecarSuffix)
}

// Load returns the bookmarks saved for bookPath. A missing sidecar yields
// an empty map. An unreadable or corrupt sidecar is logged and also yields
// an empty map.
func (s *Store) Load(bookPath string) Bookmarks {
	marks := make(Bookmarks)
	path := SidecarPath(bookPath)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return marks
	}
	if err != nil {
		s.log.Warn("read bookmarks", "path", path, "err", err)
		return marks
	}
	if err := json.Unmarshal(data, &marks); err != nil {
		s.log.Warn("corrupt bookmarks file, ignoring", "path", path, "err", err)
		return make(Bookmarks)
	}
	if marks == nil {
		marks = make(Bookmarks)
	}
	return marks
}

// Save writes marks to the sidecar for bookPath. The sidecar is replaced
// atomically so a crash leaves either the old or the new contents.
func (s *Store) Save(bookPath string, marks Bookmarks) error {
	if marks == nil {
		marks = make(Bookmarks)
	}
	data, err := json.MarshalIndent(marks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}
	return WriteAtomic(SidecarPath(bookPath), data)
}

// WriteAtomic writes data to a temp file beside path and renames it into
// place.
func WriteAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ComputeHash returns a content hash used to recognise identical files.
func ComputeHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16]), nil // First 16 bytes = 32 hex chars
}
