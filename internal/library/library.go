// Package library lists, filters and imports the books in the books
// directory.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Book is a file in the library.
type Book struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Ext returns the upper-case extension label, e.g. "EPUB".
func (b Book) Ext() string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(b.Name), "."))
}

// HumanSize returns the file size in binary units, e.g. "1.2 MiB".
func (b Book) HumanSize() string {
	return humanize.IBytes(uint64(b.Size))
}

// Library is a directory of books with the given extensions.
type Library struct {
	Dir  string
	exts map[string]bool
}

// New returns a library over dir accepting files with exts (".txt", ...).
func New(dir string, exts []string) *Library {
	l := &Library{Dir: dir, exts: make(map[string]bool)}
	for _, e := range exts {
		l.exts[strings.ToLower(e)] = true
	}
	return l
}

// Supports reports whether name has an accepted extension.
func (l *Library) Supports(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return l.exts[strings.ToLower(filepath.Ext(base))]
}

// List returns the books in the directory, newest first. The directory is
// created if it does not exist.
func (l *Library) List() ([]Book, error) {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create books dir: %w", err)
	}
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("read books dir: %w", err)
	}

	var books []Book
	for _, e := range entries {
		if e.IsDir() || !l.Supports(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		books = append(books, Book{
			Path:    filepath.Join(l.Dir, e.Name()),
			Name:    e.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.SliceStable(books, func(i, j int) bool {
		if !books[i].ModTime.Equal(books[j].ModTime) {
			return books[i].ModTime.After(books[j].ModTime)
		}
		return books[i].Name < books[j].Name
	})
	return books, nil
}

// Filter returns the books whose names fuzzily match query, keeping their
// order. An empty query returns every book.
func Filter(books []Book, query string) []Book {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return books
	}
	names := make([]string, len(books))
	for i, b := range books {
		names[i] = b.Name
	}
	matches := make(map[int]bool)
	for _, r := range fuzzy.RankFindNormalizedFold(trimmed, names) {
		matches[r.OriginalIndex] = true
	}
	var out []Book
	for i, b := range books {
		if matches[i] {
			out = append(out, b)
		}
	}
	return out
}
