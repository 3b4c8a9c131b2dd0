package render

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
)

// Display is a panel that shows committed canvases.
type Display interface {
	Size() (w, h int)
	// Commit shows c. A partial commit may leave ghosting but is faster.
	Commit(c *Canvas, partial bool) error
	Clear() error
	Sleep() error
}

// DisplayError reports a failed display operation.
type DisplayError struct {
	Op  string
	Err error
}

func (e *DisplayError) Error() string { return "display " + e.Op + ": " + e.Err.Error() }
func (e *DisplayError) Unwrap() error { return e.Err }

// MockDisplay logs every operation and optionally saves each committed
// frame as a PNG in Dir.
type MockDisplay struct {
	W, H int
	Dir  string

	log *slog.Logger

	mu       sync.Mutex
	last     *Canvas
	commits  int
	partials int
	clears   int
	asleep   bool
}

// NewMockDisplay returns a w×h mock display.
func NewMockDisplay(w, h int, dir string, log *slog.Logger) *MockDisplay {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &MockDisplay{W: w, H: h, Dir: dir, log: log}
}

func (m *MockDisplay) Size() (int, int) { return m.W, m.H }

func (m *MockDisplay) Commit(c *Canvas, partial bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.commits++
	if partial {
		m.partials++
	}
	m.asleep = false
	m.last = c.Clone()
	m.log.Debug("display commit", "frame", m.commits, "partial", partial)

	if m.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return &DisplayError{Op: "commit", Err: err}
	}
	path := filepath.Join(m.Dir, fmt.Sprintf("frame_%04d.png", m.commits))
	if err := imaging.Save(c.Image(), path); err != nil {
		return &DisplayError{Op: "commit", Err: err}
	}
	return nil
}

func (m *MockDisplay) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	m.last = NewCanvas(m.W, m.H)
	m.log.Debug("display clear")
	return nil
}

func (m *MockDisplay) Sleep() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.asleep = true
	m.log.Debug("display sleep")
	return nil
}

// Last returns a copy of the most recently shown frame, or nil.
func (m *MockDisplay) Last() *Canvas {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return nil
	}
	return m.last.Clone()
}

// Stats returns the number of commits, partial commits and clears.
func (m *MockDisplay) Stats() (commits, partials, clears int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits, m.partials, m.clears
}

// Asleep reports whether Sleep was called since the last commit.
func (m *MockDisplay) Asleep() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.asleep
}

// SavePNG writes c to path.
func SavePNG(c *Canvas, path string) error {
	return imaging.Save(c.Image(), path)
}
