//go:build !gui

package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	"golang.org/x/term"

	"github.com/metcalfc/inkreader/internal/cli"
	"github.com/metcalfc/inkreader/internal/device"
	"github.com/metcalfc/inkreader/internal/input"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	// Terminals report key presses but not releases, so every key is a tap.
	tapHold = 60 * time.Millisecond
	// longHold must exceed the configured long-press threshold.
	longHold = 2 * time.Second
)

var (
	paperStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFFFFF"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	pressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	waitingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)
)

type keyMap struct {
	Prev     key.Binding
	Next     key.Binding
	Home     key.Binding
	PowerOff key.Binding
	Menu     key.Binding
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Home:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "home")),
		PowerOff: key.NewBinding(key.WithKeys("Q"), key.WithHelp("Q", "hold home")),
		Menu:     key.NewBinding(key.WithKeys("m", "tab"), key.WithHelp("m", "menu")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Up, k.Down, k.Select, k.Home, k.Menu, k.PowerOff, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type buttonKey struct {
	binding key.Binding
	button  input.Button
	hold    time.Duration
}

func (k keyMap) buttons() []buttonKey {
	return []buttonKey{
		{k.Prev, input.Prev, tapHold},
		{k.Next, input.Next, tapHold},
		{k.Home, input.Home, tapHold},
		{k.PowerOff, input.Home, longHold},
		{k.Menu, input.Menu, tapHold},
		{k.Up, input.Up, tapHold},
		{k.Down, input.Down, tapHold},
		{k.Select, input.Select, tapHold},
	}
}

type model struct {
	dev      *device.Device
	keys     keyMap
	help     help.Model
	frame    *image.Paletted
	seq      int
	partial  bool
	asleep   bool
	last     string
	quitting bool
	width    int
	height   int
}

type frameMsg device.Frame

func newModel(dev *device.Device) model {
	return model{
		dev:    dev,
		keys:   newKeyMap(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
}

func (m model) Init() tea.Cmd {
	return waitFrame(m.dev.Frames())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		for _, bk := range m.keys.buttons() {
			if key.Matches(msg, bk.binding) {
				m.dev.Tap(bk.button, bk.hold)
				m.last = bk.button.String()
				if bk.hold == longHold {
					m.last += " (held)"
				}
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		m.frame = msg.Image
		m.seq = msg.Seq
		m.partial = msg.Partial
		m.asleep = m.dev.Asleep()
		return m, waitFrame(m.dev.Frames())
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	refresh := "full"
	if m.partial {
		refresh = "partial"
	}
	status := fmt.Sprintf("Frame %d | %s refresh", m.seq, refresh)
	if m.asleep {
		status += " | asleep"
	}
	if m.last != "" {
		status += " | " + pressStyle.Render(m.last)
	}

	// Reserve 2 lines: 1 for status at top, 1 for help at bottom
	rows := m.height - 2
	if rows < 1 {
		rows = 1
	}

	var sb strings.Builder
	sb.WriteString(statusStyle.Render(status))
	sb.WriteString("\n")
	if m.frame == nil {
		sb.WriteString(waitingStyle.Render("Waiting for the display..."))
		sb.WriteString(strings.Repeat("\n", rows))
	} else {
		cols, r := fitCells(m.frame.Bounds().Dx(), m.frame.Bounds().Dy(), m.width, rows)
		sb.WriteString(paperStyle.Render(halfBlocks(m.frame, cols, r)))
		sb.WriteString(strings.Repeat("\n", rows-r+1))
	}
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func waitFrame(frames <-chan device.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return nil
		}
		return frameMsg(f)
	}
}

// fitCells returns the largest cols×rows cell grid that shows a w×h image
// at its aspect ratio, counting each cell as one pixel wide and two high.
func fitCells(w, h, maxCols, maxRows int) (cols, rows int) {
	if w <= 0 || h <= 0 || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}
	scale := min(float64(maxCols)/float64(w), float64(2*maxRows)/float64(h))
	cols = max(int(float64(w)*scale), 1)
	rows = max(int(float64(h)*scale/2), 1)
	return cols, rows
}

// halfBlocks draws img as cols×rows cells using half-block glyphs, two
// vertical pixels per cell.
func halfBlocks(img image.Image, cols, rows int) string {
	if cols < 1 || rows < 1 {
		return ""
	}
	small := imaging.Resize(img, cols, rows*2, imaging.Box)

	var sb strings.Builder
	for y := 0; y < rows*2; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			top, bottom := dark(small, x, y), dark(small, x, y+1)
			switch {
			case top && bottom:
				sb.WriteString("█")
			case top:
				sb.WriteString("▀")
			case bottom:
				sb.WriteString("▄")
			default:
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String()
}

func dark(img *image.NRGBA, x, y int) bool {
	c := img.NRGBAAt(x, y)
	return int(c.R)+int(c.G)+int(c.B) < 3*128
}

func runTerminal(ctx context.Context, dev *device.Device, log *slog.Logger) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the terminal front end needs a TTY; use --headless")
	}
	p := tea.NewProgram(newModel(dev), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			log.Debug("terminal closed by controller")
			return nil
		}
		return err
	}
	return nil
}

func main() {
	cli.Execute(cli.BuildInfo{Version: version, Commit: commit, Date: date}, runTerminal)
}
