// Package app runs the reader: it drains button events, dispatches them to
// the screens, applies the resulting commands and redraws the display.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/metcalfc/inkreader/internal/config"
	"github.com/metcalfc/inkreader/internal/input"
	"github.com/metcalfc/inkreader/internal/library"
	"github.com/metcalfc/inkreader/internal/reader"
	"github.com/metcalfc/inkreader/internal/render"
	"github.com/metcalfc/inkreader/internal/state"
	"github.com/metcalfc/inkreader/internal/ui"
)

const (
	// DefaultInterval is the main loop period.
	DefaultInterval = 50 * time.Millisecond

	// maxCommands bounds the follow-up commands applied for one event.
	maxCommands = 32
)

// Options wires the controller's collaborators.
type Options struct {
	Config     *config.Config
	ConfigPath string
	Display    render.Display
	Queue      *input.Queue
	Registry   *reader.Registry
	Library    *library.Library
	Bookmarks  *state.Store
	Fonts      *render.Fonts
	Log        *slog.Logger

	// Changes receives a notice whenever the books directory changes.
	Changes  <-chan struct{}
	Now      func() time.Time
	Interval time.Duration
	Version  string

	// Bookmark, when set, is jumped to after the last book is reopened.
	Bookmark string
}

type notice struct {
	title, body string
}

// Controller owns the screens and applies their commands.
type Controller struct {
	cfg        *config.Config
	cfgPath    string
	display    render.Display
	queue      *input.Queue
	registry   *reader.Registry
	lib        *library.Library
	store      *state.Store
	fonts      *render.Fonts
	log        *slog.Logger
	changes    <-chan struct{}
	now        func() time.Time
	interval   time.Duration
	version    string
	startMark  string
	screens    ui.Screens
	marks      state.Bookmarks
	notice     *notice
	running    bool
	dirty      bool
	fullNext   bool
	turns      int
	asleep     bool
	lastActive time.Time
}

// New returns a controller. Missing optional collaborators get defaults.
func New(opts Options) *Controller {
	c := &Controller{
		cfg:       opts.Config,
		cfgPath:   opts.ConfigPath,
		display:   opts.Display,
		queue:     opts.Queue,
		registry:  opts.Registry,
		lib:       opts.Library,
		store:     opts.Bookmarks,
		fonts:     opts.Fonts,
		log:       opts.Log,
		changes:   opts.Changes,
		now:       opts.Now,
		interval:  opts.Interval,
		version:   opts.Version,
		startMark: opts.Bookmark,
		marks:     make(state.Bookmarks),
		running:   true,
		fullNext:  true,
	}
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	if c.queue == nil {
		c.queue = &input.Queue{}
	}
	if c.registry == nil {
		c.registry = reader.DefaultRegistry()
	}
	if c.lib == nil {
		c.lib = library.New(c.cfg.BooksDir, c.registry.Extensions())
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.store == nil {
		c.store = state.NewStore(c.log)
	}
	if c.fonts == nil {
		c.fonts, _ = render.NewFonts("")
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.interval <= 0 {
		c.interval = DefaultInterval
	}
	if c.version == "" {
		c.version = "dev"
	}
	c.lastActive = c.now()
	return c
}

// Screens exposes the screen state.
func (c *Controller) Screens() *ui.Screens { return &c.screens }

// Running reports whether the loop should continue.
func (c *Controller) Running() bool { return c.running }

// Start shows the splash screen, loads the library and reopens the last
// book at its saved page.
func (c *Controller) Start() {
	c.commit(c.splash(), false)

	c.reloadLibrary()
	c.screens.Show(ui.HomeScreen)

	if c.cfg.CurrentBook != "" {
		if err := c.openBook(c.cfg.CurrentBook); err != nil {
			c.log.Warn("resume failed", "book", c.cfg.CurrentBook, "err", err)
			c.cfg.CurrentBook = ""
			c.cfg.CurrentPage = 0
		} else {
			c.screens.Show(ui.ReadingScreen)
		}
	}
	c.dirty = true
	c.fullNext = true
}

// Run starts the controller and loops until Exit or ctx is cancelled, then
// shuts down.
func (c *Controller) Run(ctx context.Context) error {
	c.Start()
	if c.startMark != "" {
		if err := c.GotoBookmark(c.startMark); err != nil {
			c.log.Warn("start bookmark", "name", c.startMark, "err", err)
		}
	}
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Step()
	for c.running {
		select {
		case <-ctx.Done():
			c.log.Info("stopping", "reason", ctx.Err())
			c.running = false
		case <-ticker.C:
			c.Step()
		}
	}
	return c.Shutdown()
}

// Step runs one loop iteration: drain events, apply library changes,
// handle idle sleep and redraw if needed.
func (c *Controller) Step() {
	events := c.queue.Drain()
	if len(events) > 0 {
		c.lastActive = c.now()
		if c.asleep {
			c.log.Debug("waking display")
			c.asleep = false
			c.dirty = true
			c.fullNext = true
		}
	}
	for _, e := range events {
		c.HandleButton(e)
		if !c.running {
			break
		}
	}

	if c.changes != nil {
		select {
		case <-c.changes:
			c.reloadLibrary()
			if c.screens.Active == ui.HomeScreen {
				c.dirty = true
			}
		default:
		}
	}

	if c.running {
		c.render()
		c.maybeSleep()
	}
}

// HandleButton maps a button event to a screen event and dispatches it.
func (c *Controller) HandleButton(e input.Event) {
	switch e.Kind {
	case input.LongHold:
		c.log.Debug("long hold ignored", "button", e.Button, "held", e.Duration)
		return
	case input.ButtonDown, input.ButtonUp:
		return
	}

	if c.notice != nil {
		c.log.Debug("notice dismissed", "title", c.notice.title)
		c.notice = nil
		c.dirty = true
		c.fullNext = true
		if e.Kind != input.LongPress {
			return
		}
	}

	ev, ok := ui.FromButton(e)
	if !ok {
		c.log.Debug("unmapped button event", "event", e)
		return
	}
	c.Dispatch(ev)
}

// Dispatch sends ev to the active screen and applies the resulting command
// and its follow-ups.
func (c *Controller) Dispatch(ev ui.Event) {
	cmd, ok := c.screens.Handle(ev)
	if !ok {
		return
	}
	c.log.Debug("dispatch", "screen", c.screens.Active, "event", ev.Kind, "command", cmd.Kind)

	pending := []ui.Command{cmd}
	for applied := 0; len(pending) > 0; applied++ {
		if applied >= maxCommands {
			c.log.Warn("command queue overflow, dropping", "dropped", len(pending), "event", ev.Kind)
			return
		}
		next := pending[0]
		pending = append(pending[1:], c.apply(next)...)
	}
}

// apply executes one command and returns any follow-up commands.
func (c *Controller) apply(cmd ui.Command) []ui.Command {
	switch cmd.Kind {
	case ui.CmdRefresh:
		c.dirty = true

	case ui.CmdLoadBook:
		if err := c.openBook(cmd.Path); err != nil {
			c.log.Error("open book", "path", cmd.Path, "err", err)
			c.showNotice("Cannot open book", describeExtractError(cmd.Path, err))
			return nil
		}
		return []ui.Command{{Kind: ui.CmdShowReading}, {Kind: ui.CmdSaveConfig}}

	case ui.CmdShowHome:
		c.reloadLibrary()
		c.switchTo(ui.HomeScreen)

	case ui.CmdShowMenu:
		c.switchTo(ui.MenuScreen)

	case ui.CmdShowReading:
		c.switchTo(ui.ReadingScreen)

	case ui.CmdSaveConfig:
		c.saveConfig()

	case ui.CmdExit:
		c.log.Info("exit requested")
		c.running = false

	case ui.CmdAddBookmark:
		c.addBookmark()

	case ui.CmdShowBookmarks:
		c.showNotice("Bookmarks", c.bookmarkSummary())

	case ui.CmdShowSettings:
		c.showNotice("Settings", fmt.Sprintf(
			"Screen: %s\nFont size: %d\nLine spacing: %.1f\nMargin: %d\nCharacters per page: %d\nTheme: %s\nAuto sleep: %ds",
			c.cfg.ScreenType, c.cfg.FontSize, c.cfg.LineSpacing, c.cfg.Margin,
			c.cfg.CharsPerPage, c.cfg.Theme, c.cfg.AutoSleep))

	case ui.CmdStartWiFiUpload:
		c.showNotice("Wi-Fi upload", "Wi-Fi upload is not available on this device.\nCopy books with: inkreader import <dir>")

	case ui.CmdShowAbout:
		c.showNotice("About", fmt.Sprintf("inkreader %s\n\nBooks: %s\nFormats: %s",
			c.version, c.lib.Dir, strings.Join(c.registry.Extensions(), " ")))

	case ui.CmdShutdownConfirm:
		c.showNotice("Shutdown", "Hold Home to shut down.\nPress any key to cancel.")

	default:
		c.log.Warn("unknown command", "command", cmd.Kind)
	}
	return nil
}

func (c *Controller) switchTo(id ui.ScreenID) {
	c.screens.Show(id)
	c.dirty = true
	c.fullNext = true
}

func (c *Controller) showNotice(title, body string) {
	c.notice = &notice{title: title, body: body}
	c.dirty = true
	c.fullNext = true
}

// openBook extracts and paginates path. Reopening the configured book
// restores its saved page.
func (c *Controller) openBook(path string) error {
	text, err := c.registry.Extract(path)
	if err != nil {
		return err
	}
	book := reader.NewBook(path, text, c.cfg.CharsPerPage)
	if path == c.cfg.CurrentBook {
		book.GoTo(c.cfg.CurrentPage)
	}
	c.screens.Reading.Book = book
	c.screens.Reading.Title = filepath.Base(path)
	c.screens.Reading.NeedsRefresh = true
	c.cfg.CurrentBook = path
	c.cfg.CurrentPage = book.Current
	c.marks = c.store.Load(path)
	c.log.Info("book loaded", "path", path, "pages", book.Total(), "page", book.Current+1)
	return nil
}

func (c *Controller) saveConfig() {
	if b := c.screens.Reading.Book; b != nil {
		c.cfg.CurrentBook = b.Path
		c.cfg.CurrentPage = b.Current
	}
	if err := config.Save(c.cfg, c.cfgPath); err != nil {
		c.log.Error("save config", "err", err)
	}
}

func (c *Controller) addBookmark() {
	b := c.screens.Reading.Book
	if b == nil {
		c.showNotice("Bookmarks", "Open a book to add a bookmark.")
		return
	}
	name := c.marks.Add("", b.Current, c.now())
	if err := c.store.Save(b.Path, c.marks); err != nil {
		c.log.Error("save bookmarks", "book", b.Path, "err", err)
		c.showNotice("Bookmarks", "Could not save bookmark.")
		return
	}
	c.showNotice("Bookmarks", fmt.Sprintf("Added %q at page %d.", name, b.Current+1))
}

func (c *Controller) bookmarkSummary() string {
	if c.screens.Reading.Book == nil {
		return "Open a book to see its bookmarks."
	}
	names := c.marks.Names()
	if len(names) == 0 {
		return "No bookmarks in this book."
	}
	var sb strings.Builder
	for _, n := range names {
		m := c.marks[n]
		fmt.Fprintf(&sb, "%s: page %d (%s)\n", n, m.Page+1, m.CreatedAt().Format("2006-01-02 15:04"))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// GotoBookmark jumps the open book to the named bookmark. Pages beyond the
// end of the book, which happen after re-pagination, are clamped.
func (c *Controller) GotoBookmark(name string) error {
	if c.screens.Reading.Book == nil {
		return errors.New("no book open")
	}
	m, ok := c.marks[name]
	if !ok {
		return fmt.Errorf("no bookmark %q", name)
	}
	if c.screens.Active != ui.ReadingScreen {
		c.switchTo(ui.ReadingScreen)
	}
	c.Dispatch(ui.Event{Kind: ui.EvGotoPage, Page: m.Page})
	return nil
}

func (c *Controller) reloadLibrary() {
	books, err := c.lib.List()
	if err != nil {
		c.log.Error("list books", "dir", c.lib.Dir, "err", err)
		return
	}
	entries := make([]ui.Entry, len(books))
	for i, b := range books {
		entries[i] = ui.Entry{Name: b.Name, Path: b.Path, Detail: b.Ext() + ", " + b.HumanSize()}
	}
	c.screens.Home.SetEntries(entries)
}

func (c *Controller) style() ui.Style {
	return ui.Style{
		Fonts:       c.fonts,
		FontSize:    c.cfg.FontSize,
		LineSpacing: c.cfg.LineSpacing,
		Margin:      c.cfg.Margin,
		Now:         c.now(),
	}
}

func (c *Controller) canvas() *render.Canvas {
	w, h := c.display.Size()
	return render.NewCanvas(w, h)
}

func (c *Controller) splash() *render.Canvas {
	cv := c.canvas()
	ui.DrawSplash(cv, c.style(), c.version)
	return cv
}

// render redraws when something changed. Page turns use partial refresh;
// every FullRefreshEvery turns, screen switches and wake-ups use a full
// refresh.
func (c *Controller) render() {
	if !c.dirty && !c.screens.NeedsRefresh() {
		return
	}
	cv := c.canvas()
	if c.notice != nil {
		ui.DrawNotice(cv, c.style(), c.notice.title, c.notice.body)
	} else {
		c.screens.Draw(cv, c.style())
	}

	partial := !c.fullNext && !c.asleep && c.turns+1 < c.cfg.FullRefreshEvery
	if c.commit(cv, partial) {
		// A commit wakes the panel, so the idle timer starts over.
		if c.asleep {
			c.asleep = false
			c.lastActive = c.now()
		}
		c.dirty = false
		c.fullNext = false
		c.screens.MarkDrawn()
		if partial {
			c.turns++
		} else {
			c.turns = 0
		}
	}
}

// commit shows cv and reports success. Failures are logged and leave the
// frame to be redrawn on the next iteration.
func (c *Controller) commit(cv *render.Canvas, partial bool) bool {
	if c.cfg.Theme == "dark" {
		cv.Invert()
	}
	if err := c.display.Commit(cv, partial); err != nil {
		c.log.Warn("display commit failed, retrying", "err", err)
		return false
	}
	return true
}

func (c *Controller) maybeSleep() {
	idle := c.cfg.AutoSleepDuration()
	if idle <= 0 || c.asleep || c.now().Sub(c.lastActive) < idle {
		return
	}
	c.log.Info("auto sleep", "idle", idle)
	if err := c.display.Sleep(); err != nil {
		c.log.Warn("display sleep", "err", err)
		return
	}
	c.asleep = true
}

// Shutdown persists the configuration and releases the display.
func (c *Controller) Shutdown() error {
	c.running = false
	c.saveConfig()
	var errs []error
	if err := c.display.Clear(); err != nil {
		errs = append(errs, err)
	}
	if err := c.display.Sleep(); err != nil {
		errs = append(errs, err)
	}
	c.log.Info("shutdown complete")
	return errors.Join(errs...)
}

func describeExtractError(path string, err error) string {
	name := filepath.Base(path)
	kind, ok := reader.KindOf(err)
	if !ok {
		return fmt.Sprintf("%s\n\n%v", name, err)
	}
	switch kind {
	case reader.Unsupported:
		return fmt.Sprintf("%s\n\nThis file format is not supported.", name)
	case reader.IOFailure:
		return fmt.Sprintf("%s\n\nThe file could not be read.", name)
	default:
		return fmt.Sprintf("%s\n\nThe file appears to be damaged.", name)
	}
}
