package ui

import (
	"fmt"

	"github.com/metcalfc/inkreader/internal/reader"
)

// ItemsPerPage is the number of books shown on one Home list page.
const ItemsPerPage = 6

// ScreenID names the active screen.
type ScreenID int

const (
	HomeScreen ScreenID = iota
	ReadingScreen
	MenuScreen
)

func (id ScreenID) String() string {
	switch id {
	case HomeScreen:
		return "home"
	case ReadingScreen:
		return "reading"
	case MenuScreen:
		return "menu"
	default:
		return fmt.Sprintf("screen(%d)", int(id))
	}
}

// Entry is one book in the Home list.
type Entry struct {
	Name   string
	Path   string
	Detail string
}

// Home is the book list.
type Home struct {
	Entries      []Entry
	Selected     int
	ListPage     int
	NeedsRefresh bool
}

// Pages returns the number of list pages, at least one.
func (h *Home) Pages() int {
	if len(h.Entries) == 0 {
		return 1
	}
	return (len(h.Entries) + ItemsPerPage - 1) / ItemsPerPage
}

// Visible returns the index range of entries on the current list page.
func (h *Home) Visible() (start, end int) {
	start = h.ListPage * ItemsPerPage
	end = min(start+ItemsPerPage, len(h.Entries))
	return start, end
}

// SetEntries replaces the list, keeping the selection in range.
func (h *Home) SetEntries(entries []Entry) {
	h.Entries = entries
	if h.Selected >= len(entries) {
		h.Selected = max(len(entries)-1, 0)
	}
	h.ListPage = h.Selected / ItemsPerPage
	h.NeedsRefresh = true
}

func (h *Home) handle(ev Event) (Command, bool) {
	switch ev.Kind {
	case EvNextPage:
		if h.ListPage < h.Pages()-1 {
			h.ListPage++
			h.Selected = h.ListPage * ItemsPerPage
			return h.refresh()
		}
	case EvPrevPage:
		if h.ListPage > 0 {
			h.ListPage--
			h.Selected = h.ListPage * ItemsPerPage
			return h.refresh()
		}
	case EvUp:
		if h.Selected > 0 {
			h.Selected--
			if h.Selected < h.ListPage*ItemsPerPage {
				h.ListPage = max(h.ListPage-1, 0)
			}
			return h.refresh()
		}
	case EvDown:
		if h.Selected < len(h.Entries)-1 {
			h.Selected++
			if h.Selected >= (h.ListPage+1)*ItemsPerPage {
				h.ListPage++
			}
			return h.refresh()
		}
	case EvSelect:
		if h.Selected >= 0 && h.Selected < len(h.Entries) {
			return Command{Kind: CmdLoadBook, Path: h.Entries[h.Selected].Path}, true
		}
	case EvShowMenu:
		return Command{Kind: CmdShowMenu}, true
	}
	return Command{}, false
}

func (h *Home) refresh() (Command, bool) {
	h.NeedsRefresh = true
	return Command{Kind: CmdRefresh}, true
}

// Reading shows the open book.
type Reading struct {
	Book         *reader.Book
	Title        string
	NeedsRefresh bool
}

func (r *Reading) handle(ev Event) (Command, bool) {
	switch ev.Kind {
	case EvNextPage:
		if r.Book != nil && r.Book.Next() {
			return r.save()
		}
	case EvPrevPage:
		if r.Book != nil && r.Book.Prev() {
			return r.save()
		}
	case EvGotoPage:
		if r.Book != nil && r.Book.GoTo(ev.Page) {
			return r.save()
		}
	case EvShowHome:
		return Command{Kind: CmdShowHome}, true
	case EvShowMenu:
		return Command{Kind: CmdShowMenu}, true
	}
	return Command{}, false
}

func (r *Reading) save() (Command, bool) {
	r.NeedsRefresh = true
	return Command{Kind: CmdSaveConfig}, true
}

// MenuItem is one row of the menu.
type MenuItem struct {
	Label string
	Cmd   CommandKind
}

// MenuItems is the fixed menu. CmdNone marks Back, whose target depends on
// whether a book is open.
var MenuItems = []MenuItem{
	{"Back", CmdNone},
	{"Add bookmark", CmdAddBookmark},
	{"Bookmarks", CmdShowBookmarks},
	{"Settings", CmdShowSettings},
	{"Wi-Fi upload", CmdStartWiFiUpload},
	{"About", CmdShowAbout},
	{"Shutdown", CmdShutdownConfirm},
}

// Menu is the action list.
type Menu struct {
	Selected     int
	NeedsRefresh bool
}

func (m *Menu) handle(ev Event, bookOpen bool) (Command, bool) {
	switch ev.Kind {
	case EvUp:
		if m.Selected > 0 {
			m.Selected--
			m.NeedsRefresh = true
			return Command{Kind: CmdRefresh}, true
		}
	case EvDown:
		if m.Selected < len(MenuItems)-1 {
			m.Selected++
			m.NeedsRefresh = true
			return Command{Kind: CmdRefresh}, true
		}
	case EvSelect:
		item := MenuItems[m.Selected]
		if item.Cmd != CmdNone {
			return Command{Kind: item.Cmd}, true
		}
		if bookOpen {
			return Command{Kind: CmdShowReading}, true
		}
		return Command{Kind: CmdShowHome}, true
	case EvShowHome:
		return Command{Kind: CmdShowHome}, true
	}
	return Command{}, false
}

// Screens holds every screen's state. Exactly one is active.
type Screens struct {
	Home    Home
	Reading Reading
	Menu    Menu
	Active  ScreenID
}

// Handle dispatches ev to the active screen and returns the command it
// produced, if any. An exit request is honoured on every screen.
func (s *Screens) Handle(ev Event) (Command, bool) {
	if ev.Kind == EvExit {
		return Command{Kind: CmdExit}, true
	}
	switch s.Active {
	case HomeScreen:
		return s.Home.handle(ev)
	case ReadingScreen:
		return s.Reading.handle(ev)
	case MenuScreen:
		return s.Menu.handle(ev, s.Reading.Book != nil)
	}
	return Command{}, false
}

// Show makes id the active screen and marks it for redraw.
func (s *Screens) Show(id ScreenID) {
	s.Active = id
	switch id {
	case HomeScreen:
		s.Home.NeedsRefresh = true
	case ReadingScreen:
		s.Reading.NeedsRefresh = true
	case MenuScreen:
		s.Menu.Selected = 0
		s.Menu.NeedsRefresh = true
	}
}

// NeedsRefresh reports whether the active screen must be redrawn.
func (s *Screens) NeedsRefresh() bool {
	switch s.Active {
	case HomeScreen:
		return s.Home.NeedsRefresh
	case ReadingScreen:
		return s.Reading.NeedsRefresh
	case MenuScreen:
		return s.Menu.NeedsRefresh
	}
	return false
}

// MarkDrawn clears the active screen's refresh flag.
func (s *Screens) MarkDrawn() {
	switch s.Active {
	case HomeScreen:
		s.Home.NeedsRefresh = false
	case ReadingScreen:
		s.Reading.NeedsRefresh = false
	case MenuScreen:
		s.Menu.NeedsRefresh = false
	}
}
