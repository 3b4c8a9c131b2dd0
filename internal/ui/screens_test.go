package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/metcalfc/inkreader/internal/input"
	"github.com/metcalfc/inkreader/internal/reader"
	"github.com/metcalfc/inkreader/internal/render"
)

func entries(n int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = Entry{Name: fmt.Sprintf("book%02d.txt", i), Path: fmt.Sprintf("/books/book%02d.txt", i)}
	}
	return out
}

func testBook(pages int) *reader.Book {
	var paras []string
	for i := 0; i < pages; i++ {
		paras = append(paras, strings.Repeat("p", 10))
	}
	return reader.NewBook("/books/test.txt", strings.Join(paras, "\n\n"), 10)
}

func TestHomeListPageFlip(t *testing.T) {
	s := &Screens{}
	s.Home.SetEntries(entries(13))

	for i := 0; i < 6; i++ {
		cmd, ok := s.Handle(Event{Kind: EvDown})
		if !ok || cmd.Kind != CmdRefresh {
			t.Fatalf("Down #%d = %v, %v", i+1, cmd, ok)
		}
	}
	if s.Home.Selected != 6 || s.Home.ListPage != 1 {
		t.Errorf("Selected = %d, ListPage = %d; want 6, 1", s.Home.Selected, s.Home.ListPage)
	}

	s.Handle(Event{Kind: EvUp})
	if s.Home.Selected != 5 || s.Home.ListPage != 0 {
		t.Errorf("after Up: Selected = %d, ListPage = %d; want 5, 0", s.Home.Selected, s.Home.ListPage)
	}
}

func TestHomeSelectionBounds(t *testing.T) {
	s := &Screens{}
	s.Home.SetEntries(entries(13))

	if _, ok := s.Handle(Event{Kind: EvUp}); ok {
		t.Error("Up at first item should be a no-op")
	}
	for i := 0; i < 20; i++ {
		s.Handle(Event{Kind: EvDown})
	}
	if s.Home.Selected != 12 || s.Home.ListPage != 2 {
		t.Errorf("Selected = %d, ListPage = %d; want 12, 2", s.Home.Selected, s.Home.ListPage)
	}
	start, end := s.Home.Visible()
	if start != 12 || end != 13 {
		t.Errorf("Visible() = %d, %d", start, end)
	}
}

func TestHomeListPaging(t *testing.T) {
	s := &Screens{}
	s.Home.SetEntries(entries(13))
	if s.Home.Pages() != 3 {
		t.Fatalf("Pages() = %d, want 3", s.Home.Pages())
	}

	s.Handle(Event{Kind: EvNextPage})
	s.Handle(Event{Kind: EvNextPage})
	if _, ok := s.Handle(Event{Kind: EvNextPage}); ok {
		t.Error("NextPage on last list page should be a no-op")
	}
	if s.Home.ListPage != 2 || s.Home.Selected != 12 {
		t.Errorf("ListPage = %d, Selected = %d", s.Home.ListPage, s.Home.Selected)
	}
	s.Handle(Event{Kind: EvPrevPage})
	if s.Home.ListPage != 1 || s.Home.Selected != 6 {
		t.Errorf("ListPage = %d, Selected = %d", s.Home.ListPage, s.Home.Selected)
	}
}

func TestHomeSelectLoadsBook(t *testing.T) {
	s := &Screens{}
	s.Home.SetEntries(entries(3))
	s.Handle(Event{Kind: EvDown})

	cmd, ok := s.Handle(Event{Kind: EvSelect})
	if !ok || cmd.Kind != CmdLoadBook || cmd.Path != "/books/book01.txt" {
		t.Errorf("Select = %v, %v", cmd, ok)
	}

	empty := &Screens{}
	if _, ok := empty.Handle(Event{Kind: EvSelect}); ok {
		t.Error("Select on empty list should be a no-op")
	}
}

func TestHomeSetEntriesClamps(t *testing.T) {
	s := &Screens{}
	s.Home.SetEntries(entries(13))
	for i := 0; i < 12; i++ {
		s.Handle(Event{Kind: EvDown})
	}
	s.Home.SetEntries(entries(4))
	if s.Home.Selected != 3 || s.Home.ListPage != 0 {
		t.Errorf("Selected = %d, ListPage = %d", s.Home.Selected, s.Home.ListPage)
	}
	s.Home.SetEntries(nil)
	if s.Home.Selected != 0 || s.Home.Pages() != 1 {
		t.Errorf("empty list: Selected = %d, Pages = %d", s.Home.Selected, s.Home.Pages())
	}
}

func TestReadingNavigation(t *testing.T) {
	s := &Screens{Active: ReadingScreen}
	s.Reading.Book = testBook(3)

	if _, ok := s.Handle(Event{Kind: EvPrevPage}); ok {
		t.Error("PrevPage on first page should be a no-op")
	}
	cmd, ok := s.Handle(Event{Kind: EvNextPage})
	if !ok || cmd.Kind != CmdSaveConfig || !s.Reading.NeedsRefresh {
		t.Errorf("NextPage = %v, %v", cmd, ok)
	}
	s.Handle(Event{Kind: EvNextPage})
	if _, ok := s.Handle(Event{Kind: EvNextPage}); ok {
		t.Error("NextPage on last page should be a no-op")
	}
	if s.Reading.Book.Current != 2 {
		t.Errorf("Current = %d, want 2", s.Reading.Book.Current)
	}

	cmd, ok = s.Handle(Event{Kind: EvGotoPage, Page: 0})
	if !ok || cmd.Kind != CmdSaveConfig || s.Reading.Book.Current != 0 {
		t.Errorf("GotoPage = %v, %v, Current %d", cmd, ok, s.Reading.Book.Current)
	}
	if _, ok := s.Handle(Event{Kind: EvGotoPage, Page: 0}); ok {
		t.Error("GotoPage to the current page should be a no-op")
	}

	if cmd, _ := s.Handle(Event{Kind: EvShowHome}); cmd.Kind != CmdShowHome {
		t.Errorf("ShowHome = %v", cmd)
	}
	if cmd, _ := s.Handle(Event{Kind: EvShowMenu}); cmd.Kind != CmdShowMenu {
		t.Errorf("ShowMenu = %v", cmd)
	}
}

func TestReadingWithoutBook(t *testing.T) {
	s := &Screens{Active: ReadingScreen}
	if _, ok := s.Handle(Event{Kind: EvNextPage}); ok {
		t.Error("NextPage without a book should be a no-op")
	}
}

func TestMenuCommands(t *testing.T) {
	want := []CommandKind{
		CmdShowHome, // Back without a book
		CmdAddBookmark,
		CmdShowBookmarks,
		CmdShowSettings,
		CmdStartWiFiUpload,
		CmdShowAbout,
		CmdShutdownConfirm,
	}
	s := &Screens{}
	s.Show(MenuScreen)
	for i, kind := range want {
		cmd, ok := s.Handle(Event{Kind: EvSelect})
		if !ok || cmd.Kind != kind {
			t.Errorf("item %d (%s) = %v, want %v", i, MenuItems[i].Label, cmd.Kind, kind)
		}
		s.Handle(Event{Kind: EvDown})
	}
	if s.Menu.Selected != len(MenuItems)-1 {
		t.Errorf("Selected = %d after moving past the end", s.Menu.Selected)
	}
}

func TestMenuBackWithBook(t *testing.T) {
	s := &Screens{}
	s.Reading.Book = testBook(2)
	s.Show(MenuScreen)
	cmd, _ := s.Handle(Event{Kind: EvSelect})
	if cmd.Kind != CmdShowReading {
		t.Errorf("Back = %v, want show-reading", cmd.Kind)
	}
	if cmd, _ := s.Handle(Event{Kind: EvShowHome}); cmd.Kind != CmdShowHome {
		t.Errorf("ShowHome = %v", cmd.Kind)
	}
}

func TestExitFromAnyScreen(t *testing.T) {
	for _, id := range []ScreenID{HomeScreen, ReadingScreen, MenuScreen} {
		s := &Screens{Active: id}
		if cmd, ok := s.Handle(Event{Kind: EvExit}); !ok || cmd.Kind != CmdExit {
			t.Errorf("%s: Exit = %v, %v", id, cmd, ok)
		}
	}
}

func TestShowAndRefreshFlags(t *testing.T) {
	s := &Screens{}
	s.Show(ReadingScreen)
	if s.Active != ReadingScreen || !s.NeedsRefresh() {
		t.Fatal("Show should activate and mark for redraw")
	}
	s.MarkDrawn()
	if s.NeedsRefresh() {
		t.Error("MarkDrawn did not clear the flag")
	}
	s.Menu.Selected = 4
	s.Show(MenuScreen)
	if s.Menu.Selected != 0 {
		t.Error("menu selection should reset when shown")
	}
}

func TestFromButton(t *testing.T) {
	tests := []struct {
		in   input.Event
		want EventKind
		ok   bool
	}{
		{input.Event{Kind: input.Click, Button: input.Prev}, EvPrevPage, true},
		{input.Event{Kind: input.Click, Button: input.Next}, EvNextPage, true},
		{input.Event{Kind: input.Click, Button: input.Home}, EvShowHome, true},
		{input.Event{Kind: input.Click, Button: input.Menu}, EvShowMenu, true},
		{input.Event{Kind: input.Click, Button: input.Up}, EvUp, true},
		{input.Event{Kind: input.Click, Button: input.Down}, EvDown, true},
		{input.Event{Kind: input.Click, Button: input.Select}, EvSelect, true},
		{input.Event{Kind: input.LongPress, Button: input.Home, Duration: time.Second}, EvExit, true},
		{input.Event{Kind: input.LongPress, Button: input.Next, Duration: time.Second}, 0, false},
		{input.Event{Kind: input.LongHold, Button: input.Home, Duration: time.Second}, 0, false},
		{input.Event{Kind: input.ButtonDown, Button: input.Next}, 0, false},
	}
	for _, tt := range tests {
		got, ok := FromButton(tt.in)
		if ok != tt.ok || (ok && got.Kind != tt.want) {
			t.Errorf("FromButton(%v) = %v, %v; want %v, %v", tt.in, got.Kind, ok, tt.want, tt.ok)
		}
	}
}

func TestTruncateName(t *testing.T) {
	if got := TruncateName("short.txt"); got != "short.txt" {
		t.Errorf("got %q", got)
	}
	got := TruncateName("a very long book title that goes on.epub")
	if got != "a very long book ..." {
		t.Errorf("got %q", got)
	}
}

func TestDrawScreens(t *testing.T) {
	fonts, err := render.NewFonts("")
	if err != nil {
		t.Fatalf("NewFonts: %v", err)
	}
	st := Style{Fonts: fonts, FontSize: 20, LineSpacing: 1.5, Margin: 20, Now: time.Unix(0, 0)}

	s := &Screens{}
	s.Home.SetEntries(entries(8))
	s.Reading.Book = testBook(2)
	s.Reading.Title = "test.txt"

	for _, id := range []ScreenID{HomeScreen, ReadingScreen, MenuScreen} {
		c := render.NewCanvas(800, 480)
		s.Show(id)
		s.Draw(c, st)
		if !c.IsBlack(0, 0) {
			t.Errorf("%s: title bar not drawn", id)
		}
		inked := false
		for y := 60; y < 420 && !inked; y++ {
			for x := 20; x < 780; x++ {
				if c.IsBlack(x, y) {
					inked = true
					break
				}
			}
		}
		if !inked {
			t.Errorf("%s: body left blank", id)
		}
	}

	c := render.NewCanvas(800, 480)
	DrawNotice(c, st, "About", "inkreader")
	DrawSplash(c, st, "dev")
}
