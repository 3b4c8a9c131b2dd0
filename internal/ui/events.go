// Package ui holds the Home, Reading and Menu screens, the events they
// consume and the commands they emit.
package ui

import (
	"fmt"

	"github.com/metcalfc/inkreader/internal/input"
)

// EventKind is a navigation event delivered to the active screen.
type EventKind int

const (
	EvUp EventKind = iota
	EvDown
	EvNextPage
	EvPrevPage
	EvSelect
	EvShowHome
	EvShowMenu
	EvExit
	EvGotoPage
)

func (k EventKind) String() string {
	switch k {
	case EvUp:
		return "up"
	case EvDown:
		return "down"
	case EvNextPage:
		return "next-page"
	case EvPrevPage:
		return "prev-page"
	case EvSelect:
		return "select"
	case EvShowHome:
		return "show-home"
	case EvShowMenu:
		return "show-menu"
	case EvExit:
		return "exit"
	case EvGotoPage:
		return "goto-page"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a screen event. Page is used by EvGotoPage.
type Event struct {
	Kind EventKind
	Page int
}

// CommandKind is a request from a screen to the controller.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdRefresh
	CmdLoadBook
	CmdShowHome
	CmdShowMenu
	CmdShowReading
	CmdSaveConfig
	CmdExit
	CmdShowSettings
	CmdShowBookmarks
	CmdAddBookmark
	CmdStartWiFiUpload
	CmdShowAbout
	CmdShutdownConfirm
)

func (k CommandKind) String() string {
	switch k {
	case CmdNone:
		return "none"
	case CmdRefresh:
		return "refresh"
	case CmdLoadBook:
		return "load-book"
	case CmdShowHome:
		return "show-home"
	case CmdShowMenu:
		return "show-menu"
	case CmdShowReading:
		return "show-reading"
	case CmdSaveConfig:
		return "save-config"
	case CmdExit:
		return "exit"
	case CmdShowSettings:
		return "show-settings"
	case CmdShowBookmarks:
		return "show-bookmarks"
	case CmdAddBookmark:
		return "add-bookmark"
	case CmdStartWiFiUpload:
		return "start-wifi-upload"
	case CmdShowAbout:
		return "show-about"
	case CmdShutdownConfirm:
		return "shutdown-confirm"
	default:
		return fmt.Sprintf("command(%d)", int(k))
	}
}

// Command is a request from a screen. Path is used by CmdLoadBook.
type Command struct {
	Kind CommandKind
	Path string
}

// FromButton maps a button event to a screen event. Clicks map one to one;
// a long press of Home exits. Everything else is ignored.
func FromButton(e input.Event) (Event, bool) {
	switch e.Kind {
	case input.Click:
		switch e.Button {
		case input.Prev:
			return Event{Kind: EvPrevPage}, true
		case input.Next:
			return Event{Kind: EvNextPage}, true
		case input.Home:
			return Event{Kind: EvShowHome}, true
		case input.Menu:
			return Event{Kind: EvShowMenu}, true
		case input.Up:
			return Event{Kind: EvUp}, true
		case input.Down:
			return Event{Kind: EvDown}, true
		case input.Select:
			return Event{Kind: EvSelect}, true
		}
	case input.LongPress:
		if e.Button == input.Home {
			return Event{Kind: EvExit}, true
		}
	}
	return Event{}, false
}
