package ui

import (
	"fmt"
	"image"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/metcalfc/inkreader/internal/layout"
	"github.com/metcalfc/inkreader/internal/render"
	"golang.org/x/image/font"
)

// NameWidth is the display width at which list names are cut.
const NameWidth = 20

const progressHeight = 6

// Style carries the geometry and faces used to draw screens.
type Style struct {
	Fonts       *render.Fonts
	FontSize    int
	LineSpacing float64
	Margin      int
	Now         time.Time
}

func (st Style) bodyOpts() layout.Options {
	return layout.Options{Face: st.Fonts.Face(st.FontSize), LineSpacing: st.LineSpacing}
}

func (st Style) titleFace() font.Face { return st.Fonts.Bold(18) }
func (st Style) smallFace() font.Face { return st.Fonts.Face(14) }

// frame draws the title and status bars and returns the inset body.
func frame(s render.Surface, st Style, title, status string) image.Rectangle {
	body := render.DrawTitleBar(s, s.Bounds(), title, st.titleFace())
	body = render.DrawStatusBar(s, body, status, st.Now, st.smallFace())
	return body.Inset(st.Margin)
}

// Draw renders the active screen onto s.
func (s *Screens) Draw(surf render.Surface, st Style) {
	surf.FillRect(surf.Bounds(), render.White)
	switch s.Active {
	case HomeScreen:
		s.Home.draw(surf, st)
	case ReadingScreen:
		s.Reading.draw(surf, st)
	case MenuScreen:
		s.Menu.draw(surf, st)
	}
}

// TruncateName shortens name to NameWidth display cells.
func TruncateName(name string) string {
	return runewidth.Truncate(name, NameWidth, "...")
}

func drawRows(surf render.Surface, st Style, body image.Rectangle, rows []string, selected int) {
	opts := st.bodyOpts()
	opts.VAlign = layout.Middle
	lh := layout.LineHeight(surf, opts.Face, opts.LineSpacing)
	for i, text := range rows {
		row := image.Rect(body.Min.X, body.Min.Y+i*lh, body.Max.X, body.Min.Y+(i+1)*lh)
		if row.Max.Y > body.Max.Y {
			break
		}
		layout.Render(surf, text, row, opts)
		if i == selected {
			render.DrawSelection(surf, image.Rect(row.Min.X-5, row.Min.Y, row.Max.X+5, row.Max.Y))
		}
	}
}

func (h *Home) draw(surf render.Surface, st Style) {
	status := fmt.Sprintf("%d books | page %d/%d", len(h.Entries), h.ListPage+1, h.Pages())
	body := frame(surf, st, "Library", status)
	if len(h.Entries) == 0 {
		opts := st.bodyOpts()
		opts.Align, opts.VAlign = layout.Center, layout.Middle
		layout.Render(surf, "No books yet.\nCopy .txt, .epub or .pdf files into the books folder.", body, opts)
		return
	}
	start, end := h.Visible()
	var rows []string
	for _, e := range h.Entries[start:end] {
		row := TruncateName(e.Name)
		if e.Detail != "" {
			row += "  (" + e.Detail + ")"
		}
		rows = append(rows, row)
	}
	drawRows(surf, st, body, rows, h.Selected-start)
}

func (r *Reading) draw(surf render.Surface, st Style) {
	if r.Book == nil {
		body := frame(surf, st, "Reading", "")
		opts := st.bodyOpts()
		opts.Align, opts.VAlign = layout.Center, layout.Middle
		layout.Render(surf, "No book open.\nPress Home to return to the library.", body, opts)
		return
	}
	status := fmt.Sprintf("%d/%d | %.0f%%", r.Book.Current+1, r.Book.Total(), r.Book.Progress()*100)
	body := frame(surf, st, TruncateName(r.Title), status)
	if body.Dy() > 4*progressHeight {
		bar := image.Rect(body.Min.X, body.Max.Y-progressHeight, body.Max.X, body.Max.Y)
		render.DrawProgress(surf, bar, r.Book.Progress())
		body.Max.Y = bar.Min.Y - progressHeight
	}
	layout.Render(surf, r.Book.Page(), body, st.bodyOpts())
}

func (m *Menu) draw(surf render.Surface, st Style) {
	body := frame(surf, st, "Menu", "Up/Down select | Select confirm | Home back")
	rows := make([]string, len(MenuItems))
	for i, item := range MenuItems {
		rows[i] = item.Label
	}
	drawRows(surf, st, body, rows, m.Selected)
}

// DrawNotice renders a read-only message page.
func DrawNotice(surf render.Surface, st Style, title, message string) {
	surf.FillRect(surf.Bounds(), render.White)
	body := frame(surf, st, title, "Press any key")
	opts := st.bodyOpts()
	opts.Align, opts.VAlign = layout.Center, layout.Middle
	layout.Render(surf, message, body, opts)
}

// DrawSplash renders the start-up screen.
func DrawSplash(surf render.Surface, st Style, version string) {
	surf.FillRect(surf.Bounds(), render.White)
	opts := layout.Options{
		Face:        st.Fonts.Bold(st.FontSize + 8),
		LineSpacing: st.LineSpacing,
		Align:       layout.Center,
		VAlign:      layout.Middle,
	}
	layout.Render(surf, "inkreader\n\nversion "+version+"\n\nStarting...", surf.Bounds(), opts)
}
