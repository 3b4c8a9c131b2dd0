// Package layout wraps text into lines that fit a pixel box and places them
// according to alignment rules.
package layout

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/metcalfc/inkreader/internal/render"
	"golang.org/x/image/font"
)

// ReferenceSample is measured to derive the line height.
const ReferenceSample = "Agjy"

// Ellipsis replaces the tail of the last visible line on overflow.
const Ellipsis = "..."

// Align is the horizontal placement of each line.
type Align int

const (
	Left Align = iota
	Center
	Right
)

// VAlign is the vertical placement of the block of lines.
type VAlign int

const (
	Top VAlign = iota
	Middle
	Bottom
)

// Measurer measures rendered text.
type Measurer interface {
	MeasureText(text string, face font.Face) (w, h int)
}

// Options controls line breaking and placement.
type Options struct {
	Face        font.Face
	LineSpacing float64
	Align       Align
	VAlign      VAlign
	Color       color.Color // defaults to black
}

// Line is a laid-out line with the top-left corner of its text.
type Line struct {
	Text  string
	X, Y  int
	Width int
}

// Result describes what Render placed.
type Result struct {
	Lines      []Line
	LinesUsed  int
	Truncated  bool
	LineHeight int
}

// Wrap breaks text into lines no wider than width. Newlines in text are
// hard breaks. Words are never split; a word wider than width gets a line
// of its own.
func Wrap(m Measurer, text string, face font.Face, width int) []string {
	var lines []string
	for _, hard := range strings.Split(text, "\n") {
		words := strings.Fields(hard)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := ""
		for _, word := range words {
			candidate := word
			if cur != "" {
				candidate = cur + " " + word
			}
			if w, _ := m.MeasureText(candidate, face); w > width && cur != "" {
				lines = append(lines, cur)
				cur = word
				continue
			}
			cur = candidate
		}
		lines = append(lines, cur)
	}
	return lines
}

// LineHeight returns the reference sample height scaled by spacing,
// rounded, and at least one pixel.
func LineHeight(m Measurer, face font.Face, spacing float64) int {
	if spacing <= 0 {
		spacing = 1
	}
	_, h := m.MeasureText(ReferenceSample, face)
	lh := int(math.Round(float64(h) * spacing))
	if lh < 1 {
		lh = 1
	}
	return lh
}

// Truncate keeps at most max lines. When lines are dropped the last kept
// line loses its final three characters and gains an ellipsis.
func Truncate(lines []string, max int) ([]string, bool) {
	if len(lines) <= max {
		return lines, false
	}
	if max <= 0 {
		return nil, true
	}
	out := append([]string(nil), lines[:max]...)
	last := []rune(out[max-1])
	if len(last) > len(Ellipsis) {
		last = last[:len(last)-len(Ellipsis)]
	} else {
		last = nil
	}
	out[max-1] = string(last) + Ellipsis
	return out, true
}

// Place wraps text into box and computes each line's position without
// drawing.
func Place(m Measurer, text string, box image.Rectangle, opts Options) Result {
	lh := LineHeight(m, opts.Face, opts.LineSpacing)
	lines := Wrap(m, text, opts.Face, box.Dx())
	lines, truncated := Truncate(lines, box.Dy()/lh)

	block := len(lines) * lh
	y := box.Min.Y
	switch opts.VAlign {
	case Middle:
		y += (box.Dy() - block) / 2
	case Bottom:
		y += box.Dy() - block
	}

	res := Result{LinesUsed: len(lines), Truncated: truncated, LineHeight: lh}
	for i, text := range lines {
		w, _ := m.MeasureText(text, opts.Face)
		x := box.Min.X
		switch opts.Align {
		case Center:
			x += (box.Dx() - w) / 2
		case Right:
			x += box.Dx() - w
		}
		res.Lines = append(res.Lines, Line{Text: text, X: x, Y: y + i*lh, Width: w})
	}
	return res
}

// Render lays text out in box and draws it onto s.
func Render(s render.Surface, text string, box image.Rectangle, opts Options) Result {
	if opts.Color == nil {
		opts.Color = render.Black
	}
	res := Place(s, text, box, opts)
	for _, l := range res.Lines {
		s.DrawText(l.X, l.Y, l.Text, opts.Face, opts.Color)
	}
	return res
}
