package render

import (
	"image"
	"time"

	"golang.org/x/image/font"
)

const (
	TitleBarHeight  = 40
	StatusBarHeight = 30
	barPadding      = 20
)

// DrawTitleBar draws an inverted bar across the top of r with title on it.
// It returns the rectangle left below the bar.
func DrawTitleBar(s Surface, r image.Rectangle, title string, face font.Face) image.Rectangle {
	bar := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+TitleBarHeight)
	s.FillRect(bar, Black)
	_, h := s.MeasureText("Ag", face)
	s.DrawText(bar.Min.X+barPadding, bar.Min.Y+(TitleBarHeight-h)/2, title, face, White)
	return image.Rect(r.Min.X, bar.Max.Y, r.Max.X, r.Max.Y)
}

// DrawStatusBar draws an inverted bar across the bottom of r with status on
// the left and the time of now on the right. It returns the rectangle left
// above the bar.
func DrawStatusBar(s Surface, r image.Rectangle, status string, now time.Time, face font.Face) image.Rectangle {
	bar := image.Rect(r.Min.X, r.Max.Y-StatusBarHeight, r.Max.X, r.Max.Y)
	s.FillRect(bar, Black)
	_, h := s.MeasureText("Ag", face)
	y := bar.Min.Y + (StatusBarHeight-h)/2
	if status != "" {
		s.DrawText(bar.Min.X+barPadding, y, status, face, White)
	}
	clock := now.Format("15:04")
	w, _ := s.MeasureText(clock, face)
	s.DrawText(bar.Max.X-w-barPadding, y, clock, face, White)
	return image.Rect(r.Min.X, r.Min.Y, r.Max.X, bar.Min.Y)
}

// DrawSelection outlines row r with a two pixel frame.
func DrawSelection(s Surface, r image.Rectangle) {
	s.StrokeRect(r, Black)
	s.StrokeRect(r.Inset(1), Black)
}

// DrawProgress draws a horizontal progress bar filled to fraction p.
func DrawProgress(s Surface, r image.Rectangle, p float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	s.StrokeRect(r, Black)
	inner := r.Inset(2)
	fill := inner
	fill.Max.X = inner.Min.X + int(float64(inner.Dx())*p)
	s.FillRect(fill, Black)
}
