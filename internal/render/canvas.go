// Package render provides the 1-bit drawing surface, font faces and the
// display abstraction the reader draws onto.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var (
	White = color.Gray{Y: 0xff}
	Black = color.Gray{Y: 0x00}
)

// Palette is the two-colour palette of every canvas. Index 0 is paper.
var Palette = color.Palette{White, Black}

// Surface is what screens and the layout engine draw on.
type Surface interface {
	Bounds() image.Rectangle
	// MeasureText returns the advance width and inked height of text.
	MeasureText(text string, face font.Face) (w, h int)
	// DrawText draws text with its top-left corner at (x, y).
	DrawText(x, y int, text string, face font.Face, c color.Color)
	FillRect(r image.Rectangle, c color.Color)
	StrokeRect(r image.Rectangle, c color.Color)
}

// Canvas is an in-memory 1-bit frame buffer.
type Canvas struct {
	img *image.Paletted
}

// NewCanvas returns a white canvas of the given size.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{img: image.NewPaletted(image.Rect(0, 0, w, h), Palette)}
}

// Image exposes the underlying frame.
func (c *Canvas) Image() *image.Paletted { return c.img }

func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// Clear paints the whole canvas white.
func (c *Canvas) Clear() {
	for i := range c.img.Pix {
		c.img.Pix[i] = 0
	}
}

// Invert swaps black and white, used for the dark theme.
func (c *Canvas) Invert() {
	for i, p := range c.img.Pix {
		c.img.Pix[i] = 1 - p
	}
}

// Clone returns an independent copy of the canvas.
func (c *Canvas) Clone() *Canvas {
	img := image.NewPaletted(c.img.Rect, Palette)
	copy(img.Pix, c.img.Pix)
	return &Canvas{img: img}
}

// IsBlack reports whether the pixel at (x, y) is inked.
func (c *Canvas) IsBlack(x, y int) bool {
	if !image.Pt(x, y).In(c.img.Rect) {
		return false
	}
	return c.img.ColorIndexAt(x, y) == 1
}

// MeasureText returns the rounded advance width and the inked height of
// text in face.
func (c *Canvas) MeasureText(text string, face font.Face) (w, h int) {
	return MeasureText(text, face)
}

// MeasureText measures text without a canvas.
func MeasureText(text string, face font.Face) (w, h int) {
	if face == nil || text == "" {
		return 0, 0
	}
	adv := font.MeasureString(face, text)
	w = (int(adv) + 32) >> 6
	if w < 0 {
		w = 0
	}
	b, _ := font.BoundString(face, text)
	h = (b.Max.Y - b.Min.Y).Ceil()
	return w, h
}

func (c *Canvas) DrawText(x, y int, text string, face font.Face, col color.Color) {
	if face == nil || text == "" {
		return
	}
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r.Intersect(c.img.Rect), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *Canvas) StrokeRect(r image.Rectangle, col color.Color) {
	if r.Empty() {
		return
	}
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), col)
	c.FillRect(image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), col)
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), col)
	c.FillRect(image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), col)
}
