package render

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type fontKey struct {
	size int
	bold bool
}

// Fonts caches font faces by size.
type Fonts struct {
	regular *opentype.Font
	bold    *opentype.Font

	mu    sync.Mutex
	cache map[fontKey]font.Face
}

// NewFonts loads the TrueType/OpenType font at path for body text, or Go
// Regular when path is empty. Titles always use Go Bold. If path cannot be
// loaded the built-in font is used and the error is returned alongside a
// usable Fonts.
func NewFonts(path string) (*Fonts, error) {
	f := &Fonts{cache: make(map[fontKey]font.Face)}
	f.regular, _ = opentype.Parse(goregular.TTF)
	f.bold, _ = opentype.Parse(gobold.TTF)

	if path == "" {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read font: %w", err)
	}
	custom, err := opentype.Parse(data)
	if err != nil {
		return f, fmt.Errorf("parse font %s: %w", path, err)
	}
	f.regular = custom
	return f, nil
}

// Face returns the body face at size pixels.
func (f *Fonts) Face(size int) font.Face {
	return f.face(fontKey{size: size})
}

// Bold returns the title face at size pixels.
func (f *Fonts) Bold(size int) font.Face {
	return f.face(fontKey{size: size, bold: true})
}

func (f *Fonts) face(key fontKey) font.Face {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.cache[key]; ok {
		return face
	}
	base := f.regular
	if key.bold {
		base = f.bold
	}
	if base == nil || key.size <= 0 {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(base, &opentype.FaceOptions{
		Size:    float64(key.size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	f.cache[key] = face
	return face
}
