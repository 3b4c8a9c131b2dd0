//go:build gui

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

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

// keyButtons maps keyboard keys to panel buttons. Keys are held and
// released like the real buttons, so holding Escape is a long press of Home.
var keyButtons = map[fyne.KeyName]input.Button{
	fyne.KeyLeft:   input.Prev,
	fyne.KeyH:      input.Prev,
	fyne.KeyRight:  input.Next,
	fyne.KeyL:      input.Next,
	fyne.KeyEscape: input.Home,
	fyne.KeyM:      input.Menu,
	fyne.KeyUp:     input.Up,
	fyne.KeyK:      input.Up,
	fyne.KeyDown:   input.Down,
	fyne.KeyJ:      input.Down,
	fyne.KeyReturn: input.Select,
	fyne.KeyEnter:  input.Select,
	fyne.KeySpace:  input.Select,
}

func runWindow(ctx context.Context, dev *device.Device, log *slog.Logger) error {
	a := fyneapp.New()
	w := a.NewWindow("inkreader")

	width, height := dev.Size()
	panel := canvas.NewImageFromImage(nil)
	panel.FillMode = canvas.ImageFillContain
	panel.ScaleMode = canvas.ImageScalePixels
	panel.SetMinSize(fyne.NewSize(float32(width), float32(height)))

	statusLabel := widget.NewLabel("Waiting for the display...")
	statusLabel.Alignment = fyne.TextAlignCenter
	controlsLabel := widget.NewLabel("←/→: page  ↑/↓: move  ENTER: select  ESC: home (hold to exit)  M: menu  F: fullscreen  Q: quit")
	controlsLabel.Alignment = fyne.TextAlignCenter

	w.SetContent(container.NewBorder(statusLabel, controlsLabel, nil, nil, panel))

	if dc, ok := w.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			if b, ok := keyButtons[ev.Name]; ok {
				dev.Press(b)
			}
		})
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			if b, ok := keyButtons[ev.Name]; ok {
				dev.Release(b)
			}
		})
	} else {
		log.Warn("no key up events, using taps")
		w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
			if b, ok := keyButtons[ev.Name]; ok {
				dev.Tap(b, 60*time.Millisecond)
			}
		})
	}

	w.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 'f', 'F':
			w.SetFullScreen(!w.FullScreen())
		case 'q', 'Q':
			a.Quit()
		}
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				fyne.Do(a.Quit)
				return
			case f := <-dev.Frames():
				fyne.Do(func() {
					panel.Image = f.Image
					panel.Refresh()
					refresh := "full"
					if f.Partial {
						refresh = "partial"
					}
					statusLabel.SetText(fmt.Sprintf("Frame %d | %s refresh", f.Seq, refresh))
				})
			}
		}
	}()

	w.Resize(fyne.NewSize(float32(width)+40, float32(height)+100))
	w.ShowAndRun()
	return nil
}

func main() {
	cli.Execute(cli.BuildInfo{Version: version, Commit: commit, Date: date}, runWindow)
}
