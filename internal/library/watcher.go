package library

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports when books appear in or vanish from the library.
type Watcher struct {
	lib     *Library
	log     *slog.Logger
	fsw     *fsnotify.Watcher
	changes chan struct{}
}

// NewWatcher starts watching the library directory.
func NewWatcher(lib *Library, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(lib.Dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", lib.Dir, err)
	}
	return &Watcher{lib: lib, log: log, fsw: fsw, changes: make(chan struct{}, 1)}, nil
}

// Changes delivers one notice per burst of changes. Notices coalesce while
// the consumer is busy.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Run forwards filesystem events until ctx is done or the watcher closes.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.lib.Supports(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Write) {
				w.log.Debug("library changed", "file", ev.Name, "op", ev.Op.String())
				select {
				case w.changes <- struct{}{}:
				default:
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("library watcher", "err", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
