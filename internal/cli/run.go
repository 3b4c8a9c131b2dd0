package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/metcalfc/inkreader/internal/app"
	"github.com/metcalfc/inkreader/internal/device"
	"github.com/metcalfc/inkreader/internal/input"
	"github.com/metcalfc/inkreader/internal/library"
	"github.com/metcalfc/inkreader/internal/logging"
	"github.com/metcalfc/inkreader/internal/render"
	"github.com/metcalfc/inkreader/internal/state"
)

// logRetentionDays is how long daily log files are kept.
const logRetentionDays = 7

// sessionLogger logs to stderr and a daily file in dir. When the file cannot
// be opened it keeps logging to stderr alone.
func sessionLogger(level, dir string, stderr io.Writer) (*slog.Logger, io.Closer) {
	log, closer, err := logging.New(logging.Options{Level: level, Dir: dir, Stderr: stderr})
	if err == nil {
		return log, closer
	}
	warn("File logging disabled: %v", err)
	log, closer, _ = logging.New(logging.Options{Level: level, Stderr: stderr})
	return log, closer
}

type runOptions struct {
	headless  bool
	framesDir string
	bookmark  string
}

func newRunCmd() *cobra.Command {
	var o runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the reader",
		Long: `Start the reader on the simulated panel.

Without a front end, or with --headless, frames go to a mock display that
can save every frame as a PNG with --frames.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReader(cmd.Context(), o)
		},
	}
	cmd.Flags().BoolVar(&o.headless, "headless", false, "Run without a front end")
	cmd.Flags().StringVar(&o.framesDir, "frames", "", "Save headless frames as PNGs in this directory")
	cmd.Flags().StringVar(&o.bookmark, "bookmark", "", "Jump to this bookmark of the last book")
	return cmd
}

func runReader(ctx context.Context, o runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	interactive := frontend != nil && !o.headless

	// A terminal front end owns the screen, so logs only go to the file.
	var stderr io.Writer = os.Stderr
	if interactive {
		stderr = io.Discard
	}
	level := cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	log, closer := sessionLogger(level, cfg.LogDir, stderr)
	defer closer.Close()

	if n, err := logging.ClearOld(cfg.LogDir, logRetentionDays, time.Now()); err != nil {
		log.Warn("clearing old logs", "dir", cfg.LogDir, "err", err)
	} else if n > 0 {
		log.Info("cleared old logs", "removed", n)
	}

	log.Info("starting", "version", build.Version, "commit", build.Commit, "config", cfgPath, "screen", cfg.ScreenType)

	if err := os.MkdirAll(cfg.BooksDir, 0o755); err != nil {
		return err
	}
	fonts, err := render.NewFonts(cfg.FontPath)
	if err != nil {
		log.Warn("custom font unavailable, using built-in", "err", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lib := library.New(cfg.BooksDir, registry.Extensions())
	var changes <-chan struct{}
	if w, err := library.NewWatcher(lib, log); err != nil {
		log.Warn("library watcher disabled", "err", err)
	} else {
		defer w.Close()
		go w.Run(ctx)
		changes = w.Changes()
	}

	size := cfg.Size()
	queue := &input.Queue{}
	opts := app.Options{
		Config:     cfg,
		ConfigPath: cfgPath,
		Queue:      queue,
		Registry:   registry,
		Library:    lib,
		Bookmarks:  state.NewStore(log),
		Fonts:      fonts,
		Log:        log,
		Changes:    changes,
		Version:    build.Version,
		Bookmark:   o.bookmark,
	}

	if !interactive {
		opts.Display = render.NewMockDisplay(size.Width, size.Height, o.framesDir, log)
		return app.New(opts).Run(ctx)
	}

	dev := device.New(size.Width, size.Height)
	opts.Display = dev
	go input.NewPoller(dev, queue, cfg.LongPressDuration()).Run(ctx)

	done := make(chan error, 1)
	go func() {
		done <- app.New(opts).Run(ctx)
		cancel()
	}()

	feErr := frontend(ctx, dev, log)
	cancel()
	return errors.Join(feErr, <-done)
}
