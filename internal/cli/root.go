// Package cli is the inkreader command line: the reader itself plus tools
// for managing the library, bookmarks and page rendering.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/metcalfc/inkreader/internal/config"
	"github.com/metcalfc/inkreader/internal/device"
	"github.com/metcalfc/inkreader/internal/logging"
	"github.com/metcalfc/inkreader/internal/reader"
)

// BuildInfo is stamped in by the release build.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Frontend shows the simulated panel and feeds it button presses. It runs
// on the calling goroutine and returns when the user quits or ctx is done.
type Frontend func(ctx context.Context, dev *device.Device, log *slog.Logger) error

var (
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	registry = reader.DefaultRegistry()
	build    = BuildInfo{Version: "dev", Commit: "none", Date: "unknown"}
	frontend Frontend

	flagConfig   string
	flagLogLevel string
	flagNoColor  bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "inkreader",
		Short: "An e-ink book reader",
		Long: `inkreader reads TXT, Markdown, EPUB, PDF and zipped books on an e-ink
panel driven by seven buttons.

Run 'inkreader' with no arguments to start the reader.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagNoColor || !isatty.IsTerminal(os.Stdout.Fd()) {
				color.NoColor = true
			}

			cfgPath = flagConfig
			if cfgPath == "" {
				cfgPath = config.DefaultPath()
			}
			var err error
			cfg, err = config.Load(cfgPath, nil)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			level := cfg.LogLevel
			if flagLogLevel != "" {
				level = flagLogLevel
			}
			logger, _, err = logging.New(logging.Options{Level: level})
			return err
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/inkreader/config.json)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	run := newRunCmd()
	root.RunE = run.RunE
	root.Flags().AddFlagSet(run.Flags())

	root.AddCommand(
		run,
		newRenderCmd(),
		newPaginateCmd(),
		newBooksCmd(),
		newImportCmd(),
		newBookmarksCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute is the entry point called from main. fe may be nil, in which case
// the reader runs headless.
func Execute(info BuildInfo, fe Frontend) {
	build = info
	frontend = fe
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}
