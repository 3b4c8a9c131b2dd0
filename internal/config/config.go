// Package config loads and saves the reader's persistent settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/metcalfc/inkreader/internal/state"
	"github.com/spf13/viper"
)

const envPrefix = "INKREADER"

// Config is the set of options read at startup and written back when the
// reading position changes.
type Config struct {
	ScreenType       string  `mapstructure:"screen_type" json:"screen_type"`
	FontSize         int     `mapstructure:"font_size" json:"font_size"`
	LineSpacing      float64 `mapstructure:"line_spacing" json:"line_spacing"`
	Margin           int     `mapstructure:"margin" json:"margin"`
	BooksDir         string  `mapstructure:"books_dir" json:"books_dir"`
	CurrentBook      string  `mapstructure:"current_book" json:"current_book"`
	CurrentPage      int     `mapstructure:"current_page" json:"current_page"`
	Theme            string  `mapstructure:"theme" json:"theme"`
	AutoSleep        int     `mapstructure:"auto_sleep" json:"auto_sleep"`
	FontPath         string  `mapstructure:"font_path" json:"font_path"`
	CharsPerPage     int     `mapstructure:"chars_per_page" json:"chars_per_page"`
	LongPress        float64 `mapstructure:"long_press" json:"long_press"`
	FullRefreshEvery int     `mapstructure:"full_refresh_every" json:"full_refresh_every"`
	LogDir           string  `mapstructure:"log_dir" json:"log_dir"`
	LogLevel         string  `mapstructure:"log_level" json:"log_level"`
}

// persisted mirrors Config on disk; current_book is null when no book is
// open.
type persisted struct {
	ScreenType       string  `json:"screen_type"`
	FontSize         int     `json:"font_size"`
	LineSpacing      float64 `json:"line_spacing"`
	Margin           int     `json:"margin"`
	BooksDir         string  `json:"books_dir"`
	CurrentBook      *string `json:"current_book"`
	CurrentPage      int     `json:"current_page"`
	Theme            string  `json:"theme"`
	AutoSleep        int     `json:"auto_sleep"`
	FontPath         string  `json:"font_path"`
	CharsPerPage     int     `json:"chars_per_page"`
	LongPress        float64 `json:"long_press"`
	FullRefreshEvery int     `json:"full_refresh_every"`
	LogDir           string  `json:"log_dir"`
	LogLevel         string  `json:"log_level"`
}

// Size is a panel resolution in pixels.
type Size struct {
	Width, Height int
}

// screenSizes lists the supported panels.
var screenSizes = map[string]Size{
	"7in5":    {800, 480},
	"7in5_V2": {800, 480},
	"7in5_HD": {880, 528},
	"5in83":   {648, 480},
}

// DefaultScreenType is used for unknown screen types.
const DefaultScreenType = "7in5_V2"

// ScreenSize returns the resolution for screen type t, 800x480 when t is
// unknown.
func ScreenSize(t string) Size {
	if s, ok := screenSizes[t]; ok {
		return s
	}
	return Size{800, 480}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ScreenType:       DefaultScreenType,
		FontSize:         20,
		LineSpacing:      1.5,
		Margin:           20,
		BooksDir:         defaultBooksDir(),
		Theme:            "light",
		AutoSleep:        300,
		CharsPerPage:     1500,
		LongPress:        1.0,
		FullRefreshEvery: 10,
		LogDir:           defaultLogDir(),
		LogLevel:         "info",
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "inkreader", "config.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "inkreader", "config.json")
}

func defaultBooksDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "inkreader", "books")
}

func defaultLogDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "inkreader", "logs")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "inkreader", "logs")
}

func newViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("screen_type", d.ScreenType)
	v.SetDefault("font_size", d.FontSize)
	v.SetDefault("line_spacing", d.LineSpacing)
	v.SetDefault("margin", d.Margin)
	v.SetDefault("books_dir", d.BooksDir)
	v.SetDefault("current_book", "")
	v.SetDefault("current_page", 0)
	v.SetDefault("theme", d.Theme)
	v.SetDefault("auto_sleep", d.AutoSleep)
	v.SetDefault("font_path", "")
	v.SetDefault("chars_per_page", d.CharsPerPage)
	v.SetDefault("long_press", d.LongPress)
	v.SetDefault("full_refresh_every", d.FullRefreshEvery)
	v.SetDefault("log_dir", d.LogDir)
	v.SetDefault("log_level", d.LogLevel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config at path (DefaultPath when empty). A missing file
// yields the defaults. A malformed file is logged and also yields the
// defaults; only an unreadable path is returned as an error.
func Load(path string, log *slog.Logger) (*Config, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if path == "" {
		path = DefaultPath()
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var parseErr viper.ConfigParseError
		switch {
		case errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound):
			log.Debug("no config file, using defaults", "path", path)
		case errors.As(err, &parseErr):
			log.Warn("malformed config file, using defaults", "path", path, "err", err)
			v = newViper()
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		log.Warn("invalid config values, using defaults", "path", path, "err", err)
		cfg = Default()
	}
	cfg.BooksDir = ExpandHome(cfg.BooksDir)
	cfg.LogDir = ExpandHome(cfg.LogDir)
	cfg.FontPath = ExpandHome(cfg.FontPath)
	cfg.Normalize()
	return cfg, nil
}

// Normalize replaces out-of-range values with their defaults.
func (c *Config) Normalize() {
	d := Default()
	if _, ok := screenSizes[c.ScreenType]; !ok {
		c.ScreenType = d.ScreenType
	}
	if c.FontSize < 8 || c.FontSize > 96 {
		c.FontSize = d.FontSize
	}
	if c.LineSpacing < 1 || c.LineSpacing > 4 {
		c.LineSpacing = d.LineSpacing
	}
	size := ScreenSize(c.ScreenType)
	if c.Margin < 0 || 2*c.Margin >= size.Width || 2*c.Margin >= size.Height {
		c.Margin = d.Margin
	}
	if c.BooksDir == "" {
		c.BooksDir = d.BooksDir
	}
	if c.CurrentPage < 0 {
		c.CurrentPage = 0
	}
	if c.Theme != "light" && c.Theme != "dark" {
		c.Theme = d.Theme
	}
	if c.AutoSleep < 0 {
		c.AutoSleep = d.AutoSleep
	}
	if c.CharsPerPage <= 0 {
		c.CharsPerPage = d.CharsPerPage
	}
	if c.LongPress <= 0 {
		c.LongPress = d.LongPress
	}
	if c.FullRefreshEvery <= 0 {
		c.FullRefreshEvery = d.FullRefreshEvery
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// Save writes cfg to path as indented JSON, replacing the file atomically.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	p := persisted{
		ScreenType:       cfg.ScreenType,
		FontSize:         cfg.FontSize,
		LineSpacing:      cfg.LineSpacing,
		Margin:           cfg.Margin,
		BooksDir:         cfg.BooksDir,
		CurrentPage:      cfg.CurrentPage,
		Theme:            cfg.Theme,
		AutoSleep:        cfg.AutoSleep,
		FontPath:         cfg.FontPath,
		CharsPerPage:     cfg.CharsPerPage,
		LongPress:        cfg.LongPress,
		FullRefreshEvery: cfg.FullRefreshEvery,
		LogDir:           cfg.LogDir,
		LogLevel:         cfg.LogLevel,
	}
	if cfg.CurrentBook != "" {
		book := cfg.CurrentBook
		p.CurrentBook = &book
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return state.WriteAtomic(path, append(data, '\n'))
}

// Size returns the panel resolution for the configured screen type.
func (c *Config) Size() Size {
	return ScreenSize(c.ScreenType)
}

// LongPressDuration returns the long-press threshold.
func (c *Config) LongPressDuration() time.Duration {
	return time.Duration(c.LongPress * float64(time.Second))
}

// AutoSleepDuration returns the idle time before the display sleeps, or 0
// when auto sleep is disabled.
func (c *Config) AutoSleepDuration() time.Duration {
	return time.Duration(c.AutoSleep) * time.Second
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
