// Package config loads chart settings from layered YAML files and
// GANTT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/alexanderramin/gantt/internal/column"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/timeline"
)

// ColumnConfig is one configured table column. A nil Sortable means
// sortable.
type ColumnConfig struct {
	Key      string `mapstructure:"key"`
	Label    string `mapstructure:"label"`
	Width    int    `mapstructure:"width"`
	Fixed    bool   `mapstructure:"fixed"`
	Sortable *bool  `mapstructure:"sortable"`
}

type Config struct {
	EndYear           int            `mapstructure:"end_year"`
	WeekColumnWidth   float64        `mapstructure:"week_column_width"`
	RowHeight         int            `mapstructure:"row_height"`
	TableWidth        int            `mapstructure:"table_width"`
	ShowTimeline      bool           `mapstructure:"show_timeline"`
	SearchPlaceholder string         `mapstructure:"search_placeholder"`
	DefaultExpanded   []string       `mapstructure:"default_expanded"`
	Columns           []ColumnConfig `mapstructure:"columns"`
	LogLevel          string         `mapstructure:"log_level"`
	Addr              string         `mapstructure:"addr"`
	WatchDebounce     time.Duration  `mapstructure:"watch_debounce"`

	// Terminal rendering: characters per week cell and weeks shown.
	TerminalWeekWidth int `mapstructure:"terminal_week_width"`
	TerminalWeeks     int `mapstructure:"terminal_weeks"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		EndYear:           timeline.DefaultEndYear,
		WeekColumnWidth:   timeline.DefaultWeekColumnWidth,
		RowHeight:         40,
		TableWidth:        440,
		ShowTimeline:      true,
		SearchPlaceholder: "Enter task name to filter",
		LogLevel:          "warn",
		Addr:              ":8080",
		WatchDebounce:     300 * time.Millisecond,
		TerminalWeekWidth: 7,
		TerminalWeeks:     12,
	}
}

// Load merges defaults, the global file, the project file and the
// environment, in that order.
func Load() (Config, error) {
	return LoadFiles(GlobalConfigPath(), ProjectConfigPath())
}

// LoadFiles merges defaults with each existing file in order, then applies
// environment overrides. Missing files are skipped.
func LoadFiles(paths ...string) (Config, error) {
	cfg := DefaultConfig()
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := loadFile(p, &cfg); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return cfg, fmt.Errorf("loading config %s: %w", p, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GANTT_END_YEAR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EndYear = n
		}
	}
	if v := os.Getenv("GANTT_WEEK_COLUMN_WIDTH"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.WeekColumnWidth = f
		}
	}
	if v := os.Getenv("GANTT_ROW_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RowHeight = n
		}
	}
	if v := os.Getenv("GANTT_TABLE_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TableWidth = n
		}
	}
	if v := os.Getenv("GANTT_SHOW_TIMELINE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ShowTimeline = b
		}
	}
	if v := os.Getenv("GANTT_DEFAULT_EXPANDED"); v != "" {
		cfg.DefaultExpanded = SplitList(v)
	}
	if v := os.Getenv("GANTT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GANTT_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("GANTT_WATCH_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.WatchDebounce = time.Duration(n) * time.Millisecond
		}
	}
}

// Validate rejects settings the layout cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.EndYear < timeline.MinYear {
		errs = append(errs, fmt.Errorf("end_year must be %d or later, got %d", timeline.MinYear, c.EndYear))
	}
	if limit := domain.Today().Year() + timeline.MaxYearsAhead; c.EndYear > limit {
		errs = append(errs, fmt.Errorf("end_year must be %d or earlier, got %d", limit, c.EndYear))
	}
	if c.WeekColumnWidth <= 0 {
		errs = append(errs, fmt.Errorf("week_column_width must be positive"))
	}
	if c.RowHeight <= 0 {
		errs = append(errs, fmt.Errorf("row_height must be positive"))
	}
	if c.TableWidth <= 0 {
		errs = append(errs, fmt.Errorf("table_width must be positive"))
	}
	if c.TerminalWeekWidth < 3 {
		errs = append(errs, fmt.Errorf("terminal_week_width must be at least 3"))
	}
	for i, col := range c.Columns {
		if col.Key == "" {
			errs = append(errs, fmt.Errorf("columns[%d].key is required", i))
		}
	}
	return errors.Join(errs...)
}

// ColumnSet returns the configured columns, or column.Defaults when none
// are configured.
func (c Config) ColumnSet() []column.Column {
	if len(c.Columns) == 0 {
		return column.Defaults()
	}
	cols := make([]column.Column, 0, len(c.Columns))
	for _, cc := range c.Columns {
		cols = append(cols, column.Column{
			Key:      cc.Key,
			Label:    domain.Coalesce(cc.Label, cc.Key),
			Width:    cc.Width,
			Fixed:    cc.Fixed,
			Sortable: domain.Deref(true, cc.Sortable),
			Render:   column.DefaultRender{},
		})
	}
	return cols
}

// SlogLevel maps LogLevel to a slog level; unknown names mean warn.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}

// GlobalConfigPath returns the path to the per-user config file.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gantt", "config.yaml")
}

// ProjectConfigPath returns the path to the config file in the working
// directory.
func ProjectConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".gantt", "config.yaml")
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
