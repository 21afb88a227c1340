package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	coreagg "github.com/aevon-lab/dashpoints/internal/core/aggregation"
	"github.com/aevon-lab/dashpoints/internal/core/source"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	WidgetSourceFilesystem = "filesystem"
	WidgetSourceDatabase   = "database"
)

// Config represents the top-level application config plus the resolved
// source definitions.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Sources  SourcesConfig  `koanf:"sources"`
	Widgets  WidgetsConfig  `koanf:"widgets"`
	Series   SeriesConfig   `koanf:"series"`
	Log      LogConfig      `koanf:"log"`

	// SourceLoading is populated by Load after parsing source definition files.
	SourceLoading SourceLoadingConfig `koanf:"-"`
}

type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	Type         string `koanf:"type"` // postgres | sqlite3
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type SourcesConfig struct {
	ConfigDir      string `koanf:"config_dir"`
	RequireSources bool   `koanf:"require_sources"`
}

type WidgetsConfig struct {
	SourceType string `koanf:"source_type"` // filesystem | database
	Path       string `koanf:"path"`
}

type SeriesConfig struct {
	Timezone        string `koanf:"timezone"`
	DefaultBucket   string `koanf:"default_bucket"` // bucket width of 7D, MO, 30, YR, 36
	ExtendedPeriods bool   `koanf:"extended_periods"`
	YearToDate      string `koanf:"year_to_date"` // legacy | calendar
	MaxQueries      int    `koanf:"max_queries"`
	RequestTimeout  string `koanf:"request_timeout"`
	CacheCapacity   int    `koanf:"cache_capacity"`
	WarmInterval    string `koanf:"warm_interval"` // "0s" disables the warmer
	WarmWorkers     int    `koanf:"warm_workers"`
}

type LogConfig struct {
	Level string `koanf:"level"` // debug | info | warn | error
}

type SourceLoadingConfig struct {
	ConfigDir   string
	Definitions []source.Definition
}

// Location loads the configured time zone. "Local" is the process zone.
func (c SeriesConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid series.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// CalendarOptions translates the series settings into calendar options.
func (c SeriesConfig) CalendarOptions() (coreagg.Options, error) {
	step, err := coreagg.ParseStep(c.DefaultBucket)
	if err != nil {
		return coreagg.Options{}, fmt.Errorf("invalid series.default_bucket: %w", err)
	}
	ytd := coreagg.YearToDate(c.YearToDate)
	if ytd != coreagg.YearToDateLegacy && ytd != coreagg.YearToDateCalendar {
		return coreagg.Options{}, fmt.Errorf("invalid series.year_to_date %q (must be legacy or calendar)", c.YearToDate)
	}
	return coreagg.Options{
		YearToDate:      ytd,
		ExtendedPeriods: c.ExtendedPeriods,
		Step:            step,
	}, nil
}

// EffectiveRequestTimeout returns the per-series timeout; zero disables it.
func (c SeriesConfig) EffectiveRequestTimeout() (time.Duration, error) {
	return parseOptionalDuration("series.request_timeout", c.RequestTimeout)
}

// EffectiveWarmInterval returns the warmer period; zero disables warming.
func (c SeriesConfig) EffectiveWarmInterval() (time.Duration, error) {
	return parseOptionalDuration("series.warm_interval", c.WarmInterval)
}

func parseOptionalDuration(key, s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must be >= 0", key)
	}
	return d, nil
}

// SlogLevel maps log.level onto a slog level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log.level %q: %w", c.Level, err)
	}
	return level, nil
}

// NeedsDatabase reports whether any component reads from database.dsn.
func (c *Config) NeedsDatabase() bool {
	if c.Widgets.SourceType == WidgetSourceDatabase {
		return true
	}
	for _, def := range c.SourceLoading.Definitions {
		if def.Driver == source.DriverSQL {
			return true
		}
	}
	return false
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if c.Database.Type != "postgres" && c.Database.Type != "sqlite3" {
		return fmt.Errorf("unsupported database.type %q", c.Database.Type)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}

	if strings.TrimSpace(c.Sources.ConfigDir) == "" {
		return fmt.Errorf("sources.config_dir is required")
	}

	switch c.Widgets.SourceType {
	case WidgetSourceFilesystem:
		if strings.TrimSpace(c.Widgets.Path) == "" {
			return fmt.Errorf("widgets.path is required")
		}
	case WidgetSourceDatabase:
	default:
		return fmt.Errorf("unsupported widgets.source_type %q", c.Widgets.SourceType)
	}

	if _, err := c.Series.Location(); err != nil {
		return err
	}
	if _, err := c.Series.CalendarOptions(); err != nil {
		return err
	}
	if c.Series.MaxQueries < 0 {
		return fmt.Errorf("series.max_queries must be >= 0")
	}
	if _, err := c.Series.EffectiveRequestTimeout(); err != nil {
		return err
	}
	if c.Series.CacheCapacity < 0 {
		return fmt.Errorf("series.cache_capacity must be >= 0")
	}
	if _, err := c.Series.EffectiveWarmInterval(); err != nil {
		return err
	}
	if c.Series.WarmWorkers <= 0 {
		return fmt.Errorf("series.warm_workers must be > 0")
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// Load parses config from file + env, validates it, then loads and validates
// the source definitions.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.mode":             "release",
		"database.type":           "postgres",
		"database.dsn":            "",
		"database.max_open_conns": 25,
		"database.max_idle_conns": 25,
		"database.auto_migrate":   true,
		"sources.config_dir":      "./config/sources",
		"sources.require_sources": true,
		"widgets.source_type":     WidgetSourceFilesystem,
		"widgets.path":            "./config/dashboards",
		"series.timezone":         "Local",
		"series.default_bucket":   "1d",
		"series.extended_periods": true,
		"series.year_to_date":     string(coreagg.YearToDateLegacy),
		"series.max_queries":      200,
		"series.request_timeout":  "10s",
		"series.cache_capacity":   256,
		"series.warm_interval":    "0s",
		"series.warm_workers":     4,
		"log.level":               "info",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("DASHPOINTS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "DASHPOINTS_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	defs, err := source.LoadDefinitions(cfg.Sources.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load source definitions: %w", err)
	}
	if cfg.Sources.RequireSources && len(defs) == 0 {
		return nil, fmt.Errorf("no source definitions found in %q", cfg.Sources.ConfigDir)
	}

	cfg.SourceLoading = SourceLoadingConfig{
		ConfigDir:   cfg.Sources.ConfigDir,
		Definitions: defs,
	}

	if cfg.NeedsDatabase() && strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, fmt.Errorf("database.dsn is required by sql sources or database widgets")
	}

	return &cfg, nil
}
