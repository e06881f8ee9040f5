package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/dragcreate"
	"github.com/belphemur/capacity-planner/internal/viewport"
)

// EnvPrefix marks environment overrides, e.g. PLANNER_SCROLL__COOLDOWN=150ms
const EnvPrefix = "PLANNER_"

// Config holds the application configuration
type Config struct {
	Service     ServiceConfig     `koanf:"service"`
	View        ViewConfig        `koanf:"view"`
	Scroll      ScrollConfig      `koanf:"scroll"`
	Interaction InteractionConfig `koanf:"interaction"`
	Data        DataConfig        `koanf:"data"`
}

// ServiceConfig holds process level settings
type ServiceConfig struct {
	LogLevel    string `koanf:"log_level"`
	StateFile   string `koanf:"state_file"`
	MetricsFile string `koanf:"metrics_file"`
}

// ViewConfig holds the timeline zoom bounds and defaults
type ViewConfig struct {
	PxPerDay float64 `koanf:"px_per_day"`
	MinZoom  float64 `koanf:"min_zoom"`
	MaxZoom  float64 `koanf:"max_zoom"`
	MinDays  int     `koanf:"min_days"`
}

// ScrollConfig tunes infinite scrolling
type ScrollConfig struct {
	EdgeThresholdDays float64       `koanf:"edge_threshold_days"`
	ChunkWeekdays     int           `koanf:"chunk_weekdays"`
	Cooldown          time.Duration `koanf:"cooldown"`
	Mode              string        `koanf:"mode"`
}

// InteractionConfig tunes drag-to-create
type InteractionConfig struct {
	LongPressDelay  time.Duration `koanf:"long_press_delay"`
	RightClickDelay time.Duration `koanf:"right_click_delay"`
	AutoScrollSpeed float64       `koanf:"auto_scroll_speed"`
	AutoScrollEdge  float64       `koanf:"auto_scroll_edge"`
}

// DataConfig points at the documents the planner starts from
type DataConfig struct {
	ImportFile         string `koanf:"import_file"`
	FragmentWeeks      int    `koanf:"fragment_weeks"`
	PreloadBufferWeeks int    `koanf:"preload_buffer_weeks"`
	// Today pins the planner clock; zero means the real current day
	Today calendar.Date `koanf:"today"`
}

func defaults() map[string]any {
	return map[string]any{
		"service.log_level":               "info",
		"service.state_file":              "data/planner.db",
		"service.metrics_file":            "",
		"view.px_per_day":                 viewport.DefaultZoom,
		"view.min_zoom":                   viewport.MinZoom,
		"view.max_zoom":                   viewport.MaxZoom,
		"view.min_days":                   viewport.MinDays,
		"scroll.edge_threshold_days":      viewport.EdgeThresholdDays,
		"scroll.chunk_weekdays":           viewport.ChunkWeekdays,
		"scroll.cooldown":                 "0s",
		"scroll.mode":                     "anchor",
		"interaction.long_press_delay":    dragcreate.LongPressDelay.String(),
		"interaction.right_click_delay":   dragcreate.RightClickDelay.String(),
		"interaction.auto_scroll_speed":   dragcreate.AutoScrollSpeed,
		"interaction.auto_scroll_edge":    dragcreate.AutoScrollEdge,
		"data.import_file":                "",
		"data.fragment_weeks":             4,
		"data.preload_buffer_weeks":       2,
	}
}

// Load reads defaults, the optional configuration file and PLANNER_ environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load default configuration: %w", err)
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("failed to load configuration file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
			return strings.ReplaceAll(key, "__", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Config
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				dateHook,
				mapstructure.StringToTimeDurationHookFunc(),
			),
			WeaklyTypedInput: true,
			Result:           &cfg,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	// Relative paths are resolved against the configuration file
	if path != "" {
		dir := filepath.Dir(path)
		if cfg.Service.StateFile != "" && !filepath.IsAbs(cfg.Service.StateFile) {
			cfg.Service.StateFile = filepath.Join(dir, cfg.Service.StateFile)
		}
		if cfg.Data.ImportFile != "" && !filepath.IsAbs(cfg.Data.ImportFile) {
			cfg.Data.ImportFile = filepath.Join(dir, cfg.Data.ImportFile)
		}
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// dateHook turns "2025-10-15" strings and TOML local dates into calendar.Date
func dateHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(calendar.Date{}) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		if v == "" {
			return calendar.Date{}, nil
		}
		return calendar.ParseISO(v)
	case time.Time:
		return calendar.FromTime(v), nil
	case fmt.Stringer:
		return calendar.ParseISO(v.String())
	}
	return data, nil
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if _, err := zerolog.ParseLevel(cfg.Service.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Service.LogLevel)
	}

	if cfg.Service.StateFile == "" {
		return fmt.Errorf("service state file is required")
	}

	if cfg.View.MinZoom <= 0 || cfg.View.MaxZoom < cfg.View.MinZoom {
		return fmt.Errorf("invalid zoom bounds: min %v, max %v", cfg.View.MinZoom, cfg.View.MaxZoom)
	}

	if cfg.View.PxPerDay < cfg.View.MinZoom || cfg.View.PxPerDay > cfg.View.MaxZoom {
		return fmt.Errorf("px per day %v outside zoom bounds [%v, %v]", cfg.View.PxPerDay, cfg.View.MinZoom, cfg.View.MaxZoom)
	}

	if cfg.View.MinDays < 1 {
		return fmt.Errorf("min days must be positive")
	}

	if cfg.Scroll.EdgeThresholdDays <= 0 {
		return fmt.Errorf("edge threshold days must be positive")
	}

	if cfg.Scroll.ChunkWeekdays < 1 {
		return fmt.Errorf("chunk weekdays must be positive")
	}

	if cfg.Scroll.Cooldown < 0 {
		return fmt.Errorf("scroll cooldown cannot be negative")
	}

	if _, err := ParseScrollMode(cfg.Scroll.Mode); err != nil {
		return err
	}

	if cfg.Interaction.LongPressDelay <= 0 || cfg.Interaction.RightClickDelay <= 0 {
		return fmt.Errorf("interaction delays must be positive")
	}

	if cfg.Interaction.AutoScrollSpeed <= 0 || cfg.Interaction.AutoScrollEdge <= 0 {
		return fmt.Errorf("auto scroll speed and edge must be positive")
	}

	if cfg.Data.FragmentWeeks < 1 {
		return fmt.Errorf("fragment weeks must be positive")
	}

	if cfg.Data.PreloadBufferWeeks < 0 {
		return fmt.Errorf("preload buffer weeks cannot be negative")
	}

	return nil
}

// ParseScrollMode maps the configured extension mode
func ParseScrollMode(s string) (viewport.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "anchor", "":
		return viewport.ModeAnchor, nil
	case "jump":
		return viewport.ModeJump, nil
	default:
		return viewport.ModeAnchor, fmt.Errorf("invalid scroll mode: %s", s)
	}
}

// ViewportOptions converts the view and scroll sections
func (c *Config) ViewportOptions() viewport.Options {
	return viewport.Options{
		MinDays:           c.View.MinDays,
		MinZoom:           c.View.MinZoom,
		MaxZoom:           c.View.MaxZoom,
		EdgeThresholdDays: c.Scroll.EdgeThresholdDays,
		ChunkWeekdays:     c.Scroll.ChunkWeekdays,
		Cooldown:          c.Scroll.Cooldown,
	}
}

// DragOptions converts the interaction section
func (c *Config) DragOptions() dragcreate.Options {
	return dragcreate.Options{
		LongPressDelay:  c.Interaction.LongPressDelay,
		RightClickDelay: c.Interaction.RightClickDelay,
		AutoScrollSpeed: c.Interaction.AutoScrollSpeed,
		AutoScrollEdge:  c.Interaction.AutoScrollEdge,
	}
}

// Today returns the pinned day or the current UTC day
func (c *Config) Today() calendar.Date {
	if c.Data.Today.IsZero() {
		return calendar.Today()
	}
	return c.Data.Today
}
