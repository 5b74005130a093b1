// Package config provides configuration loading and access for the viewer and the shape server.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Shape     ShapeConfig     `yaml:"shape"`
	Server    ServerConfig    `yaml:"server"`
	Channel   ChannelConfig   `yaml:"channel"`
	Voice     VoiceConfig     `yaml:"voice"`
	Clock     ClockConfig     `yaml:"clock"`
	Audio     AudioConfig     `yaml:"audio"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Client    ClientConfig    `yaml:"client"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	TargetFPS int  `yaml:"target_fps"`
	Resizable bool `yaml:"resizable"`
}

// FieldConfig holds particle field parameters.
type FieldConfig struct {
	Density       float64 `yaml:"density"`        // Viewport area per particle (px^2)
	MaxParticles  int     `yaml:"max_particles"`  // Hard cap on particle count
	DotRadius     float64 `yaml:"dot_radius"`     // Drawn radius of every particle
	InitialSpeed  float64 `yaml:"initial_speed"`  // Initial velocity drawn from +/- this
	Attraction    float64 `yaml:"attraction"`     // Velocity gain per px of target offset
	TargetDamping float64 `yaml:"target_damping"` // Velocity multiplier while targeted
	IdleDamping   float64 `yaml:"idle_damping"`   // Velocity multiplier while idle
	Jitter        float64 `yaml:"jitter"`         // Idle velocity noise drawn from +/- this
}

// ShapeConfig holds shape generation parameters.
type ShapeConfig struct {
	PointCount int    `yaml:"point_count"` // Points per response
	Default    string `yaml:"default"`     // Shape used when a request names none
}

// ServerConfig holds shape server parameters.
type ServerConfig struct {
	Addr          string        `yaml:"addr"`
	Path          string        `yaml:"path"`
	MaxFrameBytes int64         `yaml:"max_frame_bytes"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
}

// ChannelConfig holds the viewer's connection parameters.
type ChannelConfig struct {
	URL            string        `yaml:"url"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"` // Fixed, no backoff growth
	DialTimeout    time.Duration `yaml:"dial_timeout"`
	InboxSize      int           `yaml:"inbox_size"`
}

// VoiceConfig holds wake phrase detection parameters.
type VoiceConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Trigger      string        `yaml:"trigger"` // Sent as the wake request's trigger field
	RestartDelay time.Duration `yaml:"restart_delay"`
	WakePhrases  []string      `yaml:"wake_phrases"`
}

// ClockConfig holds clock display parameters.
type ClockConfig struct {
	Interval   time.Duration `yaml:"interval"`
	TimeLayout string        `yaml:"time_layout"`
	DateLayout string        `yaml:"date_layout"`
}

// AudioConfig holds wake chime parameters.
type AudioConfig struct {
	Enabled      bool          `yaml:"enabled"`
	SampleRate   int           `yaml:"sample_rate"`
	Notes        []float64     `yaml:"notes"` // Hz, played in order
	NoteDuration time.Duration `yaml:"note_duration"`
	Volume       float64       `yaml:"volume"` // Linear gain 0-1
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// ClientConfig holds viewer UI parameters.
type ClientConfig struct {
	Shapes []string `yaml:"shapes"` // Shape buttons, in order
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32   float32  // Screen.Width as float32
	ScreenH32   float32  // Screen.Height as float32
	DT          float64  // Seconds per tick at TargetFPS
	WakePhrases []string // Voice.WakePhrases lowercased and trimmed
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Field.Density <= 0:
		return fmt.Errorf("field.density must be positive, got %v", c.Field.Density)
	case c.Field.MaxParticles < 0:
		return fmt.Errorf("field.max_particles must not be negative, got %d", c.Field.MaxParticles)
	case c.Shape.PointCount <= 0:
		return fmt.Errorf("shape.point_count must be positive, got %d", c.Shape.PointCount)
	case c.Screen.TargetFPS <= 0:
		return fmt.Errorf("screen.target_fps must be positive, got %d", c.Screen.TargetFPS)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.DT = 1.0 / float64(c.Screen.TargetFPS)

	c.Derived.WakePhrases = c.Derived.WakePhrases[:0]
	for _, p := range c.Voice.WakePhrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			c.Derived.WakePhrases = append(c.Derived.WakePhrases, p)
		}
	}

	if c.Shape.Default == "" {
		c.Shape.Default = "circle"
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
