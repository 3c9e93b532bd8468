// Package config provides configuration types and defaults for the floof CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/floof/internal/audio"
	"github.com/zjrosen/floof/internal/log"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. FLOOF_AUDIO_SAMPLE_RATE.
const EnvPrefix = "FLOOF"

// DefaultConfigPath is where `floof init` writes the config file.
const DefaultConfigPath = ".floof/config.yaml"

// Config holds all configuration options for floof.
type Config struct {
	Audio AudioConfig `mapstructure:"audio" yaml:"audio"`
	Log   LogConfig   `mapstructure:"log" yaml:"log"`
}

// AudioConfig holds playback engine options.
type AudioConfig struct {
	SampleRate      int           `mapstructure:"sample_rate" yaml:"sample_rate"`
	BufferSize      time.Duration `mapstructure:"buffer_size" yaml:"buffer_size"`
	ResampleQuality int           `mapstructure:"resample_quality" yaml:"resample_quality"`
	// DecodeCacheTTL keeps decoded clips in memory between plays. 0 disables it.
	DecodeCacheTTL time.Duration `mapstructure:"decode_cache_ttl" yaml:"decode_cache_ttl"`
}

// LogConfig holds logging options.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Audio: AudioConfig{
			SampleRate:      audio.DefaultSampleRate,
			BufferSize:      audio.DefaultBufferSize,
			ResampleQuality: audio.DefaultResampleQuality,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks option ranges.
func (c Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.BufferSize <= 0 {
		return fmt.Errorf("audio.buffer_size must be positive, got %s", c.Audio.BufferSize)
	}
	if c.Audio.ResampleQuality < 1 || c.Audio.ResampleQuality > 64 {
		return fmt.Errorf("audio.resample_quality must be between 1 and 64, got %d", c.Audio.ResampleQuality)
	}
	if c.Audio.DecodeCacheTTL < 0 {
		return fmt.Errorf("audio.decode_cache_ttl must not be negative, got %s", c.Audio.DecodeCacheTTL)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// SetDefaults registers every default with v so that env overrides and
// partial config files resolve against them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.buffer_size", d.Audio.BufferSize)
	v.SetDefault("audio.resample_quality", d.Audio.ResampleQuality)
	v.SetDefault("audio.decode_cache_ttl", d.Audio.DecodeCacheTTL)
	v.SetDefault("log.level", d.Log.Level)
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	log.Debug(log.CatConfig, "Config loaded", "file", v.ConfigFileUsed())
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# floof configuration

# Playback engine
audio:
  sample_rate: 44100       # Output rate in Hz; clips at other rates are resampled
  buffer_size: 100ms       # Output latency
  resample_quality: 4      # 1 (fast) to 64 (best)
  decode_cache_ttl: 0s     # Keep decoded clips in memory between plays (0 disables)

# Logging to stderr (--debug forces debug)
log:
  level: info              # debug, info, warn, error

# Every option can be overridden from the environment, e.g.
#   FLOOF_AUDIO_SAMPLE_RATE=48000
#   FLOOF_LOG_LEVEL=debug
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
