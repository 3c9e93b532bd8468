package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestDefaults_AreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "zero sample rate", mutate: func(c *Config) { c.Audio.SampleRate = 0 }, wantErr: "audio.sample_rate"},
		{name: "negative buffer", mutate: func(c *Config) { c.Audio.BufferSize = -time.Millisecond }, wantErr: "audio.buffer_size"},
		{name: "quality zero", mutate: func(c *Config) { c.Audio.ResampleQuality = 0 }, wantErr: "audio.resample_quality"},
		{name: "quality 65", mutate: func(c *Config) { c.Audio.ResampleQuality = 65 }, wantErr: "audio.resample_quality"},
		{name: "negative cache", mutate: func(c *Config) { c.Audio.DecodeCacheTTL = -time.Second }, wantErr: "audio.decode_cache_ttl"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "shout" }, wantErr: "log.level"},
		{name: "empty level means info", mutate: func(c *Config) { c.Log.Level = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestLoad_TemplateRoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".floof", "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	v := newViper()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg, "the template must describe the defaults")
}

func TestLoad_FileOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `audio:
  sample_rate: 48000
  decode_cache_ttl: 5m
log:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

	v := newViper()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, 48000, cfg.Audio.SampleRate)
	require.Equal(t, 5*time.Minute, cfg.Audio.DecodeCacheTTL)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, Defaults().Audio.BufferSize, cfg.Audio.BufferSize, "unset keys keep defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FLOOF_AUDIO_RESAMPLE_QUALITY", "16")
	t.Setenv("FLOOF_LOG_LEVEL", "warn")

	cfg, err := Load(newViper())
	require.NoError(t, err)
	require.Equal(t, 16, cfg.Audio.ResampleQuality)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	v := newViper()
	v.Set("audio.sample_rate", -1)

	_, err := Load(v)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid config")
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Audio.DecodeCacheTTL = 90 * time.Second

	data, err := Marshal(cfg)
	require.NoError(t, err)
	require.Contains(t, string(data), "sample_rate: 44100")
	require.Contains(t, string(data), "buffer_size: 100ms")
	require.Contains(t, string(data), "decode_cache_ttl: 1m30s")

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	require.Equal(t, cfg, back)
}

func TestWriteDefaultConfig_CreatesParent(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}
