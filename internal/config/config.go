package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"pronouncer/internal/dictionary"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved application configuration
type Config struct {
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Playback   PlaybackConfig   `mapstructure:"playback"`
	TTS        TTSConfig        `mapstructure:"tts"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Display    DisplayConfig    `mapstructure:"display"`
	Log        LogConfig        `mapstructure:"log"`
}

type DictionaryConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PlaybackConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	TempDir string        `mapstructure:"temp_dir"`
	Player  string        `mapstructure:"player"`
}

type TTSConfig struct {
	Type      string  `mapstructure:"type"`
	Voice     string  `mapstructure:"voice"`
	Speed     float64 `mapstructure:"speed"`
	Volume    float64 `mapstructure:"volume"`
	CachePath string  `mapstructure:"cache_path"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Dir     string        `mapstructure:"dir"`
	MaxAge  time.Duration `mapstructure:"max_age"`
}

type DisplayConfig struct {
	MaxDefinitions int `mapstructure:"max_definitions"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SetDefaults registers every configuration key with its default value
func SetDefaults() {
	cacheDir := DefaultCacheDir()

	viper.SetDefault("dictionary.base_url", dictionary.DefaultBaseURL)
	viper.SetDefault("dictionary.timeout", dictionary.DefaultTimeout)

	viper.SetDefault("playback.timeout", 10*time.Second)
	viper.SetDefault("playback.temp_dir", "")
	viper.SetDefault("playback.player", "")

	viper.SetDefault("tts.type", "auto") // OS speech command
	viper.SetDefault("tts.voice", "default")
	viper.SetDefault("tts.speed", 1.0)
	viper.SetDefault("tts.volume", 1.0)
	viper.SetDefault("tts.cache_path", filepath.Join(cacheDir, "speech"))

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dir", cacheDir)
	viper.SetDefault("cache.max_age", 24*time.Hour)

	viper.SetDefault("display.max_definitions", 3)

	viper.SetDefault("log.level", "warn")
}

// Load reads pronouncer.yaml from cfgFile, or from $HOME/.pronouncer and the
// working directory when cfgFile is empty, and applies PRONOUNCER_* environment
// overrides. A missing default config file is not an error.
func Load(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pronouncer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("$HOME/.pronouncer")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("PRONOUNCER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, nil
}

// DefaultCacheDir returns the appropriate cache directory
func DefaultCacheDir() string {
	if cacheDir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cacheDir, "pronouncer")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".pronouncer", "cache")
	}

	if cwd, err := os.Getwd(); err == nil {
		return filepath.Join(cwd, "cache")
	}

	return "cache"
}
