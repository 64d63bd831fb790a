package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/papapumpkin/skyview/internal/ephemeris"
	"github.com/papapumpkin/skyview/internal/validation"
)

// LogConfig holds logging options.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error disabled off"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// DashaConfig holds Dasha display options.
type DashaConfig struct {
	CyclesShown int `mapstructure:"cycles_shown" validate:"gte=1,lte=20"`
}

// Config holds all runtime configuration for a skyview invocation.
// Values are populated from .skyview.yaml, SKYVIEW_* env vars, and CLI flags.
type Config struct {
	Ayanamsha     string      `mapstructure:"ayanamsha"`
	HouseSystem   string      `mapstructure:"house_system"`
	EphemerisPath string      `mapstructure:"ephemeris_path"`
	ProfilePath   string      `mapstructure:"profile_path" validate:"required"`
	Format        string      `mapstructure:"format" validate:"oneof=text json"`
	NoColor       bool        `mapstructure:"no_color"`
	Log           LogConfig   `mapstructure:"log"`
	Dasha         DashaConfig `mapstructure:"dasha"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("ayanamsha", "lahiri")
	viper.SetDefault("house_system", "W")
	viper.SetDefault("ephemeris_path", "ephemeris.toml")
	viper.SetDefault("profile_path", "birth.toml")
	viper.SetDefault("format", "text")
	viper.SetDefault("no_color", false)
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("dasha.cycles_shown", 1)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := validation.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.Mode(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.Houses(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Mode returns the parsed ayanamsha mode.
func (c Config) Mode() (ephemeris.Mode, error) {
	return ephemeris.ParseMode(c.Ayanamsha)
}

// Houses returns the parsed house system code.
func (c Config) Houses() (ephemeris.HouseSystem, error) {
	return ephemeris.ParseHouseSystem(c.HouseSystem)
}
