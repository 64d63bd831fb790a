package config

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/papapumpkin/skyview/internal/ephemeris"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Ayanamsha", cfg.Ayanamsha, "lahiri"},
		{"HouseSystem", cfg.HouseSystem, "W"},
		{"EphemerisPath", cfg.EphemerisPath, "ephemeris.toml"},
		{"ProfilePath", cfg.ProfilePath, "birth.toml"},
		{"Format", cfg.Format, "text"},
		{"NoColor", cfg.NoColor, false},
		{"Log.Level", cfg.Log.Level, "warn"},
		{"Log.Format", cfg.Log.Format, "console"},
		{"Dasha.CyclesShown", cfg.Dasha.CyclesShown, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	mode, err := cfg.Mode()
	if err != nil || mode != ephemeris.Lahiri() {
		t.Errorf("Mode() = %v, %v; want lahiri", mode, err)
	}
	hs, err := cfg.Houses()
	if err != nil || hs != ephemeris.HouseWholeSign {
		t.Errorf("Houses() = %v, %v; want W", hs, err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "ayanamsha",
			envKey: "SKYVIEW_AYANAMSHA",
			envVal: "raman",
			field:  func(c Config) any { return c.Ayanamsha },
			want:   "raman",
		},
		{
			name:   "ephemeris_path",
			envKey: "SKYVIEW_EPHEMERIS_PATH",
			envVal: "/data/eph.toml",
			field:  func(c Config) any { return c.EphemerisPath },
			want:   "/data/eph.toml",
		},
		{
			name:   "format",
			envKey: "SKYVIEW_FORMAT",
			envVal: "json",
			field:  func(c Config) any { return c.Format },
			want:   "json",
		},
		{
			name:   "no_color",
			envKey: "SKYVIEW_NO_COLOR",
			envVal: "true",
			field:  func(c Config) any { return c.NoColor },
			want:   true,
		},
		{
			name:   "fixed ayanamsha",
			envKey: "SKYVIEW_AYANAMSHA",
			envVal: "24.1",
			field:  func(c Config) any { return c.Ayanamsha },
			want:   "24.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			t.Setenv(tt.envKey, tt.envVal)
			viper.SetEnvPrefix("SKYVIEW")
			viper.AutomaticEnv()

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			if got := tt.field(cfg); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoad_Nested(t *testing.T) {
	resetViper()
	viper.Set("log.level", "debug")
	viper.Set("log.format", "json")
	viper.Set("dasha.cycles_shown", 3)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" || cfg.Dasha.CyclesShown != 3 {
		t.Errorf("nested config = %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"format", "format", "yaml"},
		{"log level", "log.level", "loud"},
		{"log format", "log.format", "xml"},
		{"cycles", "dasha.cycles_shown", 0},
		{"ayanamsha", "ayanamsha", "galactic"},
		{"fixed ayanamsha out of range", "ayanamsha", "400"},
		{"house system", "house_system", "Z"},
		{"empty profile path", "profile_path", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			viper.Set(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%v should fail", tt.key, tt.value)
			}
		})
	}
}
