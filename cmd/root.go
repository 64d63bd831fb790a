package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/skyview/internal/config"
	"github.com/papapumpkin/skyview/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "skyview",
	Short: "Sidereal charts, Vimshottari Dasha and Dasha-weighted transit readings",
	Long: "Skyview builds sidereal natal and transit charts from a birth profile and an\n" +
		"ephemeris snapshot table, tracks the Vimshottari Dasha periods, and ranks\n" +
		"current transits by the planets ruling the running Mahadasha and Antardasha.",
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .skyview.yaml)")
	pf.StringP("profile", "p", "", "birth profile TOML (default birth.toml)")
	pf.StringP("ephemeris", "e", "", "ephemeris snapshot table (default ephemeris.toml)")
	pf.StringP("format", "f", "", "report format: text or json")
	pf.String("ayanamsha", "", "ayanamsha: lahiri, raman, krishnamurti or fixed degrees")
	pf.String("at", "", "transit instant (RFC3339 or YYYY-MM-DD, default now)")
	pf.Bool("no-color", false, "disable coloured output")
	pf.BoolP("verbose", "v", false, "debug logging")

	for key, flag := range map[string]string{
		"profile_path":   "profile",
		"ephemeris_path": "ephemeris",
		"format":         "format",
		"ayanamsha":      "ayanamsha",
		"no_color":       "no-color",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".skyview")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("SKYVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// loadConfig loads configuration and applies flags that do not map onto a
// config key.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logging.Init(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		NoColor: cfg.NoColor,
		Output:  cmd.ErrOrStderr(),
	})
	logging.Debug().
		Str("profile", cfg.ProfilePath).
		Str("ephemeris", cfg.EphemerisPath).
		Str("ayanamsha", cfg.Ayanamsha).
		Str("config", viper.ConfigFileUsed()).
		Msg("configuration loaded")
	return nil
}
