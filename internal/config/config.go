// Package config loads run-time configuration for the propagator via
// viper, the same library and layered-source convention (config file,
// environment variable override, explicit path) the teacher used for its
// SPICE/VSOP87 ephemeris configuration.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is the propagator's run-time configuration: where the fitted
// ephemeris lives, where output goes, and integrator order and tolerance
// defaults. cmd/apophis reads only EphemerisDir (the fallback for an empty
// --ss_eph_file); its output directory, order and tolerance come from its
// own flags and their defaults, not from OutputDir, DefaultOrder or
// DefaultTol.
type Config struct {
	EphemerisDir string
	OutputDir    string
	DefaultOrder int
	DefaultTol   float64
}

var (
	loaded  = false
	current Config
)

// Load reads configuration the same way the teacher's smdConfig did: a
// named config file located via the APOPHIS_CONFIG environment variable
// (falling back to the current directory), overridable by APOPHIS_
// -prefixed environment variables, cached for the process lifetime.
func Load() (Config, error) {
	if loaded {
		return current, nil
	}

	v := viper.New()
	v.SetConfigName("apophis")
	v.SetConfigType("toml")
	if dir := os.Getenv("APOPHIS_CONFIG"); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("APOPHIS")
	v.AutomaticEnv()

	v.SetDefault("ephemeris.directory", "./ephemeris")
	v.SetDefault("output.directory", "./output")
	v.SetDefault("integrator.order", 20)
	v.SetDefault("integrator.abstol", 1e-16)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("config: reading apophis.toml: %w", err)
		}
		// No config file is not fatal: the defaults plus environment
		// overrides are enough to run against a freshly fitted ephemeris.
	}

	current = Config{
		EphemerisDir: v.GetString("ephemeris.directory"),
		OutputDir:    v.GetString("output.directory"),
		DefaultOrder: v.GetInt("integrator.order"),
		DefaultTol:   v.GetFloat64("integrator.abstol"),
	}
	loaded = true
	return current, nil
}
