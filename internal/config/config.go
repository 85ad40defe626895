// Package config holds the settings shared by the benchkit commands and
// maps environment variables and an optional config file onto them.
//
// Precedence, highest first: flags given on the command line, BENCHKIT_*
// environment variables, the config file, defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/randomizedcoder/benchkit/internal/logging"
	"github.com/randomizedcoder/benchkit/internal/report"
	"github.com/randomizedcoder/benchkit/internal/tick"
)

// EnvPrefix is prepended to flag names, upper-cased with dashes turned to
// underscores, to form environment variable names: --log-level is read from
// BENCHKIT_LOG_LEVEL.
const EnvPrefix = "benchkit"

const errorMessagePrefix = "error mapping configuration to command flags"

// Config is the full set of tunables.
type Config struct {
	File string

	Counter  string
	Interval time.Duration
	Warmup   time.Duration
	Rounds   int
	Pin      int

	Format    string
	LogLevel  string
	LogFormat string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Interval:  tick.DefaultInterval,
		Warmup:    200 * time.Millisecond,
		Rounds:    16,
		Pin:       -1,
		Format:    report.FormatTable,
		LogLevel:  "info",
		LogFormat: logging.FormatText,
	}
}

// Bind registers c's fields as flags on fs, with c's current values as
// defaults.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.File, "config", c.File, "read settings from this file (yaml, json or toml); keys are flag names, e.g. log-level or log_level")
	fs.StringVar(&c.Counter, "counter", c.Counter, "counter backend to use; empty selects the best available")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "calibration interval")
	fs.DurationVar(&c.Warmup, "warmup", c.Warmup, "busy-wait before calibrating")
	fs.IntVar(&c.Rounds, "rounds", c.Rounds, "timing rounds for the cycles-per-tick estimate")
	fs.IntVar(&c.Pin, "pin", c.Pin, "pin the measuring thread to this CPU; -1 disables")
	fs.StringVar(&c.Format, "format", c.Format, "output format: table or prometheus")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: text or json")
}

// Apply fills every flag of command that was not set on the command line
// from the environment, then from the config file named by --config.
func (c *Config) Apply(command *cobra.Command) error {
	v := viper.New()
	if c.File != "" {
		v.SetConfigFile(c.File)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("%s: reading %s: %w", errorMessagePrefix, c.File, err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var errs []string
	command.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		if f.Changed {
			return
		}
		// env and underscore keys first, then the flag spelling in a file
		for _, key := range []string{strings.ReplaceAll(f.Name, "-", "_"), f.Name} {
			if !v.IsSet(key) {
				continue
			}
			if err := command.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(key))); err != nil {
				errs = append(errs, err.Error())
			}
			return
		}
	})

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %s", errorMessagePrefix, strings.Join(errs, "; "))
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if _, err := tick.Lookup(c.Counter); err != nil {
		return err
	}
	switch {
	case c.Interval <= 0:
		return fmt.Errorf("interval %v must be positive", c.Interval)
	case c.Warmup < 0:
		return fmt.Errorf("warmup %v must not be negative", c.Warmup)
	case c.Rounds <= 0:
		return fmt.Errorf("rounds %d must be positive", c.Rounds)
	case c.Pin < -1:
		return fmt.Errorf("pin %d must be a CPU number or -1", c.Pin)
	}
	switch c.Format {
	case report.FormatTable, report.FormatPrometheus:
	default:
		return fmt.Errorf("invalid output format: %v", c.Format)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := logging.Formatter(c.LogFormat); err != nil {
		return err
	}
	return nil
}

// CalibratorOptions translates the calibration settings for
// tick.NewCalibrator. The counter must already have been looked up.
func (c *Config) CalibratorOptions() []tick.Option {
	return []tick.Option{
		tick.WithInterval(c.Interval),
		tick.WithWarmup(c.Warmup),
		tick.WithRounds(c.Rounds),
	}
}
