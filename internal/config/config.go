// Package config loads the server settings from flags and CHESS_* environment
// variables. Flags win over the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	Addr           string
	AllowedOrigins []string
	ClockTime      time.Duration
	MatchInterval  time.Duration
	LogLevel       zapcore.Level
	Development    bool
}

func Default() Config {
	return Config{
		Addr:           ":3000",
		AllowedOrigins: []string{"http://localhost:5173"},
		ClockTime:      10 * time.Minute,
		MatchInterval:  time.Second,
		LogLevel:       zapcore.InfoLevel,
	}
}

var (
	ErrNoAddr         = errors.New("listen address is empty")
	ErrClockTime      = errors.New("clock time must be positive")
	ErrMatchInterval  = errors.New("matchmaking interval must be positive")
	ErrAllowedOrigins = errors.New("at least one allowed origin is required")
)

// Load parses args (without the program name) on top of the environment.
func Load(args []string) (Config, error) {
	return load(args, os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if err := cfg.fromEnv(lookup); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	origins := fs.String("origins", strings.Join(cfg.AllowedOrigins, ","), "comma separated CORS origins")
	fs.DurationVar(&cfg.ClockTime, "clock", cfg.ClockTime, "time per side")
	fs.DurationVar(&cfg.MatchInterval, "match-interval", cfg.MatchInterval, "matchmaking poll interval")
	fs.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.BoolVar(&cfg.Development, "dev", cfg.Development, "development logging")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.AllowedOrigins = splitList(*origins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) fromEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("CHESS_ADDR"); ok {
		c.Addr = v
	}
	if v, ok := lookup("CHESS_ORIGINS"); ok {
		c.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("CHESS_CLOCK"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHESS_CLOCK: %w", err)
		}
		c.ClockTime = d
	}
	if v, ok := lookup("CHESS_MATCH_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHESS_MATCH_INTERVAL: %w", err)
		}
		c.MatchInterval = d
	}
	if v, ok := lookup("CHESS_LOG_LEVEL"); ok {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("CHESS_LOG_LEVEL: %w", err)
		}
	}
	if v, ok := lookup("CHESS_DEV"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CHESS_DEV: %w", err)
		}
		c.Development = b
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, ErrNoAddr)
	}
	if len(c.AllowedOrigins) == 0 {
		errs = append(errs, ErrAllowedOrigins)
	}
	if c.ClockTime <= 0 {
		errs = append(errs, ErrClockTime)
	}
	if c.MatchInterval <= 0 {
		errs = append(errs, ErrMatchInterval)
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
