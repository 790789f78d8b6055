package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	SaveDir      string        `yaml:"save_dir"`
	Store        string        `yaml:"store"` // file, sqlite or memory
	SQLitePath   string        `yaml:"sqlite_path"`
	LogFile      string        `yaml:"log_file"`
	LogLevel     string        `yaml:"log_level"`
	TickPeriod   time.Duration `yaml:"tick_period"`
	Debug        bool          `yaml:"debug"` // enables the force-tax key
	GeminiAPIKey string        `yaml:"-"`
	GeminiModel  string        `yaml:"gemini_model"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		SaveDir:     ".saves",
		Store:       "file",
		SQLitePath:  ".saves/clicker.db",
		LogFile:     "clicker.log",
		LogLevel:    "info",
		TickPeriod:  time.Second,
		GeminiModel: "gemini-2.5-flash",
	}
}

// LoadConfig loads .env if present, then the yaml file named by path or
// CLICKER_CONFIG, then environment overrides.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = os.Getenv("CLICKER_CONFIG")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("CLICKER_SAVE_DIR", &c.SaveDir)
	setString("CLICKER_STORE", &c.Store)
	setString("CLICKER_SQLITE_PATH", &c.SQLitePath)
	setString("CLICKER_LOG_FILE", &c.LogFile)
	setString("CLICKER_LOG_LEVEL", &c.LogLevel)
	setString("GEMINI_API_KEY", &c.GeminiAPIKey)
	setString("GEMINI_MODEL", &c.GeminiModel)

	if v := os.Getenv("CLICKER_TICK"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CLICKER_TICK: %w", err)
		}
		c.TickPeriod = d
	}
	if v := os.Getenv("CLICKER_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CLICKER_DEBUG: %w", err)
		}
		c.Debug = b
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Store {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown store %q (want file, sqlite or memory)", c.Store)
	}
	if c.TickPeriod <= 0 {
		return fmt.Errorf("tick period must be positive, got %s", c.TickPeriod)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// AdvisorEnabled reports whether a Gemini key was configured.
func (c *Config) AdvisorEnabled() bool {
	return c.GeminiAPIKey != ""
}
