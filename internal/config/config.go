package config

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"cell-monitor/internal/registry"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Cells   CellsConfig   `yaml:"cells"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	// Env is "development" or "production"; production puts gin in release mode.
	Env            string   `yaml:"env"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type CellsConfig struct {
	// MaxCount bounds the cell count accepted by the text and web interfaces.
	MaxCount int `yaml:"max_count"`
	// Temperature sampling range in °C. Status thresholds are fixed at 25..40.
	MinTemperature float64 `yaml:"min_temperature"`
	MaxTemperature float64 `yaml:"max_temperature"`
	// Seed makes temperature sampling reproducible when non-zero.
	Seed uint64 `yaml:"seed"`
}

type SessionConfig struct {
	Secret     string        `yaml:"secret"`
	CookieName string        `yaml:"cookie_name"`
	TTL        time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			AllowedOrigins: []string{"*"},
		},
		Cells: CellsConfig{
			MaxCount:       20,
			MinTemperature: registry.DefaultMinTemperature,
			MaxTemperature: registry.DefaultMaxTemperature,
		},
		Session: SessionConfig{
			Secret:     "cell-monitor-dev-secret",
			CookieName: "cellmon_session",
			TTL:        30 * time.Minute,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the YAML file over the defaults, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to parse config file %s", path)
	}
	return c, nil
}

// LoadDotEnv loads a .env file into the process environment if one exists.
func LoadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}
}

// ApplyEnv overlays API_PORT, API_ENV, SESSION_SECRET, LOG_LEVEL and
// CELLMON_MAX_CELLS onto c.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.Session.Secret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CELLMON_MAX_CELLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cells.MaxCount = n
		} else {
			logrus.Warnf("ignoring CELLMON_MAX_CELLS=%q: %v", v, err)
		}
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Cells.MaxCount < 1 {
		return fmt.Errorf("cells.max_count must be >= 1, got %d", c.Cells.MaxCount)
	}
	if c.Cells.MinTemperature > c.Cells.MaxTemperature {
		return fmt.Errorf("cells.min_temperature (%v) must be <= cells.max_temperature (%v)",
			c.Cells.MinTemperature, c.Cells.MaxTemperature)
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Session.Secret == "" {
		return errors.New("session.secret is required")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be > 0")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level invalid: %w", err)
	}
	return nil
}

// Production reports whether the server runs in production mode.
func (c *Config) Production() bool {
	return c.Server.Env == "production"
}

// RegistryOptions builds the registry options implied by the cells section.
func (c *Config) RegistryOptions() []registry.Option {
	opts := []registry.Option{
		registry.WithTemperatureRange(c.Cells.MinTemperature, c.Cells.MaxTemperature),
		registry.WithLogger(logrus.WithField("component", "registry")),
	}
	if c.Cells.Seed != 0 {
		opts = append(opts, registry.WithSampler(rand.New(rand.NewPCG(c.Cells.Seed, c.Cells.Seed))))
	}
	return opts
}
