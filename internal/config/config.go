package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath        string `yaml:"db_path"`
	LogFile       string `yaml:"log_file"`
	LogLevel      string `yaml:"log_level"`
	Timezone      string `yaml:"timezone"`
	Notifications bool   `yaml:"notifications"`
}

// Dir returns ~/.config/lifelog (or the platform equivalent).
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "lifelog"), nil
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Default() *Config {
	dir, err := Dir()
	if err != nil {
		dir = "."
	}
	return &Config{
		DBPath:        filepath.Join(dir, "lifelog.db"),
		LogFile:       filepath.Join(dir, "lifelog.log"),
		LogLevel:      "info",
		Timezone:      "Local",
		Notifications: true,
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error; malformed YAML or an unknown time zone is.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.DBPath = expandHome(cfg.DBPath)
	cfg.LogFile = expandHome(cfg.LogFile)
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "trace", "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured time zone; empty means Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
