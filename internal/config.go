package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadConfig
const (
	EnvDatabase = "WXMSG_DB"
	EnvTimeZone = "WXMSG_TZ"
	EnvPageSize = "WXMSG_PAGE_SIZE"
)

// DefaultEnvFile is the dotenv file LoadConfig reads from the working directory
const DefaultEnvFile = ".env"

// Config holds the settings shared by all commands
type Config struct {
	Database  string `yaml:"database" toml:"database"`
	TimeZone  string `yaml:"timezone" toml:"timezone"`
	PageSize  int    `yaml:"page_size" toml:"page_size"`
	Format    string `yaml:"format" toml:"format"`
	OutputDir string `yaml:"output_dir" toml:"output_dir"`
	Workers   int    `yaml:"workers" toml:"workers"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		TimeZone:  "Local",
		PageSize:  DefaultPageSize,
		Format:    "jsonl",
		OutputDir: "./exports",
		Workers:   1,
	}
}

// LoadConfig builds a Config from defaults, the optional config file, the
// dotenv file, and the environment, in that order. Missing dotenv files are
// ignored; a named config file must exist.
func LoadConfig(configPath, envFile string) (Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, &cfg); err != nil {
			return cfg, err
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = values
			LogDebug("Loaded %d values from %s", len(values), envFile)
		case errors.Is(err, fs.ErrNotExist):
			LogDebug("%s not found, using environment only", envFile)
		default:
			return cfg, &ConfigError{Path: envFile, Err: err}
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if v, ok := lookup(EnvDatabase); ok && v != "" {
		cfg.Database = v
	}
	if v, ok := lookup(EnvTimeZone); ok && v != "" {
		cfg.TimeZone = v
	}
	if v, ok := lookup(EnvPageSize); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return cfg, &ConfigError{Path: EnvPageSize, Err: fmt.Errorf("invalid page size %q: %w", v, err)}
		}
		cfg.PageSize = n
	}

	return cfg, nil
}

// loadConfigFile decodes a YAML or TOML file, chosen by extension, over cfg
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return &ConfigError{Path: path, Err: fmt.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", filepath.Ext(path))}
	}
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	return nil
}

// Validate checks the settings that commands rely on
func (c Config) Validate() error {
	if c.PageSize <= 0 {
		return &ConfigError{Path: "page_size", Err: fmt.Errorf("must be positive, got %d", c.PageSize)}
	}
	if c.Workers < 1 {
		return &ConfigError{Path: "workers", Err: fmt.Errorf("must be at least 1, got %d", c.Workers)}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TimeZone; "" and "Local" mean the system zone
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, &ConfigError{Path: "timezone", Err: err}
	}
	return loc, nil
}
