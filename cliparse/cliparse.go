// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port         int    `yaml:"port"`
	DatabaseURL  string `yaml:"database_url"`
	DatabaseType string `yaml:"database_type"`
	MediaDir     string `yaml:"media_dir"`
	MediaURL     string `yaml:"media_url"`
	PageSize     int    `yaml:"page_size"`
	LogLevel     string `yaml:"log_level"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Port:         3318,
		DatabaseType: DatabaseSQLite,
		MediaDir:     "media",
		MediaURL:     "/media/",
		PageSize:     6,
		LogLevel:     "info",
	}
}

// SlogLevel parses LogLevel into a slog.Level
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Flags holds the raw flag values registered by AddFlags.
type Flags struct {
	fs *pflag.FlagSet

	port         int
	databaseURL  string
	databaseType string
	mediaDir     string
	mediaURL     string
	pageSize     int
	logLevel     string
	configFile   string
	envFile      string
}

// AddFlags registers configuration flags on fs
func AddFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}

	// Network and storage config (can be CLI args or env)
	fs.IntVarP(&f.port, "port", "p", 0, "Server port")
	fs.StringVarP(&f.databaseURL, "database-url", "d", "", "Database URL")
	fs.StringVarP(&f.databaseType, "database-type", "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&f.mediaDir, "media-dir", "", "Directory for uploaded recipe images")
	fs.StringVar(&f.mediaURL, "media-url", "", "URL prefix for uploaded recipe images")
	fs.IntVar(&f.pageSize, "page-size", 0, "Default page size for list endpoints")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Sources
	fs.StringVarP(&f.configFile, "config", "c", "", "YAML config file")
	fs.StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	return f
}

// Resolve merges flags, environment, config file and defaults.
// Precedence: flag > env > config file > default.
func (f *Flags) Resolve() (Config, error) {
	if f.envFile != "" {
		if err := godotenv.Load(f.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f.envFile, err)
		}
	}

	cfg := Defaults()

	if f.configFile != "" {
		raw, err := os.ReadFile(f.configFile)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Fall back to environment variables
	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, errors.New("invalid PORT env variable")
		}
		cfg.Port = port
	}
	if sizeStr := os.Getenv("PAGE_SIZE"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return Config{}, errors.New("invalid PAGE_SIZE env variable")
		}
		cfg.PageSize = size
	}
	envString(&cfg.DatabaseURL, "DATABASE_URL")
	envString(&cfg.DatabaseType, "DATABASE_TYPE")
	envString(&cfg.MediaDir, "MEDIA_DIR")
	envString(&cfg.MediaURL, "MEDIA_URL")
	envString(&cfg.LogLevel, "LOG_LEVEL")

	// CLI flags win
	if f.fs.Changed("port") {
		cfg.Port = f.port
	}
	if f.fs.Changed("database-url") {
		cfg.DatabaseURL = f.databaseURL
	}
	if f.fs.Changed("database-type") {
		cfg.DatabaseType = f.databaseType
	}
	if f.fs.Changed("media-dir") {
		cfg.MediaDir = f.mediaDir
	}
	if f.fs.Changed("media-url") {
		cfg.MediaURL = f.mediaURL
	}
	if f.fs.Changed("page-size") {
		cfg.PageSize = f.pageSize
	}
	if f.fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	switch c.DatabaseType {
	case DatabaseSQLite, DatabasePostgres:
	default:
		return fmt.Errorf("unsupported database type %q", c.DatabaseType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.PageSize <= 0 {
		return errors.New("page size must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// ParseFlags parses args on a fresh flag set and resolves the configuration
func ParseFlags(args []string) (Config, error) {
	fs := pflag.NewFlagSet("foodgram", pflag.ContinueOnError)
	f := AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return f.Resolve()
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
