// Package config loads daylog settings: built-in defaults, overlaid by a
// YAML file and then by DAYLOG_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/balkashynov/daylog/internal/models"
)

// Config holds runtime settings
type Config struct {
	Database   string           `mapstructure:"database" yaml:"database"`
	Timezone   string           `mapstructure:"timezone" yaml:"timezone"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Report     ReportConfig     `mapstructure:"report" yaml:"report"`
	Categories CategoriesConfig `mapstructure:"categories" yaml:"categories"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

// ReportConfig configures report output
type ReportConfig struct {
	View string `mapstructure:"view" yaml:"view"` // chart, table
}

// CategoriesConfig configures category seeding
type CategoriesConfig struct {
	Defaults []string `mapstructure:"defaults" yaml:"defaults"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Database: filepath.Join(HomeDir(), "daylog.db"),
		Timezone: "America/Chicago",
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Report: ReportConfig{
			View: "chart",
		},
		Categories: CategoriesConfig{
			Defaults: append([]string(nil), models.DefaultCategories...),
		},
	}
}

// HomeDir returns the daylog data directory (~/.daylog)
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".daylog"
	}
	return filepath.Join(home, ".daylog")
}

// DefaultPath returns the path of the default config file
func DefaultPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// Location loads the configured civil timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks enum-like settings and the timezone
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q", c.Log.Format)
	}
	switch c.Report.View {
	case "chart", "table":
	default:
		return fmt.Errorf("invalid report.view %q (chart or table)", c.Report.View)
	}
	return nil
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
