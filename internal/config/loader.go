package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load builds a Config from defaults, the YAML file at path and DAYLOG_*
// environment variables. An empty path means DefaultPath(), which may be
// absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DAYLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Env lookups only happen for keys viper knows about
	v.SetDefault("database", cfg.Database)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("report.view", cfg.Report.View)
	v.SetDefault("categories.defaults", cfg.Categories.Defaults)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Database = expandHome(cfg.Database)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WriteDefault writes the default configuration as YAML to path
func WriteDefault(path string) error {
	return Write(path, DefaultConfig())
}

// Write serializes cfg as YAML to path
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	header := "# daylog configuration\n# Environment overrides: DAYLOG_DATABASE, DAYLOG_TIMEZONE, DAYLOG_LOG_LEVEL, ...\n"
	return os.WriteFile(path, append([]byte(header), data...), 0644)
}

// Dump renders cfg as YAML
func Dump(cfg *Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
