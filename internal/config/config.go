package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SCREENMESH_LOGGING_LEVEL
// for logging.level.
const EnvPrefix = "SCREENMESH"

// Config represents the complete screenmesh configuration
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Host    HostConfig    `mapstructure:"host" yaml:"host"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	// Level is the minimum level written: debug, info, warn or error (default: "warn")
	Level string `mapstructure:"level" yaml:"level"`
	// Format is the record encoding: "json", "text" or "auto", which picks
	// text on a terminal and json otherwise (default: "text")
	Format string `mapstructure:"format" yaml:"format"`
	// AddSource includes the source position in each record
	AddSource bool `mapstructure:"add_source" yaml:"add_source"`
}

// HostConfig controls the root of the screen tree
type HostConfig struct {
	// Root is the root conductor kind: "one_active", "all_active" or "conductor" (default: "one_active")
	Root string `mapstructure:"root" yaml:"root"`
	// CloseStrategy decides which screens may close: "default" asks each
	// screen's guard, "force" closes without asking (default: "default")
	CloseStrategy string `mapstructure:"close_strategy" yaml:"close_strategy"`
}

// Default returns a Config with all default values
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:     "warn",
			Format:    "text",
			AddSource: false,
		},
		Host: HostConfig{
			Root:          "one_active",
			CloseStrategy: "default",
		},
	}
}

// SetDefaults registers the default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.format", defaults.Logging.Format)
	viper.SetDefault("logging.add_source", defaults.Logging.AddSource)

	viper.SetDefault("host.root", defaults.Host.Root)
	viper.SetDefault("host.close_strategy", defaults.Host.CloseStrategy)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "screenmesh")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".screenmesh"
	}
	return filepath.Join(home, ".config", "screenmesh")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
