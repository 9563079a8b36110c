// Package cli implements the screenmesh command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/screenmesh/internal/config"
	"github.com/hupe1980/screenmesh/logging"
)

var rootCmd = &cobra.Command{
	Use:   "screenmesh",
	Short: "Drive lifecycle-aware screen trees from YAML manifests",
	Long: `screenmesh builds a tree of screens and conductors from a YAML manifest,
runs a script of host operations against it (open, close, deactivate,
shutdown) and prints the resulting lifecycle journal.`,
	SilenceUsage: true,
}

// configErr holds the failure to read an explicitly requested config file.
var configErr error

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/screenmesh/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	bindFlags()
}

func bindFlags() {
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()
	configErr = nil

	cfgFile := viper.GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(config.EnvPrefix)
	// e.g., SCREENMESH_HOST_CLOSE_STRATEGY for host.close_strategy
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = fmt.Errorf("read config: %w", err)
		}
	}
}

// loadConfig returns the effective, validated configuration.
func loadConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, configErr
	}
	return config.Load()
}

// newLogger builds the structured logger described by cfg, writing to w.
func newLogger(cfg *config.Config, w io.Writer) *logging.ScreenMeshLogger {
	level, _ := logging.ParseLevel(cfg.Logging.Level)

	lc := logging.DefaultLoggerConfig()
	lc.Level = level
	lc.Format = resolveFormat(cfg.Logging.Format, w)
	lc.AddSource = cfg.Logging.AddSource
	lc.Output = w
	lc.Component = "cli"
	return logging.NewLogger(lc)
}

// resolveFormat maps "auto" to text for terminals and json for everything
// else.
func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			return "text"
		}
	}
	return "json"
}
