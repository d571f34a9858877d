package main

import (
	"github.com/spf13/cobra"

	"github.com/sensemill/logweave/internal/config"
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "logweave",
	Short: "Structure log lines with templates and dominance context",
	Long: `logweave matches log lines against a template catalog produced by an
external control-flow analysis tool, and resolves cross-line context
values by walking each matched template's dominance chain through
recently seen lines.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")
}

// loadConfig builds the effective configuration: defaults, config file,
// environment, then command-line flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	applyParseFlags(cmd, &cfg)
	return cfg, nil
}
