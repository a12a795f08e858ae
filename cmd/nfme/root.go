package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	cfgConfig   = "config"
	cfgLogLevel = "log-level"
	cfgRPC      = "rpc"
	cfgTimeout  = "timeout"
	cfgKey      = "key"

	envPrefix = "NFME"
)

// newRootCommand returns nfme command tree. Every flag can also be set by
// NFME_<FLAG> environment variable (dashes replaced with underscores) or by
// the same key in the config file.
func newRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "nfme",
		Short:         "NFMe identity and claim-gated mint tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}

			if f := v.GetString(cfgConfig); f != "" {
				v.SetConfigFile(f)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config file: %w", err)
				}
			}

			return nil
		},
	}

	root.PersistentFlags().String(cfgConfig, "", "Path to the config file (YAML, JSON or TOML)")
	root.PersistentFlags().String(cfgLogLevel, "info", "Logging level")

	root.AddCommand(
		newClaimCommand(v),
		newDeployCommand(v),
		newIdentityCommand(v),
	)

	return root
}

func newLogger(v *viper.Viper) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(v.GetString(cfgLogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	c := zap.NewProductionConfig()
	c.Level = lvl
	c.Encoding = "console"

	return c.Build()
}
