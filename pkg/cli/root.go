package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/platinummonkey/turtle/pkg/config"
	"github.com/platinummonkey/turtle/pkg/observability"
)

// Version is set at build time
var Version = "dev"

type rootOptions struct {
	logLevel string
}

// NewRootCommand creates the turtle command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "turtle",
		Short: "Bootstrap and serve plugins",
		Long: `turtle discovers plugins, checks the collaborators they depend on,
loads each plugin's config file once and serves the result.

Configuration is read from TURTLE_* environment variables.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(newCheckCommand(opts))
	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// loadConfig reads the environment config and applies the persistent flags
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Observability.LogLevel = observability.ParseLogLevel(o.logLevel)
	}

	log := observability.NewLogger(cfg.Observability.LogLevel, cmd.ErrOrStderr())
	return cfg, log, nil
}
