package commands

import (
	"github.com/spf13/cobra"

	"github.com/gaborage/go-holded/config"
)

// ConfigOptions holds options for the config command
type ConfigOptions struct {
	SkipValidation bool
}

func newConfigCommand(g *GlobalOptions) *cobra.Command {
	opts := &ConfigOptions{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the merged configuration with the API key masked. Use it to check
which values holded.yaml, the .env file and the environment produce.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfigWith(opts.SkipValidation)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), g.Output, cfg.Redacted())
		},
	}

	cmd.Flags().BoolVar(&opts.SkipValidation, "skip-validation", false, "Print the configuration even when it is invalid")

	return cmd
}

func (o *GlobalOptions) loadConfigWith(skipValidation bool) (*config.Config, error) {
	if !skipValidation {
		return o.loadConfig()
	}
	opts := o.configOptions()
	opts.SkipValidation = true
	return config.LoadWith(opts)
}
