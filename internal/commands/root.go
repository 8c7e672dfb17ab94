// Package commands implements the holded command line tool.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	holded "github.com/gaborage/go-holded"
	"github.com/gaborage/go-holded/config"
)

var (
	okLabel    = color.New(color.FgGreen)
	errorLabel = color.New(color.FgRed, color.Bold)
	hintLabel  = color.New(color.FgYellow)
)

// GlobalOptions holds the flags shared by every command.
type GlobalOptions struct {
	ConfigFile string
	EnvFile    string
	Output     string

	// environ replaces os.Environ in tests.
	environ func() []string
}

// NewRootCommand creates the holded command tree.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(version, &GlobalOptions{})
}

func newRootCommand(version string, opts *GlobalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "holded",
		Short: "Call the Holded API from the command line",
		Long: `Issue authenticated calls against the Holded REST API.

Credentials and client settings come from holded.yaml, a .env file and
HOLDED_* environment variables, in increasing order of precedence.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return validateOutput(opts.Output)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file (default ./holded.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file with HOLDED_* variables")
	rootCmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", formatJSON, "Output format (json|yaml)")

	rootCmd.AddCommand(
		newRequestCommand(opts, "get"),
		newRequestCommand(opts, "post"),
		newRequestCommand(opts, "put"),
		newRequestCommand(opts, "delete"),
		newDownloadCommand(opts),
		newConfigCommand(opts),
		NewVersionCommand(version),
	)

	return rootCmd
}

func (o *GlobalOptions) configOptions() config.Options {
	path := o.ConfigFile
	if path == "" {
		if _, err := os.Stat("holded.yaml"); err == nil {
			path = "holded.yaml"
		}
	}
	return config.Options{
		File:    path,
		DotEnv:  o.EnvFile,
		Environ: o.environ,
	}
}

func (o *GlobalOptions) loadConfig() (*config.Config, error) {
	return config.LoadWith(o.configOptions())
}

func (o *GlobalOptions) newClient() (*holded.Client, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return holded.NewFromConfig(cfg)
}

// PrintError writes err to w, with the fix suggested by configuration errors.
func PrintError(w io.Writer, err error) {
	errorLabel.Fprint(w, "Error: ")
	fmt.Fprintln(w, err)

	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Action != "" {
		hintLabel.Fprintf(w, "  hint: %s\n", cfgErr.Action)
	}
	if apiErr, ok := holded.AsError(err); ok && apiErr.RequestID != "" {
		fmt.Fprintf(w, "  request id: %s\n", apiErr.RequestID)
	}
}
