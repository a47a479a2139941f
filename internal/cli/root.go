// Package cli implements the mlogger command.
package cli

import (
	"context"
	"fmt"

	mlogger "github.com/Furry-Monster/MLogger"
	"github.com/Furry-Monster/MLogger/internal/settings"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logPath    string
}

// load resolves the effective configuration; --path beats every other layer.
func (o *rootOptions) load() (mlogger.Config, error) {
	var overrides []settings.Override
	if o.logPath != "" {
		overrides = append(overrides, func(c *mlogger.Config) { c.Path = o.logPath })
	}
	return settings.Load(o.configPath, overrides...)
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "mlogger",
		Short:         "Rotating file logger with a managed lifecycle",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVarP(&opts.logPath, "path", "p", "", "log file path (overrides config and environment)")

	root.AddCommand(
		newValidateCommand(opts),
		newPipeCommand(opts),
		newVersionCommand(version),
	)
	return root
}

// Execute runs the command tree until it finishes or ctx is cancelled.
func Execute(ctx context.Context, version string) error {
	return NewRootCommand(version).ExecuteContext(ctx)
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
