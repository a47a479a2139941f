package cli

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration, validate it and print the effective values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
			)
			table.Header([]string{"Setting", "Value"})
			if err := table.Bulk([][]string{
				{"path", cfg.Path},
				{"max_file_size", strconv.FormatUint(cfg.MaxFileSize, 10)},
				{"max_files", strconv.Itoa(cfg.MaxFiles)},
				{"async_mode", strconv.FormatBool(cfg.AsyncMode)},
				{"thread_pool_size", strconv.Itoa(cfg.ThreadPoolSize)},
				{"min_severity", cfg.MinSeverity.String()},
				{"queue_capacity", strconv.Itoa(cfg.QueueCapacity)},
				{"exclusive_lock", strconv.FormatBool(cfg.ExclusiveLock)},
			}); err != nil {
				return err
			}
			return table.Render()
		},
	}
}
