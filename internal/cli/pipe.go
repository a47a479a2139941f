package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	mlogger "github.com/Furry-Monster/MLogger"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const maxLineSize = 1024 * 1024

func newPipeCommand(opts *rootOptions) *cobra.Command {
	var severity string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Write every line read from stdin to the log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sev, err := mlogger.ParseSeverity(severity)
			if err != nil {
				return err
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			m := mlogger.New(
				mlogger.WithDiagnostics(stderr),
				mlogger.WithErrorCallback(func(message, function string) {
					fmt.Fprintf(stderr, "mlogger: %s: %s\n", function, message)
				}),
			)
			defer m.Close()

			if !m.Initialize(cfg) {
				return errors.Errorf("could not initialize logging to %s", cfg.Path)
			}

			readErr := copyLines(cmd.Context(), m, cmd.InOrStdin(), sev)
			if !quiet {
				if err := writeSummary(cmd.OutOrStdout(), m.Gatherer()); err != nil {
					return err
				}
			}
			m.Terminate()
			return readErr
		},
	}

	cmd.Flags().StringVarP(&severity, "severity", "s", "info", "severity of every piped line")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the metrics summary")
	return cmd
}

// copyLines logs each line of r at sev until EOF or cancellation, then
// flushes dst.
func copyLines(ctx context.Context, dst mlogger.Logger, r io.Reader, sev mlogger.Severity) error {
	defer dst.Flush()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if ctx != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		dst.Log(sev, scanner.Text())
	}
	return errors.Wrap(scanner.Err(), "read stdin")
}

// writeSummary prints every counter and gauge sample as "name{labels} value".
func writeSummary(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}

	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			var value float64
			switch {
			case metric.GetCounter() != nil:
				value = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				value = metric.GetGauge().GetValue()
			default:
				continue
			}

			var labels []string
			for _, lp := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, value))
		}
	}

	sort.Strings(lines)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
