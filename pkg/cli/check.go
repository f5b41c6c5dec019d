package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/turtle/pkg/bootstrap"
)

// ErrInitFailed is returned by check when any plugin failed to initialise
var ErrInitFailed = errors.New("one or more plugins failed to initialise")

func newCheckCommand(root *rootOptions) *cobra.Command {
	var dirs []string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Initialise every plugin once and report the result",
		Long: `Discover plugins, check their collaborators and writable directories,
and load their config files. Exits non-zero when any plugin fails.`,
		Example: `  # Check plugins from TURTLE_PLUGIN_DIRS
  turtle check

  # Check a specific directory
  turtle check --dir ./plugins`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if len(dirs) > 0 {
				cfg.Plugins.Dirs = dirs
			}

			app, err := NewApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer app.Close()

			results, initErr := app.Bootstrap(cmd.Context())
			if err := writeResults(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			if initErr != nil {
				log.WithError(initErr).Error("Plugin check failed")
				return ErrInitFailed
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&dirs, "dir", nil, "Plugin directory to scan (repeatable)")

	return cmd
}

func resultStatus(r bootstrap.Result) string {
	switch {
	case r.Err != nil:
		return "failed"
	case r.Initiated:
		return "initiated"
	default:
		return "skipped"
	}
}

func writeResults(out io.Writer, results []bootstrap.Result) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLUGIN\tSTATUS\tERROR")
	for _, r := range results {
		msg := "-"
		if r.Err != nil {
			msg = r.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, resultStatus(r), msg)
	}
	return w.Flush()
}
