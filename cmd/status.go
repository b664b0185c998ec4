package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"labstore/internal/bootstrap"
	"labstore/internal/bootstrap/logging"
	"labstore/internal/errs"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show row counts and the stored schema fingerprint",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := cmd.Context()

		// :memory: stores start empty on every run.
		if _, err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}
		st, err := app.Status(ctx)
		if err != nil {
			logging.Error(ctx, "read status failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "read status")
		}
		if err := writeStatus(cmd.OutOrStdout(), app.Config.Database.Driver, st); err != nil {
			return errs.Wrap(err, "write status output")
		}
		return nil
	}),
}

func writeStatus(w io.Writer, driver string, st bootstrap.Status) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "driver\t%s\n", driver)
	fmt.Fprintf(tw, "fingerprint\t%s\n", st.Fingerprint)
	fmt.Fprintf(tw, "materialized_at\t%s\n", st.MaterializedAt)
	for _, c := range st.Collections {
		fmt.Fprintf(tw, "%s\t%d\n", c.Collection, c.Rows)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
