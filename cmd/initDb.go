/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"labstore/internal/bootstrap"
	"labstore/internal/bootstrap/logging"
	"labstore/internal/errs"
	"labstore/internal/infrastructure/persistence/relational/migrate"
)

// initDbCmd represents the initDb command
var initDbCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Materialize the lab schema",
	Long:  "Creates every missing lab collection in dependency order and verifies existing ones. Safe to run repeatedly.",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := cmd.Context()
		logging.Info(ctx, "start init-db")

		report, err := app.InitSchema(ctx)
		if err != nil {
			logging.Error(ctx, "initialize schema failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "initialize schema")
		}

		logging.Info(ctx, "init-db finished", slog.String("database_driver", app.Config.Database.Driver))
		if err := writeReport(cmd.OutOrStdout(), report); err != nil {
			return errs.Wrap(err, "write init-db output")
		}
		return nil
	}),
}

func writeReport(w io.Writer, report migrate.Report) error {
	for _, name := range report.Created {
		if _, err := fmt.Fprintf(w, "created  %s\n", name); err != nil {
			return err
		}
	}
	for _, name := range report.Verified {
		if _, err := fmt.Fprintf(w, "verified %s\n", name); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "fingerprint %s\n", report.Fingerprint)
	return err
}

func init() {
	rootCmd.AddCommand(initDbCmd)
}
